package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// Store is the per-user course document store over Redis. Each course
// is one JSON document keyed by its id, plus a per-user set of ids for
// listing.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis document store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// courseDoc pins the document wire format: name, folder sequence and
// folder -> links mapping.
type courseDoc struct {
	Name    string                   `json:"name"`
	Folders []string                 `json:"folders"`
	Links   map[string][]domain.Link `json:"links"`
}

// CreateCourse creates an empty course document and returns its
// generated id.
func (s *Store) CreateCourse(ctx context.Context, userID, name string) (string, error) {
	id := uuid.NewString()
	doc := courseDoc{Name: name, Folders: []string{}, Links: map[string][]domain.Link{}}
	if err := s.writeDoc(ctx, userID, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// SaveCourse writes a full course document keyed by c.ID, creating or
// replacing it. Used by undo to recreate a deleted course under its
// original id.
func (s *Store) SaveCourse(ctx context.Context, userID string, c *domain.Course) error {
	doc := courseDoc{Name: c.Name, Folders: c.Folders, Links: c.Links}
	return s.writeDoc(ctx, userID, c.ID, doc)
}

// ReadCourse fetches one course document.
func (s *Store) ReadCourse(ctx context.Context, userID, id string) (*domain.Course, error) {
	data, err := s.client.Get(ctx, CourseKey(userID, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	var doc courseDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course: %w", err)
	}

	c := domain.NewCourse(id, doc.Name)
	if doc.Folders != nil {
		c.Folders = doc.Folders
	}
	if doc.Links != nil {
		c.Links = doc.Links
	}
	return c, nil
}

// UpdateCourse replaces the folder sequence and link mapping of an
// existing course document, keeping its name.
func (s *Store) UpdateCourse(ctx context.Context, userID, id string, folders []string, links map[string][]domain.Link) error {
	current, err := s.ReadCourse(ctx, userID, id)
	if err != nil {
		return err
	}
	doc := courseDoc{Name: current.Name, Folders: folders, Links: links}
	return s.writeDoc(ctx, userID, id, doc)
}

// DeleteCourse removes a course document and its id from the user set.
func (s *Store) DeleteCourse(ctx context.Context, userID, id string) error {
	if err := s.client.Del(ctx, CourseKey(userID, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if err := s.client.SRem(ctx, UserCoursesKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to remove course from set: %w", err)
	}
	return nil
}

// ListCourses retrieves all course documents for the user.
func (s *Store) ListCourses(ctx context.Context, userID string) ([]*domain.Course, error) {
	ids, err := s.client.SMembers(ctx, UserCoursesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get course ids: %w", err)
	}

	courses := make([]*domain.Course, 0, len(ids))
	for _, id := range ids {
		c, err := s.ReadCourse(ctx, userID, id)
		if err != nil {
			// Skip documents that couldn't be retrieved
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// CourseNameExists reports whether the user already has a course with
// the given name, case-insensitively.
func (s *Store) CourseNameExists(ctx context.Context, userID, name string) (bool, error) {
	courses, err := s.ListCourses(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range courses {
		if domain.SameName(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) writeDoc(ctx context.Context, userID, id string, doc courseDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}
	if err := s.client.Set(ctx, CourseKey(userID, id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	if err := s.client.SAdd(ctx, UserCoursesKey(userID), id).Err(); err != nil {
		return fmt.Errorf("failed to add course to set: %w", err)
	}
	return nil
}
