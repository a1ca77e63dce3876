package redis

const (
	// KeyPrefixUser is the prefix for all per-user keys.
	KeyPrefixUser = "linkorg:user:"
)

// CourseKey returns the key holding one course document.
func CourseKey(userID, courseID string) string {
	return KeyPrefixUser + userID + ":course:" + courseID
}

// UserCoursesKey returns the key of the set of a user's course ids.
func UserCoursesKey(userID string) string {
	return KeyPrefixUser + userID + ":courses"
}

// UserKey returns the key holding a user account record.
func UserKey(email string) string {
	return "linkorg:auth:user:" + email
}
