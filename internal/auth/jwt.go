package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ssRohan-32/link-organizer/internal/domain"
)

// Claims carries the signed-in user's id alongside the registered
// claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// GenerateToken signs an HS256 token for userID.
func GenerateToken(userID string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// UserIDFromToken validates a token and extracts the user id.
// Invalid, expired or foreign tokens yield domain.ErrUnauthenticated.
func UserIDFromToken(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.UserID, nil
}
