package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lrms/access-portal/internal/core/domain"
)

// issueToken signs an HS256 API token for u. The jti claim makes each
// issued token distinct even for back-to-back logins of the same user.
func issueToken(secret string, ttl time.Duration, u domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
