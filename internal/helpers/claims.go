package helpers

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Helper methods for role checking
func (sc *SessionClaims) IsAdmin() bool {
	return sc.Role == "ADMIN"
}

func (sc *SessionClaims) HasRole(role string) bool {
	return sc.Role == role
}

func (sc *SessionClaims) IsOwner(userID string) bool {
	return sc.UserID == userID
}

func (sc *SessionClaims) GetSafeRole() string {
	if sc.Role == "" {
		return "USER"
	}
	return sc.Role
}
