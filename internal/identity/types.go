package identity

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

// Persisted row schemas. Decoding is keyed on these headers; a file written
// with any other layout fails with flatfile.ErrInconsistentSchema.
var (
	UserSchema    = flatfile.MustSchema("users", "id", "name", "email", "password", "created_at")
	SessionSchema = flatfile.MustSchema("sessions", "token", "user_id", "created_at")
)

const (
	minNameLength     = 3
	minPasswordLength = 6
)

// User is one registered account, digest included. It never crosses the HTTP
// boundary; handlers receive PublicUser instead.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordDigest string
	CreatedAt      string
}

// PublicUser is the identity view safe to return to callers.
type PublicUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Stats summarizes the users store. LastRegistration is nil while no user
// has registered yet.
type Stats struct {
	TotalUsers       int     `json:"total_users"`
	LastRegistration *string `json:"last_registration"`
}

// Session associates an opaque token with a user id.
type Session struct {
	Token     string
	UserID    string
	CreatedAt string
}

// Public strips the credential digest.
func (user User) Public() PublicUser {
	return PublicUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// NormalizeEmail validates the address shape. The address is stored as
// submitted; uniqueness and lookups compare case-insensitively.
func NormalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidEmail)
	}
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, raw)
	}
	return trimmed, nil
}

func userToRow(user User) flatfile.Row {
	return flatfile.Row{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"password":   user.PasswordDigest,
		"created_at": user.CreatedAt,
	}
}

func userFromRow(row flatfile.Row) User {
	return User{
		ID:             row["id"],
		Name:           row["name"],
		Email:          row["email"],
		PasswordDigest: row["password"],
		CreatedAt:      row["created_at"],
	}
}

func sessionToRow(session Session) flatfile.Row {
	return flatfile.Row{
		"token":      session.Token,
		"user_id":    session.UserID,
		"created_at": session.CreatedAt,
	}
}

func sessionFromRow(row flatfile.Row) Session {
	return Session{
		Token:     row["token"],
		UserID:    row["user_id"],
		CreatedAt: row["created_at"],
	}
}
