package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/courtfile/pkg/flatfile"
)

// Service owns the user and session stores.
type Service struct {
	users    *flatfile.Store
	sessions *flatfile.Store
	nowFn    func() time.Time
	tokenFn  func() (string, error)
	logger   OperationLogger
}

// NewService wires a Service.
func NewService(users *flatfile.Store, sessions *flatfile.Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if users == nil || sessions == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{
		users:    users,
		sessions: sessions,
		nowFn:    now,
		tokenFn:  randomToken,
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Register validates the input, checks email uniqueness case-insensitively,
// and appends the new user. The check and the append run under one store
// lock so two concurrent registrations cannot both pass the uniqueness check.
func (service *Service) Register(ctx context.Context, name string, email string, password string) (User, error) {
	user, operationError := service.register(name, email, password)
	service.logOperation(ctx, OperationLog{
		Operation: operationRegister,
		Email:     email,
		UserID:    user.ID,
		Error:     operationError,
	})
	return user, operationError
}

func (service *Service) register(name string, email string, password string) (User, error) {
	if len(strings.TrimSpace(name)) < minNameLength {
		return User{}, fmt.Errorf("%w: need at least %d characters", ErrShortName, minNameLength)
	}
	if len(password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, minPasswordLength)
	}
	normalizedEmail, err := NormalizeEmail(email)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		Email:          normalizedEmail,
		PasswordDigest: HashPassword(password),
		CreatedAt:      service.nowFn().Format(time.RFC3339),
	}
	err = service.users.WithLock(func(tx *flatfile.Tx) error {
		_, exists, findErr := tx.FindOne(func(row flatfile.Row) bool {
			return strings.EqualFold(row["email"], normalizedEmail)
		})
		if findErr != nil {
			return findErr
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, normalizedEmail)
		}
		return tx.Append(userToRow(user))
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Login looks the account up by email and compares credential digests.
// Unknown email and wrong password are indistinguishable to the caller.
func (service *Service) Login(ctx context.Context, email string, password string) (User, error) {
	user, operationError := service.login(email, password)
	service.logOperation(ctx, OperationLog{
		Operation: operationLogin,
		Email:     email,
		UserID:    user.ID,
		Error:     operationError,
	})
	return user, operationError
}

func (service *Service) login(email string, password string) (User, error) {
	row, found, err := service.users.FindOne(func(row flatfile.Row) bool {
		return strings.EqualFold(row["email"], strings.TrimSpace(email))
	})
	if err != nil {
		return User{}, err
	}
	if !found {
		return User{}, ErrBadCredentials
	}
	user := userFromRow(row)
	if !DigestsMatch(user.PasswordDigest, HashPassword(password)) {
		return User{}, ErrBadCredentials
	}
	return user, nil
}

// IssueSession generates an opaque URL-safe token and records the
// token-to-user association. Tokens carry no expiry; every issued token stays
// valid until the sessions file is edited by hand.
func (service *Service) IssueSession(ctx context.Context, userID string) (Session, error) {
	session, operationError := service.issueSession(userID)
	service.logOperation(ctx, OperationLog{
		Operation: operationIssue,
		UserID:    userID,
		Error:     operationError,
	})
	return session, operationError
}

func (service *Service) issueSession(userID string) (Session, error) {
	token, err := service.tokenFn()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrTokenSource, err)
	}
	session := Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: service.nowFn().Format(time.RFC3339),
	}
	if err := service.sessions.Append(sessionToRow(session)); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Verify resolves a token to the owning user's public identity by joining the
// session store against the user store.
func (service *Service) Verify(ctx context.Context, token string) (PublicUser, error) {
	user, operationError := service.verify(token)
	service.logOperation(ctx, OperationLog{
		Operation: operationVerify,
		UserID:    user.ID,
		Error:     operationError,
	})
	return user, operationError
}

func (service *Service) verify(token string) (PublicUser, error) {
	if strings.TrimSpace(token) == "" {
		return PublicUser{}, ErrInvalidToken
	}
	sessionRow, found, err := service.sessions.FindOne(func(row flatfile.Row) bool {
		return row["token"] == token
	})
	if err != nil {
		return PublicUser{}, err
	}
	if !found {
		return PublicUser{}, ErrInvalidToken
	}
	session := sessionFromRow(sessionRow)
	userRow, found, err := service.users.FindOne(func(row flatfile.Row) bool {
		return row["id"] == session.UserID
	})
	if err != nil {
		return PublicUser{}, err
	}
	if !found {
		return PublicUser{}, ErrInvalidToken
	}
	return userFromRow(userRow).Public(), nil
}

// ListUsers returns every registered account without credential digests.
func (service *Service) ListUsers(ctx context.Context) ([]PublicUser, error) {
	rows, err := service.users.Scan(nil)
	if err != nil {
		return nil, err
	}
	users := make([]PublicUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row).Public())
	}
	return users, nil
}

// Stats reports how many accounts exist and when the newest one was created.
// Rows are in insertion order, so the last row is the latest registration.
func (service *Service) Stats(ctx context.Context) (Stats, error) {
	rows, err := service.users.Scan(nil)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{TotalUsers: len(rows)}
	if len(rows) > 0 {
		latest := rows[len(rows)-1]["created_at"]
		stats.LastRegistration = &latest
	}
	return stats, nil
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

func randomToken() (string, error) {
	buffer := make([]byte, tokenByteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
