package services

import (
	"context"
	"testing"
	"time"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/config"
	"tunehub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubUserRepo is an in-memory UserRepository for service tests
type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == identifier ||
			(user.Email != nil && *user.Email == identifier) ||
			(user.Phone != nil && *user.Phone == identifier) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}
	total := int64(len(users))
	if offset > len(users) {
		offset = len(users)
	}
	users = users[offset:]
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, total, nil
}

func (r *stubUserRepo) ExistsConflict(_ context.Context, username string, email, phone *string) (bool, error) {
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
		if email != nil && user.Email != nil && *user.Email == *email {
			return true, nil
		}
		if phone != nil && user.Phone != nil && *user.Phone == *phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UpdateRolePermissions(_ context.Context, id string, role, permissions *string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if role != nil {
		user.Role = *role
	}
	if permissions != nil {
		user.Permissions = *permissions
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepo) SetResetTicket(_ context.Context, id string, ticket *string, expiry *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.ResetToken = ticket
	user.ResetTokenExpiry = expiry
	return nil
}

func (r *stubUserRepo) ConsumeResetTicket(_ context.Context, ticket, hashedPassword string) (*models.User, error) {
	for _, user := range r.users {
		if user.ResetToken != nil && *user.ResetToken == ticket {
			if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
				return nil, gorm.ErrRecordNotFound
			}
			user.Password = hashedPassword
			user.ResetToken = nil
			user.ResetTokenExpiry = nil
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) ClearExpiredResetTickets(_ context.Context) (int64, error) {
	var cleared int64
	for _, user := range r.users {
		if user.ResetToken != nil && user.ResetTokenExpiry != nil && time.Now().After(*user.ResetTokenExpiry) {
			user.ResetToken = nil
			user.ResetTokenExpiry = nil
			cleared++
		}
	}
	return cleared, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret"},
	}
}

func registerTestUser(t *testing.T, svc *AuthService) *models.UserResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), &RegisterInput{
		Username: "alice",
		Password: "secret123",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())

	user := registerTestUser(t, svc)
	assert.Equal(t, models.RoleUser, user.Role)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, password.Verify("secret123", stored.Password))
}

func TestRegisterRequiresContact(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "alice",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrContactRequired)
}

func TestRegisterConflict(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Username: "alice",
		Password: "other-password",
		Phone:    "0123456789",
	})
	assert.ErrorIs(t, err, ErrUserConflict)
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())
	registerTestUser(t, svc)

	sessionToken, user, err := svc.Login(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, sessionToken)
	assert.Equal(t, "alice", user.Username)

	claims, err := svc.ValidateToken(sessionToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	// Email works as identifier too
	_, _, err = svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())
	registerTestUser(t, svc)

	_, _, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestForgotPasswordUnknownIdentifier(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	// Unknown identities are not an error, just no ticket
	ticket, err := svc.ForgotPassword(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ticket)
}

func TestResetTicketLifecycle(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	user := registerTestUser(t, svc)

	ticket, err := svc.ForgotPassword(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	// A second request overwrites the first ticket
	second, err := svc.ForgotPassword(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, ticket, second)

	err = svc.ResetPassword(context.Background(), ticket, "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetTicket)

	require.NoError(t, svc.ResetPassword(context.Background(), second, "newpassword"))

	// The ticket is consumed, a replay fails
	err = svc.ResetPassword(context.Background(), second, "another-one")
	assert.ErrorIs(t, err, ErrInvalidResetTicket)

	// Old password is gone, new one works
	_, _, err = svc.Login(context.Background(), "alice", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "alice", "newpassword")
	assert.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasLiveResetTicket())
}

func TestResetTicketExpiry(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testConfig())
	user := registerTestUser(t, svc)

	ticket, err := svc.ForgotPassword(context.Background(), "alice")
	require.NoError(t, err)

	// Backdate the expiry past the one hour window
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, repo.SetResetTicket(context.Background(), user.ID, &ticket, &expired))

	err = svc.ResetPassword(context.Background(), ticket, "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetTicket)
}

func TestResetPasswordWeak(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	err := svc.ResetPassword(context.Background(), "any-ticket", "123")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
