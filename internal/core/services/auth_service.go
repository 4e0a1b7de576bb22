package services

import (
	"context"
	"errors"
	"log"
	"time"

	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/config"
	"tunehub/internal/pkg/password"
	"tunehub/internal/pkg/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserConflict       = errors.New("username, email or phone already registered")
	ErrContactRequired    = errors.New("email or phone is required")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidResetTicket = errors.New("reset ticket is invalid or expired")
)

// ResetTicketLifetime is how long a password reset ticket stays live
const ResetTicketLifetime = time.Hour

// AuthService owns password secrecy and session identity assertions.
// It keeps no state between calls; identities live in the user store.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,min=5,max=20"`
}

// Register creates a new account with the user role. Registration does
// not log the user in; the client logs in separately.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if input.Email == "" && input.Phone == "" {
		return nil, ErrContactRequired
	}
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	var email, phone *string
	if input.Email != "" {
		email = &input.Email
	}
	if input.Phone != "" {
		phone = &input.Phone
	}

	exists, err := s.userRepo.ExistsConflict(ctx, input.Username, email, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserConflict
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: input.Username,
		Email:    email,
		Phone:    phone,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Username)
	return user.ToResponse(), nil
}

// Login authenticates by username, email or phone and issues a session
// token asserting {id, username, role} for seven days.
func (s *AuthService) Login(ctx context.Context, identifier, plaintext string) (string, *models.UserResponse, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !password.Verify(plaintext, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	sessionToken, err := token.Generate(user.ID, user.Username, user.Role, s.cfg.JWT.Secret)
	if err != nil {
		return "", nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)
	return sessionToken, user.ToResponse(), nil
}

// ValidateToken verifies a session token against the service secret
func (s *AuthService) ValidateToken(sessionToken string) (*token.Claims, error) {
	return token.Validate(sessionToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues a fresh reset ticket with a one hour expiry,
// overwriting any prior live ticket for the identity. An unknown
// identifier returns an empty ticket and no error so callers can keep
// their response neutral about account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, identifier string) (string, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	ticket := uuid.New().String()
	expiry := time.Now().Add(ResetTicketLifetime)

	if err := s.userRepo.SetResetTicket(ctx, user.ID, &ticket, &expiry); err != nil {
		return "", err
	}

	// A mailer would deliver the ticket here; this deployment surfaces
	// it through the dev response instead.
	log.Printf("🔑 Reset ticket issued for %s", user.Username)
	return ticket, nil
}

// ResetPassword consumes a live reset ticket and writes the new
// password hash. Consume-and-invalidate happens in one store update, so
// a ticket can never be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, ticket, newPassword string) error {
	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	hashedPassword, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user, err := s.userRepo.ConsumeResetTicket(ctx, ticket, hashedPassword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetTicket
		}
		return err
	}

	log.Printf("✅ Password reset for %s", user.Username)
	return nil
}
