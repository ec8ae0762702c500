package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aitutor/academy/internal/apperror"
	"github.com/aitutor/academy/internal/sanitize"
)

// LoginRecorder writes login history. The audit plugin implements it; auth
// only depends on this interface so the two plugins do not import each other.
type LoginRecorder interface {
	// RecordLogin stores one login attempt. userID is nil when the attempt
	// cannot be linked to a user.
	RecordLogin(ctx context.Context, userID *string, client ClientInfo, success bool) error
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	// Register creates a user with a default profile and subscription and
	// records a successful login for it. The returned user still carries
	// its password hash; it is excluded from JSON responses.
	Register(ctx context.Context, input RegisterInput) (*User, error)

	// Login checks the email and password. Unknown email and wrong
	// password both fail with InvalidCredentials.
	Login(ctx context.Context, input LoginInput) (*User, error)
}

// authService implements AuthService with bcrypt hashing.
type authService struct {
	repo       UserRepository
	recorder   LoginRecorder
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, recorder LoginRecorder, bcryptCost int) AuthService {
	return &authService{
		repo:       repo,
		recorder:   recorder,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates a new user account. The email is stored exactly as given
// (trimmed), so lookups are case-sensitive. The account is committed before
// the registration history row is written; if that write fails the caller
// gets an internal error but the account exists and can log in.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.TrimSpace(input.Email)

	// Check if email is already taken before doing expensive hashing. The
	// unique index still decides races between concurrent registrations.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewDuplicateAccount()
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    s.now().UTC(),
	}
	if name := sanitize.Text(input.Name); name != "" {
		user.DisplayName = &name
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if apperror.Is(err, apperror.TypeDuplicateAccount) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	if err := s.recorder.RecordLogin(ctx, &user.ID, input.Client, true); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("recording registration login: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates a user by email and password and writes a login
// history row for every attempt against a known account.
func (s *authService) Login(ctx context.Context, input LoginInput) (*User, error) {
	email := strings.TrimSpace(input.Email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			// No user id to link, so this attempt only reaches the log.
			slog.Warn("login attempt for unknown email",
				slog.String("email", email),
				slog.String("ip", input.Client.IPAddress),
			)
			return nil, apperror.NewInvalidCredentials()
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		if err := s.recorder.RecordLogin(ctx, &user.ID, input.Client, false); err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("recording failed login: %w", err))
		}
		slog.Warn("login attempt with wrong password",
			slog.String("user_id", user.ID),
			slog.String("ip", input.Client.IPAddress),
		)
		return nil, apperror.NewInvalidCredentials()
	}

	if err := s.recorder.RecordLogin(ctx, &user.ID, input.Client, true); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("recording login: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// --- Password Hashing (bcrypt) ---

// hashPassword returns the bcrypt hash of password at the service's cost.
func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.NewValidation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}
	return string(hash), nil
}

// verifyPassword reports whether password matches the stored bcrypt hash.
// bcrypt compares in constant time.
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
