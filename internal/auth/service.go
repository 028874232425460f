package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/greenloop/greenloop/internal/database/users"
	"github.com/greenloop/greenloop/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrMissingFields = errors.New("name, email and password are required")
	ErrEmailInvalid  = errors.New("invalid email format")
	ErrUserExists    = errors.New("user already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Login reports the same failure for either so responses do
	// not reveal which emails have accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserGone means a structurally valid session token references a
	// user that no longer exists.
	ErrUserGone = errors.New("user no longer exists")
)

// UserRepository defines the user data access the service needs.
type UserRepository interface {
	CreateUser(name, email, passwordHash string) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
}

// AuditRecorder receives authentication events. Recording is best-effort:
// the service never fails an auth operation because an event could not be
// queued.
type AuditRecorder interface {
	RecordAuthEvent(event entities.AuthEvent)
}

// Session is the result of a successful register or login: the account's
// public projection plus a signed token the transport layer delivers.
type Session struct {
	User  entities.PublicUser
	Token string
}

// Service orchestrates registration, login and session verification over
// the user repository, password hasher and token issuer.
type Service struct {
	users      UserRepository
	issuer     *Issuer
	bcryptCost int
	audit      AuditRecorder
}

// NewService creates an authentication service. The audit recorder may be
// nil, in which case no events are recorded.
func NewService(repo UserRepository, issuer *Issuer, bcryptCost int, audit AuditRecorder) *Service {
	return &Service{
		users:      repo,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		audit:      audit,
	}
}

// Register creates a new account and starts a session for it.
func (s *Service) Register(name, email, password string, meta RequestMeta) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		s.record(entities.AuthActionRegister, 0, email, meta, ErrEmailInvalid)
		return nil, ErrEmailInvalid
	}

	passwordHash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique email index resolves registration races: no pre-check,
	// the insert either wins or reports the duplicate.
	user, err := s.users.CreateUser(name, email, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			s.record(entities.AuthActionRegister, 0, email, meta, ErrUserExists)
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.record(entities.AuthActionRegister, user.ID, email, meta, nil)
	return &Session{User: user.Public(), Token: token}, nil
}

// Login authenticates the credentials and starts a session. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *Service) Login(email, password string, meta RequestMeta) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(entities.AuthActionLogin, 0, email, meta, ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			s.record(entities.AuthActionLogin, user.ID, email, meta, ErrInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to check password: %w", err)
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.record(entities.AuthActionLogin, user.ID, email, meta, nil)
	return &Session{User: user.Public(), Token: token}, nil
}

// Verify validates a session token and resolves it to the current account
// state. A valid token whose user has since been removed fails with
// ErrUserGone.
func (s *Service) Verify(tokenString string, meta RequestMeta) (*entities.User, error) {
	userID, err := s.issuer.Validate(tokenString)
	if err != nil {
		s.record(entities.AuthActionVerify, 0, "", meta, err)
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record(entities.AuthActionVerify, userID, "", meta, ErrUserGone)
			return nil, ErrUserGone
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// Logout records the logout event. Session state lives in the signed
// token, so there is nothing server-side to tear down beyond the cookie
// the transport clears.
func (s *Service) Logout(userID uint, meta RequestMeta) {
	s.record(entities.AuthActionLogout, userID, "", meta, nil)
}

// RequestMeta carries per-request context into the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func (s *Service) record(action entities.AuthAction, userID uint, email string, meta RequestMeta, opErr error) {
	if s.audit == nil {
		return
	}
	event := entities.AuthEvent{
		UserID:    userID,
		Action:    action,
		Email:     email,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.ErrorMsg = opErr.Error()
	}
	s.audit.RecordAuthEvent(event)
}
