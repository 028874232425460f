package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenloop/greenloop/internal/database/users"
	"github.com/greenloop/greenloop/internal/entities"
)

// recordingAudit captures audit events in memory for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []entities.AuthEvent
}

func (r *recordingAudit) RecordAuthEvent(event entities.AuthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) last() (entities.AuthEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return entities.AuthEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

func setupTestService(t *testing.T) (*Service, *recordingAudit, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	issuer, err := NewIssuer("service-test-secret", TokenTTL)
	require.NoError(t, err)

	audit := &recordingAudit{}
	// cost 4 keeps bcrypt fast in tests
	svc := NewService(users.NewRepository(db), issuer, 4, audit)
	return svc, audit, db
}

func TestService_Register(t *testing.T) {
	svc, audit, _ := setupTestService(t)

	session, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{IPAddress: "10.0.0.1"})

	require.NoError(t, err)
	assert.NotZero(t, session.User.ID)
	assert.Equal(t, "Ann", session.User.Name)
	assert.Equal(t, "ann@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)

	event, ok := audit.last()
	require.True(t, ok)
	assert.Equal(t, entities.AuthActionRegister, event.Action)
	assert.True(t, event.Success)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _, _ := setupTestService(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"missing name", "", "a@example.com", "pass", ErrMissingFields},
		{"missing email", "Ann", "", "pass", ErrMissingFields},
		{"missing password", "Ann", "a@example.com", "", ErrMissingFields},
		{"malformed email", "Ann", "not-an-email", "pass", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.userName, tt.email, tt.password, RequestMeta{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	_, err = svc.Register("Other Ann", "ann@example.com", "otherpass", RequestMeta{})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Login(t *testing.T) {
	svc, audit, _ := setupTestService(t)

	_, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	session, err := svc.Login("ann@example.com", "secretpass", RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)

	event, ok := audit.last()
	require.True(t, ok)
	assert.Equal(t, entities.AuthActionLogin, event.Action)
	assert.True(t, event.Success)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestService_Login_UnifiedFailure(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	_, errUnknown := svc.Login("nobody@example.com", "secretpass", RequestMeta{})
	_, errWrongPass := svc.Login("ann@example.com", "wrongpass", RequestMeta{})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestService_Login_MissingFields(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Login("", "pass", RequestMeta{})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Login("a@example.com", "", RequestMeta{})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestService_Verify(t *testing.T) {
	svc, _, _ := setupTestService(t)

	session, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	user, err := svc.Verify(session.Token, RequestMeta{})

	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
}

func TestService_Verify_InvalidToken(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.Verify("garbage", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_UserGone(t *testing.T) {
	svc, _, db := setupTestService(t)

	session, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&entities.User{}, session.User.ID).Error)

	_, err = svc.Verify(session.Token, RequestMeta{})
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestService_PasswordHashNotExposed(t *testing.T) {
	svc, _, db := setupTestService(t)

	session, err := svc.Register("Ann", "ann@example.com", "secretpass", RequestMeta{})
	require.NoError(t, err)

	var stored entities.User
	require.NoError(t, db.First(&stored, session.User.ID).Error)

	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secretpass", stored.PasswordHash)
}
