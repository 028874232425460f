// Package users provides database operations for user records.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByEmail(email)
package users

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop/internal/entities"
)

// ErrDuplicateEmail is returned when an insert collides with the unique email
// index. The index is the race-safety backstop: two registrations racing past
// an application-level existence check still resolve to exactly one record.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser persists a new user record. The password must already be hashed.
func (r *Repository) CreateUser(name, email, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email, matched exactly as stored.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
