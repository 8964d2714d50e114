package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finbook/internal/errors"
	"finbook/internal/hash"
	"finbook/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	hasher hash.PasswordHasher
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, hasher hash.PasswordHasher) UserServicer {
	return &userService{db: db, hasher: hasher}
}

// CreateUser registers a new user. The email must be unique; a violation
// fails with ErrDuplicateEmail and leaves existing rows untouched.
func (s *userService) CreateUser(firstName, lastName, email, phone, password, dateOfBirth string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		Password:    hashedPassword,
		DateOfBirth: dateOfBirth,
	}

	if err := s.db.Create(user).Error; err != nil {
		// Concurrent signups race on the count check above; the unique
		// index is the authoritative arbiter.
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// VerifyCredentials returns the user matching both email and password, or
// ErrInvalidCredentials. Lookup failures and hash mismatches are
// indistinguishable to the caller.
func (s *userService) VerifyCredentials(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !s.hasher.Verify(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// isUniqueViolation reports whether the error is a SQLite unique constraint
// failure. Matched on message text to avoid binding to a specific driver
// error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
