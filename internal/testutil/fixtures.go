package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"finbook/internal/hash"
	"finbook/internal/models"

	"gorm.io/gorm"
)

// TestPassword is the plaintext password for all fixture users.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The password
// is TestPassword hashed with the default SHA-256 scheme.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hashed, err := hash.SHA256Hasher{}.Hash(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		Password:    hashed,
		DateOfBirth: "1990-01-01",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
