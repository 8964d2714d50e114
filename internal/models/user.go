package models

// User represents a row in the users table. The identifier is auto-assigned
// and monotonic; email uniqueness is enforced by the store. Password holds
// the one-way hash, never the plaintext. DateOfBirth is kept as the raw form
// string rather than a parsed date.
type User struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string `json:"phone,omitempty"`
	Password    string `gorm:"not null" json:"-"`
	DateOfBirth string `gorm:"not null" json:"date_of_birth"`
}

// TableName pins the table name to match the SQL migrations.
func (User) TableName() string { return "users" }
