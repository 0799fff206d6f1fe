package models

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when a blank password is hashed
var ErrEmptyPassword = errors.New("password must not be empty")

// User represents a registered reporter
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"` // write-only, see SetPassword

	Reports []Report `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"reports,omitempty"`
}

// SetPassword replaces the stored hash with a salted bcrypt hash of password
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// Authenticate reports whether password matches the stored hash
func (u *User) Authenticate(password string) bool {
	return checkPassword(password, u.PasswordHash)
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func checkPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
