package models

// Admin represents a moderator. Admins live in their own table and never share
// a session identity with users.
type Admin struct {
	BaseModel
	Username     string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"` // Password not exposed in JSON
}

// SetPassword replaces the stored hash with a salted bcrypt hash of password
func (a *Admin) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// Authenticate reports whether password matches the stored hash
func (a *Admin) Authenticate(password string) bool {
	return checkPassword(password, a.PasswordHash)
}
