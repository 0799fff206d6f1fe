package services

import (
	"context"
	"testing"
	"time"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewUserService(testdb.NewDB(t), nil)

	user, err := svc.Signup("amina", "amina@example.com", "pw123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = svc.Signup("amina", "other@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	_, err = svc.Signup("other", "amina@example.com", "pw")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	_, err = svc.Signup("", "x@example.com", "pw")
	assert.ErrorIs(t, err, ErrFieldsRequired)

	logged, err := svc.Login("amina@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = svc.Login("amina@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("ghost@example.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPassword(t *testing.T) {
	svc := NewUserService(testdb.NewDB(t), nil)
	_, err := svc.Signup("kip", "kip@example.com", "old")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("kip@example.com", "new"))
	_, err = svc.Login("kip@example.com", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("kip@example.com", "new")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword("ghost@example.com", "x"), ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := testdb.NewDB(t)
	svc := NewUserService(db, nil)

	owner, err := svc.Signup("otieno", "otieno@example.com", "pw")
	require.NoError(t, err)
	other, err := svc.Signup("njeri", "njeri@example.com", "pw")
	require.NoError(t, err)

	owned := &models.Report{Type: "Flood", Location: "Kisumu", Description: "lake rising", UserID: &owner.ID, ImageKey: "a.png", ImageBackend: "local"}
	kept := &models.Report{Type: "Fire", Location: "Nairobi", Description: "market fire", UserID: &other.ID}
	require.NoError(t, db.Create(owned).Error)
	require.NoError(t, db.Create(kept).Error)
	require.NoError(t, db.Create(&models.Donation{ReportID: owned.ID, FullName: "A", Email: "a@x", Phone: "1", Type: "Food", Amount: "5 bags"}).Error)
	require.NoError(t, db.Create(&models.Donation{ReportID: kept.ID, FullName: "B", Email: "b@x", Phone: "2", Type: "Money", Amount: "KES 100"}).Error)

	removed, err := svc.DeleteUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "a.png", removed[0].ImageKey)

	var reports, donations, users int64
	db.Model(&models.Report{}).Count(&reports)
	db.Model(&models.Donation{}).Count(&donations)
	db.Model(&models.User{}).Count(&users)
	assert.Equal(t, int64(1), reports)
	assert.Equal(t, int64(1), donations)
	assert.Equal(t, int64(1), users)

	_, err = svc.DeleteUser(context.Background(), owner.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllUsersEmpty(t *testing.T) {
	users, err := NewUserService(testdb.NewDB(t), nil).GetAllUsers()
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSignupLosingUniqueIndexRace(t *testing.T) {
	db := testdb.NewDB(t)
	svc := NewUserService(db, nil)

	// another signup for the same name lands between the count and the insert
	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:begin_transaction").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		rival := &models.User{Username: "wanjiru", Email: "rival@example.com"}
		require.NoError(t, rival.SetPassword("pw"))
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (username, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			rival.Username, rival.Email, rival.PasswordHash, time.Now(), time.Now()).Error)
	}))

	_, err := svc.Signup("wanjiru", "wanjiru@example.com", "pw")
	assert.True(t, raced)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
