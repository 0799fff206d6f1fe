package services

import (
	"testing"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	svc := NewAdminService(testdb.NewDB(t), nil)
	admin, err := svc.CreateAdmin("root", "root@example.com", "admin123")
	require.NoError(t, err)

	logged, err := svc.Login("root@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, logged.ID)

	_, err = svc.Login("root@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("", "")
	assert.ErrorIs(t, err, ErrFieldsRequired)

	_, err = svc.GetAdminByID(999)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestCreateFirstAdminOnlyOnce(t *testing.T) {
	svc := NewAdminService(testdb.NewDB(t), nil)

	_, err := svc.CreateFirstAdmin("first", "first@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.CreateFirstAdmin("second", "second@example.com", "pw")
	assert.ErrorIs(t, err, ErrAdminAlreadyExists)

	admins, err := svc.GetAllAdmins()
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestCreateAdminDuplicate(t *testing.T) {
	svc := NewAdminService(testdb.NewDB(t), nil)
	_, err := svc.CreateAdmin("root", "root@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.CreateAdmin("root", "new@example.com", "pw")
	assert.ErrorIs(t, err, ErrAdminAlreadyExists)
}

func TestGetStats(t *testing.T) {
	db := testdb.NewDB(t)
	svc := NewAdminService(db, nil)

	u := &models.User{Username: "a", Email: "a@example.com"}
	require.NoError(t, u.SetPassword("pw"))
	require.NoError(t, db.Create(u).Error)

	for _, sev := range []string{models.SeveritySevere, models.SeveritySevere, models.SeverityMinor, models.SeverityModerate} {
		r := &models.Report{Type: "Flood", Location: "x", Description: "y", Severity: sev}
		require.NoError(t, db.Create(r).Error)
		require.NoError(t, db.Create(&models.Donation{ReportID: r.ID, FullName: "d", Email: "e", Phone: "p", Type: "Food", Amount: "1"}).Error)
	}

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalUsers:      1,
		TotalReports:    4,
		TotalDonations:  4,
		SevereReports:   2,
		ModerateReports: 1,
		MinorReports:    1,
	}, stats)
}
