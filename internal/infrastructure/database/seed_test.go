package database

import (
	"math/rand"
	"testing"

	"disasterconnect-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCreatesSampleData(t *testing.T) {
	pool := newMemoryPool(t)
	db := pool.GetDB()
	require.NoError(t, AutoMigrate(db))

	summary, err := Seed(db, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, len(seedUsers), summary.Users)
	assert.Equal(t, len(seedReports), summary.Reports)
	assert.GreaterOrEqual(t, summary.Donations, 2*len(seedReports))

	var donations int64
	require.NoError(t, db.Model(&models.Donation{}).Count(&donations).Error)
	assert.EqualValues(t, summary.Donations, donations)

	var money []models.Donation
	require.NoError(t, db.Where("type = ?", "Money").Find(&money).Error)
	for _, d := range money {
		require.NotNil(t, d.AmountNumber)
		assert.Equal(t, "KES "+formatThousands(int(*d.AmountNumber)), d.Amount)
	}

	var user models.User
	require.NoError(t, db.Where("username = ?", "john_doe").First(&user).Error)
	assert.True(t, user.Authenticate("password123"))
}

func TestSeedTwiceNeedsClear(t *testing.T) {
	pool := newMemoryPool(t)
	db := pool.GetDB()
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, db.Create(&models.Admin{Username: "keep", Email: "keep@example.com", PasswordHash: "x"}).Error)

	_, err := Seed(db, false, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	_, err = Seed(db, false, rand.New(rand.NewSource(2)))
	assert.Error(t, err)

	summary, err := Seed(db, true, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	var users, reports, admins int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Report{}).Count(&reports)
	db.Model(&models.Admin{}).Count(&admins)
	assert.EqualValues(t, summary.Users, users)
	assert.EqualValues(t, summary.Reports, reports)
	assert.EqualValues(t, 1, admins)
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "500", formatThousands(500))
	assert.Equal(t, "5,000", formatThousands(5000))
	assert.Equal(t, "50,000", formatThousands(50000))
	assert.Equal(t, "1,000,000", formatThousands(1000000))
}
