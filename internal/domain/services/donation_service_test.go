package services

import (
	"testing"

	"disasterconnect-http-service/internal/domain/models"
	"disasterconnect-http-service/internal/test/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountNumber(t *testing.T) {
	cases := map[string]float64{
		"KES 5,000":       5000,
		"1500":            1500,
		"USD 12.50":       12.5,
		"20 bags of rice": 20,
	}
	for in, want := range cases {
		got := ParseAmountNumber(in)
		require.NotNil(t, got, in)
		assert.Equal(t, want, *got, in)
	}
	assert.Nil(t, ParseAmountNumber("blankets"))
}

func TestCreateDonation(t *testing.T) {
	db := testdb.NewDB(t)
	svc := NewDonationService(db, nil)
	report := &models.Report{Type: "Flood", Location: "Budalangi", Description: "river Nzoia burst"}
	require.NoError(t, db.Create(report).Error)

	_, err := svc.CreateDonation(report.ID, DonationInput{FullName: "Achieng", Email: "a@example.com", Type: "Money", Amount: "KES 5,000"})
	assert.ErrorIs(t, err, models.ErrDonationFieldsRequired)

	_, err = svc.CreateDonation(report.ID+100, DonationInput{FullName: "Achieng", Email: "a@example.com", Phone: "0712", Type: "Money", Amount: "KES 5,000"})
	assert.ErrorIs(t, err, ErrReportNotFound)

	donation, err := svc.CreateDonation(report.ID, DonationInput{FullName: "Achieng", Email: "a@example.com", Phone: "0712", Type: "Money", Amount: "KES 5,000"})
	require.NoError(t, err)
	require.NotNil(t, donation.AmountNumber)
	assert.Equal(t, 5000.0, *donation.AmountNumber)

	explicit := 42.0
	donation, err = svc.CreateDonation(report.ID, DonationInput{FullName: "B", Email: "b@example.com", Phone: "0713", Type: "Food", Amount: "bags", AmountNumber: &explicit})
	require.NoError(t, err)
	assert.Equal(t, 42.0, *donation.AmountNumber)

	list, err := svc.ListForReport(report.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].FullName)

	_, err = svc.ListForReport(report.ID + 100)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListAllAndDeleteDonations(t *testing.T) {
	db := testdb.NewDB(t)
	svc := NewDonationService(db, nil)
	report := &models.Report{Type: "Drought", Location: "Marsabit", Description: "no rain"}
	require.NoError(t, db.Create(report).Error)

	donation, err := svc.CreateDonation(report.ID, DonationInput{FullName: "C", Email: "c@example.com", Phone: "1", Type: "Water", Amount: "100 litres"})
	require.NoError(t, err)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, donation.ID, all[0].ID)
	assert.Equal(t, "C", all[0].FullName)
	assert.Equal(t, "Drought", all[0].ReportType)
	assert.Equal(t, "Marsabit", all[0].ReportLocation)
	assert.Equal(t, "no rain", all[0].ReportDescription)

	require.NoError(t, svc.DeleteDonation(donation.ID))
	assert.ErrorIs(t, svc.DeleteDonation(donation.ID), ErrDonationNotFound)
}
