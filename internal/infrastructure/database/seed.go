package database

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"disasterconnect-http-service/internal/domain/models"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"gorm.io/gorm"
)

// SeedSummary counts the rows created by Seed
type SeedSummary struct {
	Users     int
	Reports   int
	Donations int
}

type seedUser struct {
	username, email, password string
}

type seedReport struct {
	kind, location, description, severity, image string
	daysAgo                                      int
}

var seedUsers = []seedUser{
	{"admin", "admin@disasterconnect.ke", "admin123"},
	{"john_doe", "john@example.com", "password123"},
	{"jane_smith", "jane@example.com", "password123"},
	{"peter_kamau", "peter@example.com", "password123"},
	{"mary_wanjiru", "mary@example.com", "password123"},
}

var seedReports = []seedReport{
	{"Flood", "Nairobi, Mathare", "Severe flooding has hit Mathare following heavy rains. Over 500 families have been displaced and need shelter, food and clean water.", models.SeveritySevere, "/uploads/flood_mathare.jpg", 2},
	{"Drought", "Turkana County", "A severe drought has led to widespread crop failure, livestock deaths and food shortages. Communities have limited access to water.", models.SeveritySevere, "/uploads/drought_turkana.jpg", 5},
	{"Fire", "Kakamega, Market Area", "A fire outbreak destroyed several shops in Kakamega market. Families lost their livelihoods and need support for rebuilding.", models.SeverityModerate, "/uploads/fire_kakamega.jpg", 1},
	{"Landslide", "West Pokot", "Heavy rains triggered a landslide burying homes and displacing hundreds of residents. Survivors need emergency shelter and medical care.", models.SeveritySevere, "/uploads/landslide_pokot.jpg", 3},
	{"Earthquake", "Baringo County", "A minor earthquake measuring 4.2 struck Baringo County. There were no casualties but several buildings sustained structural damage.", models.SeverityMinor, "/uploads/earthquake_baringo.jpg", 7},
	{"Locust", "Isiolo County", "A locust invasion has destroyed farmland in Isiolo, threatening food security. Farmers need support for pest control and replanting.", models.SeverityModerate, "/uploads/locust_isiolo.jpg", 10},
	{"Flood", "Kisumu, Nyalenda", "Flash floods in Nyalenda have submerged homes and contaminated water sources. Residents need medical supplies and clean water.", models.SeverityModerate, "/uploads/flood_kisumu.jpg", 4},
	{"Fire", "Mombasa, Likoni", "A small fire broke out in a residential area in Likoni. It was contained quickly but three families lost their homes.", models.SeverityMinor, "/uploads/fire_mombasa.jpg", 6},
}

var (
	seedDonationTypes = []string{"Money", "Food", "Clothes", "Medical", "Water", "Shelter"}
	seedDonors        = []string{
		"Fatima Ali", "Nairobi Relief Group", "Kenya Red Cross", "World Vision",
		"Sarah Mwangi", "David Ochieng", "Mercy Corps", "James Kariuki",
		"Grace Njeri", "Anonymous Donor",
	}
	seedMoney = []float64{500, 1000, 2000, 5000, 10000, 20000, 50000}
	seedGoods = map[string][]string{
		"Food":  {"50 bags of rice", "100 kg of maize flour", "200 food packages"},
		"Water": {"500 liters", "1000 water bottles", "10 water tanks"},
	}
	seedItems = []string{"100 pieces", "50 packages", "200 items", "Multiple boxes"}
)

// ClearData removes every donation, report and user. Admins are kept.
func ClearData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Donation{}, &models.Report{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Seed fills the database with sample users, reports and donations. When
// clear is set existing data is removed first.
func Seed(db *gorm.DB, clear bool, rnd *rand.Rand) (*SeedSummary, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	summary := &SeedSummary{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if clear {
			if err := ClearData(tx); err != nil {
				return fmt.Errorf("clear data: %w", err)
			}
		}

		users := make([]models.User, 0, len(seedUsers))
		for _, su := range seedUsers {
			user := models.User{Username: su.username, Email: su.email}
			if err := user.SetPassword(su.password); err != nil {
				return err
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", su.username, err)
			}
			users = append(users, user)
		}
		summary.Users = len(users)

		now := time.Now().UTC()
		for i, sr := range seedReports {
			owner := users[i%len(users)]
			image := sr.image
			report := models.Report{
				Type:         sr.kind,
				Location:     sr.location,
				Description:  sr.description,
				Severity:     sr.severity,
				Image:        &image,
				ReporterName: owner.Username,
				UserID:       &owner.ID,
				Date:         now.AddDate(0, 0, -sr.daysAgo),
			}
			if err := tx.Create(&report).Error; err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			summary.Reports++

			for n := 2 + rnd.Intn(4); n > 0; n-- {
				donation := randomDonation(rnd, report.ID, now)
				if err := tx.Create(&donation).Error; err != nil {
					return fmt.Errorf("create donation: %w", err)
				}
				summary.Donations++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	Logger.Info("seeded %d users, %d reports, %d donations", summary.Users, summary.Reports, summary.Donations)
	return summary, nil
}

func randomDonation(rnd *rand.Rand, reportID uint, now time.Time) models.Donation {
	donor := seedDonors[rnd.Intn(len(seedDonors))]
	kind := seedDonationTypes[rnd.Intn(len(seedDonationTypes))]

	donation := models.Donation{
		ReportID:  reportID,
		FullName:  donor,
		Email:     strings.ToLower(strings.ReplaceAll(donor, " ", ".")) + "@example.com",
		Phone:     fmt.Sprintf("07%08d", 10000000+rnd.Intn(90000000)),
		Type:      kind,
		CreatedAt: now.Add(-time.Duration(rnd.Intn(96)) * time.Hour),
	}

	switch kind {
	case "Money":
		amount := seedMoney[rnd.Intn(len(seedMoney))]
		donation.Amount = "KES " + formatThousands(int(amount))
		donation.AmountNumber = &amount
	case "Food", "Water":
		goods := seedGoods[kind]
		donation.Amount = goods[rnd.Intn(len(goods))]
	default:
		donation.Amount = seedItems[rnd.Intn(len(seedItems))]
	}
	return donation
}

// formatThousands renders 50000 as "50,000"
func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
