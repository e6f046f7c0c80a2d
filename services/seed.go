package services

import (
	"log"
	"time"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCatalogs inserts the static achievement/badge/challenge catalogs,
// keyed on code so redeploys are no-ops. Challenge codes are derived from
// their titles; end dates are computed from the seed durations at first
// insert only.
func SeedCatalogs(db *gorm.DB) error {
	for _, a := range models.AchievementSeed {
		a.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&a).Error; err != nil {
			return err
		}
	}

	for _, b := range models.BadgeSeed {
		b.ID = uuid.NewString()
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&b).Error; err != nil {
			return err
		}
	}

	for _, entry := range models.ChallengeSeed {
		ch := models.Challenge{
			ID:          uuid.NewString(),
			Code:        slug.Make(entry.Title),
			Title:       entry.Title,
			Description: entry.Description,
			Goal:        entry.Goal,
			XPReward:    entry.XPReward,
			IsActive:    true,
			EndDate:     time.Now().AddDate(0, 0, entry.DurationDays),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&ch).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Catalogs seeded: %d achievements, %d badges, %d challenges",
		len(models.AchievementSeed), len(models.BadgeSeed), len(models.ChallengeSeed))
	return nil
}
