package models

// DailyStat aggregates one calendar day of activity per user.
// Upserted on (external_user_id, date). HealthStart is fixed by the first
// write of the day and never overwritten; HealthEnd tracks the latest value.
type DailyStat struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_daily_user_date;not null" json:"external_user_id"`
	Date           string `gorm:"uniqueIndex:idx_daily_user_date;type:varchar(10);not null" json:"date"` // YYYY-MM-DD
	GoodCount      int    `json:"good_count" gorm:"default:0"`
	BadCount       int    `json:"bad_count" gorm:"default:0"`
	XPEarned       int64  `json:"xp_earned" gorm:"default:0"`
	HealthStart    int    `json:"health_start"`
	HealthEnd      int    `json:"health_end"`

	Timestamps
}

// CategoryStat keeps one running total per choice category, one row per user.
// Exactly one counter moves per choice.
type CategoryStat struct {
	ID                  string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID      string `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Recycling           int64  `json:"recycling" gorm:"default:0"`
	PublicTransport     int64  `json:"public_transport" gorm:"default:0"`
	EnergySaving        int64  `json:"energy_saving" gorm:"default:0"`
	WaterConservation   int64  `json:"water_conservation" gorm:"default:0"`
	SustainableShopping int64  `json:"sustainable_shopping" gorm:"default:0"`

	Timestamps
}

// CategoryTotal returns the running total for a category tag.
func (c *CategoryStat) CategoryTotal(category string) int64 {
	switch category {
	case CategoryRecycling:
		return c.Recycling
	case CategoryPublicTransport:
		return c.PublicTransport
	case CategoryEnergySaving:
		return c.EnergySaving
	case CategoryWaterConservation:
		return c.WaterConservation
	case CategorySustainableShopping:
		return c.SustainableShopping
	}
	return 0
}

// Bump increments the counter for a category tag. Unknown tags are ignored
// so a stale catalog entry cannot corrupt another counter.
func (c *CategoryStat) Bump(category string) {
	switch category {
	case CategoryRecycling:
		c.Recycling++
	case CategoryPublicTransport:
		c.PublicTransport++
	case CategoryEnergySaving:
		c.EnergySaving++
	case CategoryWaterConservation:
		c.WaterConservation++
	case CategorySustainableShopping:
		c.SustainableShopping++
	}
}
