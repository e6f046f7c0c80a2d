package models

import "time"

// ActionRecord is the append-only audit log: one row per logged choice.
// Never updated or deleted; feeds the action feed and the daily/category
// aggregation.
type ActionRecord struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	ChoiceID       string    `gorm:"not null" json:"choice_id"`
	Text           string    `json:"text"`
	Icon           string    `json:"icon"`
	IsGood         bool      `json:"is_good"`
	Impact         int       `json:"impact"`    // health delta applied
	XPEarned       int64     `json:"xp_earned"` // 10 for good, 0 for bad
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
