package models

import "time"

// Notification types. Only the progression pipeline creates notifications:
// level-up, stage change, achievement, badge, challenge completion.
const (
	NotificationLevel       = "level"
	NotificationAchievement = "achievement"
	NotificationBadge       = "badge"
	NotificationChallenge   = "challenge"
)

type Notification struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Type           string    `gorm:"type:varchar(16);not null" json:"type"`
	Title          string    `gorm:"not null" json:"title"`
	Message        string    `json:"message"`
	Read           bool      `json:"read" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}
