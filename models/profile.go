package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the per-user game state (denormalized for performance).
// Identity lives in the external auth service; ExternalUserID links the two.
// Created with signup defaults on first contact, mutated only by the
// progression engine after each choice.
type Profile struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"` // auth service UUID
	Username       string  `gorm:"index;not null" json:"username"`
	AvatarURL      *string `json:"avatar_url,omitempty"`

	// Core progression
	Health     int    `json:"health" gorm:"default:50"` // clamped 0–100
	XP         int64  `json:"xp" gorm:"default:0"`      // current-level points
	TotalXP    int64  `json:"total_xp" gorm:"default:0"`
	Level      int    `json:"level" gorm:"default:1"`
	PlantStage string `json:"plant_stage" gorm:"type:varchar(16);default:'seedling'"`

	// Choice counters
	GoodChoices int64 `json:"good_choices" gorm:"default:0"`
	BadChoices  int64 `json:"bad_choices" gorm:"default:0"`

	// Streaks
	StreakDays     int     `json:"streak_days" gorm:"default:0"`
	LongestStreak  int     `json:"longest_streak" gorm:"default:0"`
	LastActionDate *string `json:"last_action_date,omitempty" gorm:"type:varchar(10)"` // YYYY-MM-DD

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
