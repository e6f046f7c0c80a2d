package models

import "time"

// Challenge: time-boxed goal requiring Goal good choices, rewarding XP once
// on completion. Seeded at startup; IsActive flips off when EndDate passes.
type Challenge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Goal        int       `json:"goal"`
	XPReward    int64     `json:"xp_reward"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserChallenge: per (user, challenge) progress. Progress is monotonically
// non-decreasing while active; Completed flips false→true exactly once.
type UserChallenge struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string     `gorm:"uniqueIndex:idx_user_challenge;not null" json:"external_user_id"`
	ChallengeID    string     `gorm:"uniqueIndex:idx_user_challenge;not null" json:"challenge_id"`
	Progress       int        `json:"progress" gorm:"default:0"`
	Completed      bool       `json:"completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"challenge"`

	Timestamps
}

// ChallengeSeedEntry: catalog input; the seeder derives Code from Title and
// EndDate from DurationDays so redeploys don't resurrect expired rows.
type ChallengeSeedEntry struct {
	Title        string
	Description  string
	Goal         int
	XPReward     int64
	DurationDays int
}

var ChallengeSeed = []ChallengeSeedEntry{
	{Title: "Green Week", Description: "Log 7 eco-friendly choices this week", Goal: 7, XPReward: 50, DurationDays: 7},
	{Title: "Eco Sprint", Description: "Log 15 eco-friendly choices", Goal: 15, XPReward: 100, DurationDays: 14},
	{Title: "Monthly Momentum", Description: "Log 30 eco-friendly choices this month", Goal: 30, XPReward: 200, DurationDays: 30},
}
