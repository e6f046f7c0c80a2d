package models

import "time"

// Achievement categories drive the evaluator's predicate.
const (
	AchievementCategoryChoices = "choices"
	AchievementCategoryStreaks = "streaks"
	AchievementCategoryHealth  = "health"
)

// Achievement: static catalog row, seeded at startup. Requirement is the
// cumulative threshold the predicate compares against; XPReward is granted
// once on unlock.
type Achievement struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    string    `gorm:"type:varchar(16);not null" json:"category"`
	Requirement int64     `json:"requirement"`
	XPReward    int64     `json:"xp_reward"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserAchievement: join row; existence means "already earned". The unique
// index backs the idempotent award (duplicate insert is a no-op).
type UserAchievement struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"external_user_id"`
	AchievementID  string    `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	EarnedAt       time.Time `json:"earned_at" gorm:"autoCreateTime"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}

// AchievementSeed is inserted idempotently at startup, keyed on Code.
var AchievementSeed = []Achievement{
	{Code: "first_step", Title: "First Step", Description: "Log your first eco-friendly choice", Icon: "ri-footprint-line", Category: AchievementCategoryChoices, Requirement: 1, XPReward: 10},
	{Code: "getting_greener", Title: "Getting Greener", Description: "Log 10 eco-friendly choices", Icon: "ri-seedling-line", Category: AchievementCategoryChoices, Requirement: 10, XPReward: 25},
	{Code: "eco_enthusiast", Title: "Eco Enthusiast", Description: "Log 50 eco-friendly choices", Icon: "ri-plant-line", Category: AchievementCategoryChoices, Requirement: 50, XPReward: 50},
	{Code: "green_guardian", Title: "Green Guardian", Description: "Log 100 eco-friendly choices", Icon: "ri-shield-star-line", Category: AchievementCategoryChoices, Requirement: 100, XPReward: 100},
	{Code: "planet_protector", Title: "Planet Protector", Description: "Log 500 eco-friendly choices", Icon: "ri-earth-line", Category: AchievementCategoryChoices, Requirement: 500, XPReward: 250},
	{Code: "three_day_streak", Title: "Warming Up", Description: "Keep a 3-day streak", Icon: "ri-fire-line", Category: AchievementCategoryStreaks, Requirement: 3, XPReward: 15},
	{Code: "week_streak", Title: "Week of Green", Description: "Keep a 7-day streak", Icon: "ri-calendar-check-line", Category: AchievementCategoryStreaks, Requirement: 7, XPReward: 35},
	{Code: "month_streak", Title: "Habitual Hero", Description: "Keep a 30-day streak", Icon: "ri-trophy-line", Category: AchievementCategoryStreaks, Requirement: 30, XPReward: 150},
	{Code: "perfect_health", Title: "Full Bloom", Description: "Bring your plant to perfect health", Icon: "ri-heart-pulse-line", Category: AchievementCategoryHealth, Requirement: 100, XPReward: 50},
}
