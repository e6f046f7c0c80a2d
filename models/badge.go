package models

import "time"

// Badge codes. Category badges unlock at 50 choices in that category; level
// badges at the named level. Badges never grant XP.
const (
	BadgeRecycler           = "recycler"
	BadgeCommuter           = "commuter"
	BadgeEnergySaver        = "energy_saver"
	BadgeWaterWarrior       = "water_warrior"
	BadgeSustainableShopper = "sustainable_shopper"
	BadgeLevel5             = "level_5"
	BadgeLevel10            = "level_10"
	BadgeLevel25            = "level_25"
	BadgeLevel50            = "level_50"
)

// CategoryBadgeThreshold is the per-category total required for the five
// category badges.
const CategoryBadgeThreshold = 50

// Badge: static catalog row, seeded at startup.
type Badge struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// UserBadge: awarded instance; insertion idempotent via the unique index.
type UserBadge struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"external_user_id"`
	BadgeID        string    `gorm:"uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	EarnedAt       time.Time `json:"earned_at" gorm:"autoCreateTime"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}

var BadgeSeed = []Badge{
	{Code: BadgeRecycler, Title: "Recycler", Description: "50 recycling choices", Icon: "ri-recycle-line"},
	{Code: BadgeCommuter, Title: "Commuter", Description: "50 public transport choices", Icon: "ri-bus-line"},
	{Code: BadgeEnergySaver, Title: "Energy Saver", Description: "50 energy-saving choices", Icon: "ri-flashlight-line"},
	{Code: BadgeWaterWarrior, Title: "Water Warrior", Description: "50 water conservation choices", Icon: "ri-drop-line"},
	{Code: BadgeSustainableShopper, Title: "Sustainable Shopper", Description: "50 sustainable shopping choices", Icon: "ri-shopping-bag-line"},
	{Code: BadgeLevel5, Title: "Sprouting", Description: "Reach level 5", Icon: "ri-seedling-line"},
	{Code: BadgeLevel10, Title: "Taking Root", Description: "Reach level 10", Icon: "ri-plant-line"},
	{Code: BadgeLevel25, Title: "Branching Out", Description: "Reach level 25", Icon: "ri-tree-line"},
	{Code: BadgeLevel50, Title: "Ancient Wisdom", Description: "Reach level 50", Icon: "ri-vip-crown-line"},
}
