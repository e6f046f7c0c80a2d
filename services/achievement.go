package services

import (
	"fmt"

	"eco-garden-system/models"
)

// AchievementService scans the catalogs against current cumulative stats
// after every state mutation and awards anything newly earned. Awards are
// idempotent: a membership check first, and the unique index catches races.
type AchievementService struct {
	Data *DataService
}

func NewAchievementService(data *DataService) *AchievementService {
	return &AchievementService{Data: data}
}

// CheckAchievements evaluates every unearned achievement against the
// profile. Earned ones grant their XP reward (which can itself level the
// user up) and emit one notification each.
func (s *AchievementService) CheckAchievements(p *models.Profile) (*models.Profile, []Event, error) {
	all, err := s.Data.GetAllAchievements()
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.Data.GetUserAchievements(p.ExternalUserID)
	if err != nil {
		return nil, nil, err
	}
	earned := make(map[string]bool, len(rows))
	for _, ua := range rows {
		earned[ua.AchievementID] = true
	}

	var events []Event
	for _, a := range all {
		if earned[a.ID] || !achievementEarned(a, p) {
			continue
		}

		awarded, err := s.Data.AwardAchievement(p.ExternalUserID, a.ID)
		if err != nil {
			return nil, nil, err
		}
		if awarded == nil {
			// already earned, nothing to grant
			continue
		}

		var rewardEvents []Event
		p, rewardEvents, err = grantXP(s.Data, p, a.XPReward)
		if err != nil {
			return nil, nil, err
		}

		ev, err := notify(s.Data, p.ExternalUserID, models.NotificationAchievement, "Achievement Unlocked!",
			fmt.Sprintf("You earned %q and gained %d XP!", a.Title, a.XPReward))
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
		events = append(events, rewardEvents...)
	}
	return p, events, nil
}

// achievementEarned is the category-specific predicate. perfect_health is
// strict equality: it only fires when health sits at exactly 100.
func achievementEarned(a models.Achievement, p *models.Profile) bool {
	switch a.Category {
	case models.AchievementCategoryChoices:
		return p.GoodChoices >= a.Requirement
	case models.AchievementCategoryStreaks:
		return int64(p.StreakDays) >= a.Requirement
	case models.AchievementCategoryHealth:
		return a.Code == "perfect_health" && p.Health == 100
	}
	return false
}

// CheckBadges awards any badge whose code predicate holds. Badges carry no
// XP reward, only a notification.
func (s *AchievementService) CheckBadges(p *models.Profile) ([]Event, error) {
	badges, err := s.Data.GetAllBadges()
	if err != nil {
		return nil, err
	}
	rows, err := s.Data.GetUserBadges(p.ExternalUserID)
	if err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(rows))
	for _, ub := range rows {
		earned[ub.BadgeID] = true
	}

	stats, err := s.Data.GetCategoryStats(p.ExternalUserID)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, b := range badges {
		if earned[b.ID] || !badgeEarned(b.Code, p, stats) {
			continue
		}

		awarded, err := s.Data.AwardBadge(p.ExternalUserID, b.ID)
		if err != nil {
			return nil, err
		}
		if awarded == nil {
			continue
		}

		ev, err := notify(s.Data, p.ExternalUserID, models.NotificationBadge, "Badge Earned!",
			fmt.Sprintf("You earned the %q badge!", b.Title))
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func badgeEarned(code string, p *models.Profile, stats *models.CategoryStat) bool {
	switch code {
	case models.BadgeRecycler:
		return stats.Recycling >= models.CategoryBadgeThreshold
	case models.BadgeCommuter:
		return stats.PublicTransport >= models.CategoryBadgeThreshold
	case models.BadgeEnergySaver:
		return stats.EnergySaving >= models.CategoryBadgeThreshold
	case models.BadgeWaterWarrior:
		return stats.WaterConservation >= models.CategoryBadgeThreshold
	case models.BadgeSustainableShopper:
		return stats.SustainableShopping >= models.CategoryBadgeThreshold
	case models.BadgeLevel5:
		return p.Level >= 5
	case models.BadgeLevel10:
		return p.Level >= 10
	case models.BadgeLevel25:
		return p.Level >= 25
	case models.BadgeLevel50:
		return p.Level >= 50
	}
	return false
}
