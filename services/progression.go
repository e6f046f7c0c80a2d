package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a toast payload for the UI, mirrored by a persisted notification.
type Event struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ChoiceResult is what one logged choice produces for the caller.
type ChoiceResult struct {
	Profile      *models.Profile `json:"profile"`
	LeveledUp    bool            `json:"leveled_up"`
	StageChanged bool            `json:"stage_changed"`
	Events       []Event         `json:"events"`
}

// ProgressionService sequences one user choice end to end: load state, run
// the pure engine, persist, then the aggregators and evaluators in order.
// Any storage error aborts the remaining steps and surfaces to the caller.
type ProgressionService struct {
	DB           *gorm.DB
	Data         *DataService
	Stats        *StatsService
	Challenges   *ChallengeService
	Achievements *AchievementService
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	data := NewDataService(db)
	return &ProgressionService{
		DB:           db,
		Data:         data,
		Stats:        NewStatsService(data),
		Challenges:   NewChallengeService(db, data),
		Achievements: NewAchievementService(data),
	}
}

// EnsureProfile returns the user's profile, creating the signup-default row
// (health 50, level 1, seedling) if this is the first contact. Idempotent.
func (s *ProgressionService) EnsureProfile(userID string) (*models.Profile, error) {
	profile, err := s.Data.GetProfile(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p := models.Profile{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			Username:       userID, // placeholder until the sync worker fills it in
			Health:         50,
			Level:          1,
			PlantStage:     models.StageSeedling,
		}
		if err := s.DB.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// MakeChoice runs the full pipeline for a single choice. Order matters: the
// challenge and achievement evaluators must see the post-choice counters.
func (s *ProgressionService) MakeChoice(userID, choiceID string, isGood bool) (*ChoiceResult, error) {
	choice, ok := models.FindChoice(choiceID, isGood)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChoice, choiceID)
	}

	profile, err := s.EnsureProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	tr := ComputeTransition(profile, choice, isGood, time.Now())

	if _, err := s.Data.AppendAction(userID, choice, isGood, tr.HealthDelta, tr.XPEarned); err != nil {
		return nil, fmt.Errorf("append action: %w", err)
	}

	profile, err = s.Data.UpdateProfile(userID, map[string]interface{}{
		"health":           tr.Health,
		"xp":               tr.XP,
		"total_xp":         tr.TotalXP,
		"level":            tr.Level,
		"plant_stage":      tr.PlantStage,
		"good_choices":     tr.GoodChoices,
		"bad_choices":      tr.BadChoices,
		"streak_days":      tr.StreakDays,
		"longest_streak":   tr.LongestStreak,
		"last_action_date": tr.ActionDate,
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := s.Stats.RecordDailyStat(userID, tr.ActionDate, isGood, tr.XPEarned, tr.Health); err != nil {
		return nil, fmt.Errorf("daily stat: %w", err)
	}
	if err := s.Stats.BumpCategoryStat(userID, choice.Category); err != nil {
		return nil, fmt.Errorf("category stat: %w", err)
	}

	var events []Event

	if isGood {
		var challengeEvents []Event
		profile, challengeEvents, err = s.Challenges.AdvanceForGoodChoice(profile)
		if err != nil {
			return nil, fmt.Errorf("challenges: %w", err)
		}
		events = append(events, challengeEvents...)
	}

	var achievementEvents []Event
	profile, achievementEvents, err = s.Achievements.CheckAchievements(profile)
	if err != nil {
		return nil, fmt.Errorf("achievements: %w", err)
	}
	events = append(events, achievementEvents...)

	badgeEvents, err := s.Achievements.CheckBadges(profile)
	if err != nil {
		return nil, fmt.Errorf("badges: %w", err)
	}
	events = append(events, badgeEvents...)

	if tr.LeveledUp {
		ev, err := notify(s.Data, userID, models.NotificationLevel, "Level Up!",
			fmt.Sprintf("Congratulations! You've reached level %d!", tr.Level))
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if tr.StageChanged {
		ev, err := notify(s.Data, userID, models.NotificationAchievement, "Plant Evolution!",
			fmt.Sprintf("Your plant has evolved into a %s!", models.StageDisplayName(tr.PlantStage)))
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	log.Printf("🌱 Choice applied: %s → choice=%s good=%t health=%d lvl=%d streak=%d",
		userID, choiceID, isGood, profile.Health, profile.Level, profile.StreakDays)

	return &ChoiceResult{
		Profile:      profile,
		LeveledUp:    tr.LeveledUp,
		StageChanged: tr.StageChanged,
		Events:       events,
	}, nil
}

// notify persists a notification and returns its toast payload.
func notify(data *DataService, userID, notifType, title, message string) (Event, error) {
	if _, err := data.CreateNotification(userID, notifType, title, message); err != nil {
		return Event{}, fmt.Errorf("create notification: %w", err)
	}
	return Event{Type: notifType, Title: title, Message: message}, nil
}

// grantXP applies a bonus XP reward (challenge or achievement) to the
// profile, re-running the level/stage computation so reward-driven gains
// trigger the same transitions as choices do.
func grantXP(data *DataService, p *models.Profile, xp int64) (*models.Profile, []Event, error) {
	if xp <= 0 {
		return p, nil, nil
	}
	out := ApplyReward(p, xp)
	updated, err := data.UpdateProfile(p.ExternalUserID, map[string]interface{}{
		"xp":          out.XP,
		"total_xp":    out.TotalXP,
		"level":       out.Level,
		"plant_stage": out.PlantStage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("grant xp: %w", err)
	}

	var events []Event
	if out.LeveledUp {
		ev, err := notify(data, p.ExternalUserID, models.NotificationLevel, "Level Up!",
			fmt.Sprintf("Congratulations! You've reached level %d!", out.Level))
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}
	if out.StageChanged {
		ev, err := notify(data, p.ExternalUserID, models.NotificationAchievement, "Plant Evolution!",
			fmt.Sprintf("Your plant has evolved into a %s!", models.StageDisplayName(out.PlantStage)))
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
	}
	return updated, events, nil
}
