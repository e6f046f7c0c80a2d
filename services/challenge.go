package services

import (
	"fmt"
	"log"
	"time"

	"eco-garden-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ChallengeService tracks per-user challenge progress. Only good choices
// advance progress; bad choices never do.
type ChallengeService struct {
	DB   *gorm.DB
	Data *DataService
}

func NewChallengeService(db *gorm.DB, data *DataService) *ChallengeService {
	return &ChallengeService{DB: db, Data: data}
}

// EnsureUserChallenges lazily creates a progress row at 0 for every active
// challenge the user doesn't have one for yet.
func (s *ChallengeService) EnsureUserChallenges(userID string) error {
	active, err := s.Data.GetActiveChallenges()
	if err != nil {
		return err
	}
	existing, err := s.Data.GetUserChallenges(userID)
	if err != nil {
		return err
	}

	have := make(map[string]bool, len(existing))
	for _, uc := range existing {
		have[uc.ChallengeID] = true
	}
	for _, ch := range active {
		if have[ch.ID] {
			continue
		}
		if _, err := s.Data.UpsertChallengeProgress(userID, ch.ID, 0, false); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceForGoodChoice adds one to every active, uncompleted challenge row.
// Completion is one-way: the reward is granted and the notification emitted
// exactly once, on the false→true transition.
func (s *ChallengeService) AdvanceForGoodChoice(p *models.Profile) (*models.Profile, []Event, error) {
	if err := s.EnsureUserChallenges(p.ExternalUserID); err != nil {
		return nil, nil, err
	}
	ucs, err := s.Data.GetUserChallenges(p.ExternalUserID)
	if err != nil {
		return nil, nil, err
	}

	var events []Event
	for _, uc := range ucs {
		if uc.Completed || !uc.Challenge.IsActive {
			continue
		}

		newProgress := uc.Progress + 1
		completed := newProgress >= uc.Challenge.Goal
		if _, err := s.Data.UpsertChallengeProgress(p.ExternalUserID, uc.ChallengeID, newProgress, completed); err != nil {
			return nil, nil, err
		}
		if !completed {
			continue
		}

		var rewardEvents []Event
		p, rewardEvents, err = grantXP(s.Data, p, uc.Challenge.XPReward)
		if err != nil {
			return nil, nil, err
		}

		ev, err := notify(s.Data, p.ExternalUserID, models.NotificationChallenge, "Challenge Completed!",
			fmt.Sprintf("You completed %q and earned %d XP!", uc.Challenge.Title, uc.Challenge.XPReward))
		if err != nil {
			return nil, nil, err
		}
		events = append(events, ev)
		events = append(events, rewardEvents...)
	}
	return p, events, nil
}

// StartExpiryScheduler flips is_active off for challenges past their end
// date, so the active flag stays truthful without query-side date filtering.
func (s *ChallengeService) StartExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			res := s.DB.Model(&models.Challenge{}).
				Where("is_active = ? AND end_date < ?", true, time.Now()).
				Update("is_active", false)
			if res.Error != nil {
				log.Printf("[Scheduler] challenge expiry failed: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Deactivated %d expired challenge(s)", res.RowsAffected)
			}
		}),
	)
}
