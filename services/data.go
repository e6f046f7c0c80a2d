package services

import (
	"errors"
	"time"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DataService is the storage gateway the progression pipeline runs against.
// Every operation returns an explicit error; gorm.ErrRecordNotFound is the
// "no row" signal so callers can tell first-time initialization apart from a
// storage failure.
type DataService struct {
	DB *gorm.DB
}

func NewDataService(db *gorm.DB) *DataService {
	return &DataService{DB: db}
}

// --- Profile ---

func (s *DataService) GetProfile(userID string) (*models.Profile, error) {
	var p models.Profile
	if err := s.DB.Where("external_user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile applies a partial field map and returns the fresh row.
func (s *DataService) UpdateProfile(userID string, fields map[string]interface{}) (*models.Profile, error) {
	if err := s.DB.Model(&models.Profile{}).
		Where("external_user_id = ?", userID).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.GetProfile(userID)
}

// --- Actions ---

func (s *DataService) AppendAction(userID string, choice models.ChoiceDefinition, isGood bool, impact int, xpEarned int64) (*models.ActionRecord, error) {
	action := models.ActionRecord{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		ChoiceID:       choice.ID,
		Text:           choice.Text,
		Icon:           choice.Icon,
		IsGood:         isGood,
		Impact:         impact,
		XPEarned:       xpEarned,
	}
	if err := s.DB.Create(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func (s *DataService) GetActions(userID string, limit int) ([]models.ActionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var actions []models.ActionRecord
	err := s.DB.Where("external_user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}

// --- Daily stats ---

func (s *DataService) GetDailyStat(userID, date string) (*models.DailyStat, error) {
	var stat models.DailyStat
	if err := s.DB.Where("external_user_id = ? AND date = ?", userID, date).First(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (s *DataService) GetDailyStats(userID string, days int) ([]models.DailyStat, error) {
	if days <= 0 {
		days = 7
	}
	since := DateKey(time.Now().AddDate(0, 0, -days))
	var stats []models.DailyStat
	err := s.DB.Where("external_user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&stats).Error
	return stats, err
}

func (s *DataService) UpsertDailyStat(stat *models.DailyStat) error {
	// Always insert under a fresh id so the only possible conflict is the
	// (user, date) index; the existing row keeps its original id.
	stat.ID = uuid.NewString()
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}, {Name: "date"}},
		// health_start is fixed by the first write of the day
		DoUpdates: clause.AssignmentColumns([]string{
			"good_count", "bad_count", "xp_earned", "health_end", "updated_at",
		}),
	}).Create(stat).Error
}

// --- Category stats ---

// GetCategoryStats returns the user's row, creating the zeroed row on first
// use.
func (s *DataService) GetCategoryStats(userID string) (*models.CategoryStat, error) {
	var stat models.CategoryStat
	err := s.DB.Where("external_user_id = ?", userID).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stat = models.CategoryStat{ID: uuid.NewString(), ExternalUserID: userID}
		if err := s.DB.Create(&stat).Error; err != nil {
			return nil, err
		}
		return &stat, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (s *DataService) SaveCategoryStats(stat *models.CategoryStat) error {
	return s.DB.Save(stat).Error
}

// --- Achievements ---

func (s *DataService) GetAllAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := s.DB.Order("requirement ASC").Find(&achievements).Error
	return achievements, err
}

func (s *DataService) GetUserAchievements(userID string) ([]models.UserAchievement, error) {
	var earned []models.UserAchievement
	err := s.DB.Preload("Achievement").
		Where("external_user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

// AwardAchievement inserts the join row. Duplicate awards return (nil, nil):
// already earned is success, not an error. The unique index backs up the
// membership check the evaluator does first.
func (s *DataService) AwardAchievement(userID, achievementID string) (*models.UserAchievement, error) {
	ua := models.UserAchievement{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		AchievementID:  achievementID,
	}
	res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &ua, nil
}

// --- Badges ---

func (s *DataService) GetAllBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Find(&badges).Error
	return badges, err
}

func (s *DataService) GetUserBadges(userID string) ([]models.UserBadge, error) {
	var earned []models.UserBadge
	err := s.DB.Preload("Badge").
		Where("external_user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}

func (s *DataService) AwardBadge(userID, badgeID string) (*models.UserBadge, error) {
	ub := models.UserBadge{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		BadgeID:        badgeID,
	}
	res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&ub)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &ub, nil
}

// --- Challenges ---

func (s *DataService) GetActiveChallenges() ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := s.DB.Where("is_active = ? AND end_date >= ?", true, time.Now()).
		Order("end_date ASC").
		Find(&challenges).Error
	return challenges, err
}

func (s *DataService) GetUserChallenges(userID string) ([]models.UserChallenge, error) {
	var ucs []models.UserChallenge
	err := s.DB.Preload("Challenge").
		Where("external_user_id = ?", userID).
		Order("created_at DESC").
		Find(&ucs).Error
	return ucs, err
}

// UpsertChallengeProgress writes progress/completed for a (user, challenge)
// pair, creating the row if missing.
func (s *DataService) UpsertChallengeProgress(userID, challengeID string, progress int, completed bool) (*models.UserChallenge, error) {
	uc := models.UserChallenge{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		ChallengeID:    challengeID,
		Progress:       progress,
		Completed:      completed,
	}
	if completed {
		now := time.Now()
		uc.CompletedAt = &now
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_user_id"}, {Name: "challenge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress", "completed", "completed_at", "updated_at",
		}),
	}).Create(&uc).Error
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

// --- Notifications ---

func (s *DataService) CreateNotification(userID, notifType, title, message string) (*models.Notification, error) {
	n := models.Notification{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
