package services

import (
	"fmt"
	"testing"
	"time"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.ActionRecord{},
		&models.DailyStat{},
		&models.CategoryStat{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.Friendship{},
		&models.Notification{},
	))
	require.NoError(t, SeedCatalogs(db))
	return db
}

func createProfile(t *testing.T, db *gorm.DB, p models.Profile) *models.Profile {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Username == "" {
		p.Username = p.ExternalUserID
	}
	if p.PlantStage == "" {
		p.PlantStage = models.StageSeedling
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestMakeChoice_GoodChoiceEndToEnd(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	res, err := svc.MakeChoice("user-1", "recycle", true)
	require.NoError(t, err)

	// engine effects plus the first_step achievement reward (+10 XP)
	assert.Equal(t, 55, res.Profile.Health)
	assert.Equal(t, int64(20), res.Profile.XP)
	assert.Equal(t, int64(20), res.Profile.TotalXP)
	assert.Equal(t, 1, res.Profile.Level)
	assert.Equal(t, models.StageSeedling, res.Profile.PlantStage)
	assert.Equal(t, int64(1), res.Profile.GoodChoices)
	assert.Equal(t, 1, res.Profile.StreakDays)
	assert.False(t, res.LeveledUp)
	assert.False(t, res.StageChanged)

	var actionCount int64
	db.Model(&models.ActionRecord{}).Where("external_user_id = ?", "user-1").Count(&actionCount)
	assert.Equal(t, int64(1), actionCount)

	var achievementCount int64
	db.Model(&models.UserAchievement{}).Where("external_user_id = ?", "user-1").Count(&achievementCount)
	assert.Equal(t, int64(1), achievementCount, "first_step should be earned")

	var cat models.CategoryStat
	require.NoError(t, db.Where("external_user_id = ?", "user-1").First(&cat).Error)
	assert.Equal(t, int64(1), cat.Recycling)
	assert.Equal(t, int64(0), cat.PublicTransport)

	// every active challenge got a lazily created row, advanced to 1
	var ucs []models.UserChallenge
	require.NoError(t, db.Where("external_user_id = ?", "user-1").Find(&ucs).Error)
	require.NotEmpty(t, ucs)
	for _, uc := range ucs {
		assert.Equal(t, 1, uc.Progress)
		assert.False(t, uc.Completed)
	}
}

func TestMakeChoice_UnknownChoice(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	_, err := svc.MakeChoice("user-1", "flycrosscountry", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownChoice)

	var actionCount int64
	db.Model(&models.ActionRecord{}).Count(&actionCount)
	assert.Equal(t, int64(0), actionCount, "no mutation on unknown choice")
}

func TestMakeChoice_BadChoice(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	res, err := svc.MakeChoice("user-1", "plasticbag", false)
	require.NoError(t, err)

	assert.Equal(t, 45, res.Profile.Health)
	assert.Equal(t, int64(0), res.Profile.XP)
	assert.Equal(t, int64(0), res.Profile.GoodChoices)
	assert.Equal(t, int64(1), res.Profile.BadChoices)
	assert.Equal(t, 1, res.Profile.StreakDays, "bad choices still count toward the streak")

	// bad choices never advance challenge progress
	var ucCount int64
	db.Model(&models.UserChallenge{}).Where("external_user_id = ? AND progress > 0", "user-1").Count(&ucCount)
	assert.Equal(t, int64(0), ucCount)

	var stat models.DailyStat
	require.NoError(t, db.Where("external_user_id = ?", "user-1").First(&stat).Error)
	assert.Equal(t, 0, stat.GoodCount)
	assert.Equal(t, 1, stat.BadCount)
	assert.Equal(t, int64(0), stat.XPEarned)
}

func TestMakeChoice_SameDayStreakStable(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	res1, err := svc.MakeChoice("user-1", "lightoff", true)
	require.NoError(t, err)
	res2, err := svc.MakeChoice("user-1", "compost", true)
	require.NoError(t, err)

	assert.Equal(t, 1, res1.Profile.StreakDays)
	assert.Equal(t, 1, res2.Profile.StreakDays, "same-day repeats do not compound")
}

func TestMakeChoice_DailyStatHealthStartFixed(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	_, err := svc.MakeChoice("user-1", "recycle", true)
	require.NoError(t, err)
	_, err = svc.MakeChoice("user-1", "walkbike", true)
	require.NoError(t, err)

	var stats []models.DailyStat
	require.NoError(t, db.Where("external_user_id = ?", "user-1").Find(&stats).Error)
	require.Len(t, stats, 1, "one row per (user, date)")

	assert.Equal(t, 2, stats[0].GoodCount)
	assert.Equal(t, int64(20), stats[0].XPEarned)
	assert.Equal(t, 55, stats[0].HealthStart, "first write of the day fixes the opening value")
	assert.Equal(t, 60, stats[0].HealthEnd)
}

func TestMakeChoice_StreakContinuationFromYesterday(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	yesterday := DateKey(time.Now().AddDate(0, 0, -1))
	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		Level:          1,
		StreakDays:     3,
		LongestStreak:  3,
		LastActionDate: &yesterday,
	})

	res, err := svc.MakeChoice("user-1", "shortshower", true)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Profile.StreakDays)
	assert.Equal(t, 4, res.Profile.LongestStreak)
}

func TestMakeChoice_LevelUpEmitsNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		XP:             90,
		TotalXP:        490,
		Level:          5,
		PlantStage:     models.StageSprout,
	})

	res, err := svc.MakeChoice("user-1", "publictransport", true)
	require.NoError(t, err)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 6, res.Profile.Level)

	var levelNotifs int64
	db.Model(&models.Notification{}).
		Where("external_user_id = ? AND type = ?", "user-1", models.NotificationLevel).
		Count(&levelNotifs)
	assert.Equal(t, int64(1), levelNotifs)
}

func TestMakeChoice_StageChangeAwardsLevelBadges(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		XP:             90,
		TotalXP:        2390,
		Level:          24,
		PlantStage:     models.StageSapling,
		GoodChoices:    5,
	})
	// suppress the choices achievement noise; this test is about stage/badges
	seedEarnedAchievement(t, db, "user-1", "first_step")

	res, err := svc.MakeChoice("user-1", "energystar", true)
	require.NoError(t, err)

	assert.True(t, res.StageChanged)
	assert.Equal(t, models.StageTree, res.Profile.PlantStage)
	assert.GreaterOrEqual(t, res.Profile.Level, 25)

	var badgeCodes []string
	db.Model(&models.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.external_user_id = ?", "user-1").
		Pluck("badges.code", &badgeCodes)
	assert.Contains(t, badgeCodes, models.BadgeLevel25)
	assert.Contains(t, badgeCodes, models.BadgeLevel5)
	assert.Contains(t, badgeCodes, models.BadgeLevel10)
}

func TestMakeChoice_PerfectHealthIsStrictEquality(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         95,
		Level:          1,
	})
	seedEarnedAchievement(t, db, "user-1", "first_step")

	res, err := svc.MakeChoice("user-1", "waterbottle", true)
	require.NoError(t, err)
	require.Equal(t, 100, res.Profile.Health)

	var earned int64
	db.Model(&models.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.external_user_id = ? AND achievements.code = ?", "user-1", "perfect_health").
		Count(&earned)
	assert.Equal(t, int64(1), earned)
}

func TestChallengeCompletionGrantsRewardOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	// replace the seeded catalog with a single two-step challenge
	require.NoError(t, db.Where("1 = 1").Delete(&models.Challenge{}).Error)
	require.NoError(t, db.Create(&models.Challenge{
		ID:       uuid.NewString(),
		Code:     "quick-win",
		Title:    "Quick Win",
		Goal:     2,
		XPReward: 50,
		IsActive: true,
		EndDate:  time.Now().AddDate(0, 0, 7),
	}).Error)

	_, err := svc.MakeChoice("user-1", "recycle", true)
	require.NoError(t, err)
	res, err := svc.MakeChoice("user-1", "compost", true)
	require.NoError(t, err)

	// 2 choices (10 XP each) + first_step (10) + challenge reward (50)
	assert.Equal(t, int64(80), res.Profile.TotalXP)

	var uc models.UserChallenge
	require.NoError(t, db.Where("external_user_id = ?", "user-1").First(&uc).Error)
	assert.Equal(t, 2, uc.Progress)
	assert.True(t, uc.Completed)
	require.NotNil(t, uc.CompletedAt)

	// a third good choice leaves the completed row alone
	_, err = svc.MakeChoice("user-1", "meatless", true)
	require.NoError(t, err)
	require.NoError(t, db.Where("external_user_id = ?", "user-1").First(&uc).Error)
	assert.Equal(t, 2, uc.Progress)

	var challengeNotifs int64
	db.Model(&models.Notification{}).
		Where("external_user_id = ? AND type = ?", "user-1", models.NotificationChallenge).
		Count(&challengeNotifs)
	assert.Equal(t, int64(1), challengeNotifs, "completion notifies exactly once")
}

func TestMakeChoice_CategoryBadgeAtThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		Level:          1,
		GoodChoices:    49,
	})
	seedEarnedAchievement(t, db, "user-1", "first_step")
	seedEarnedAchievement(t, db, "user-1", "getting_greener")
	require.NoError(t, db.Create(&models.CategoryStat{
		ID:             uuid.NewString(),
		ExternalUserID: "user-1",
		Recycling:      49,
	}).Error)

	res, err := svc.MakeChoice("user-1", "recycle", true)
	require.NoError(t, err)

	var badgeCodes []string
	db.Model(&models.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.external_user_id = ?", "user-1").
		Pluck("badges.code", &badgeCodes)
	assert.Contains(t, badgeCodes, models.BadgeRecycler)
	assert.NotContains(t, badgeCodes, models.BadgeCommuter, "other categories stay at zero")

	// badges carry no XP: choice 10 + eco_enthusiast (50 choices) 50
	assert.Equal(t, int64(60), res.Profile.TotalXP)

	var badgeNotifs int64
	db.Model(&models.Notification{}).
		Where("external_user_id = ? AND type = ?", "user-1", models.NotificationBadge).
		Count(&badgeNotifs)
	assert.Equal(t, int64(1), badgeNotifs)
}

func TestMakeChoice_StreakAchievementOnThirdDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	yesterday := DateKey(time.Now().AddDate(0, 0, -1))
	createProfile(t, db, models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		Level:          1,
		StreakDays:     2,
		LongestStreak:  2,
		LastActionDate: &yesterday,
	})
	seedEarnedAchievement(t, db, "user-1", "first_step")

	res, err := svc.MakeChoice("user-1", "lightoff", true)
	require.NoError(t, err)
	require.Equal(t, 3, res.Profile.StreakDays)

	var earned int64
	db.Model(&models.UserAchievement{}).
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.external_user_id = ? AND achievements.code = ?", "user-1", "three_day_streak").
		Count(&earned)
	assert.Equal(t, int64(1), earned)

	// choice 10 + three_day_streak reward 15
	assert.Equal(t, int64(25), res.Profile.TotalXP)
}

func TestAwardAchievementIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	data := NewDataService(db)

	var a models.Achievement
	require.NoError(t, db.Where("code = ?", "first_step").First(&a).Error)

	first, err := data.AwardAchievement("user-1", a.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := data.AwardAchievement("user-1", a.ID)
	require.NoError(t, err, "duplicate award is success-no-op, not an error")
	assert.Nil(t, second)

	var count int64
	db.Model(&models.UserAchievement{}).
		Where("external_user_id = ? AND achievement_id = ?", "user-1", a.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func seedEarnedAchievement(t *testing.T, db *gorm.DB, userID, code string) {
	t.Helper()
	var a models.Achievement
	require.NoError(t, db.Where("code = ?", code).First(&a).Error)
	require.NoError(t, db.Create(&models.UserAchievement{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		AchievementID:  a.ID,
	}).Error)
}
