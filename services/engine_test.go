package services

import (
	"testing"
	"time"

	"eco-garden-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClampHealth(t *testing.T) {
	assert.Equal(t, 0, ClampHealth(-3))
	assert.Equal(t, 0, ClampHealth(0))
	assert.Equal(t, 55, ClampHealth(55))
	assert.Equal(t, 100, ClampHealth(100))
	assert.Equal(t, 100, ClampHealth(103))
}

func TestLevelForTotalXP(t *testing.T) {
	cases := []struct {
		totalXP int64
		level   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{490, 5},
		{499, 5},
		{500, 6},
		{4900, 50},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForTotalXP(tc.totalXP), "totalXP=%d", tc.totalXP)
	}
}

func TestStageForLevel(t *testing.T) {
	cases := []struct {
		level int
		stage string
	}{
		{1, models.StageSeedling},
		{4, models.StageSeedling},
		{5, models.StageSprout},
		{9, models.StageSprout},
		{10, models.StageSapling},
		{24, models.StageSapling},
		{25, models.StageTree},
		{49, models.StageTree},
		{50, models.StageAncient},
		{120, models.StageAncient},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.stage, StageForLevel(tc.level), "level=%d", tc.level)
	}
}

func TestXPReward(t *testing.T) {
	assert.Equal(t, int64(10), XPReward(true))
	assert.Equal(t, int64(0), XPReward(false))
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	today := DateKey(now)
	yesterday := DateKey(now.AddDate(0, 0, -1))
	lastWeek := DateKey(now.AddDate(0, 0, -7))

	assert.Equal(t, 1, NextStreak(nil, 0, now), "first ever action starts a streak")
	assert.Equal(t, 3, NextStreak(&today, 3, now), "same-day repeats do not compound")
	assert.Equal(t, 4, NextStreak(&yesterday, 3, now), "consecutive day extends")
	assert.Equal(t, 1, NextStreak(&lastWeek, 9, now), "a gap of 2+ days resets")
}

func freshProfile() *models.Profile {
	return &models.Profile{
		ExternalUserID: "user-1",
		Health:         50,
		Level:          1,
		PlantStage:     models.StageSeedling,
	}
}

func TestComputeTransition_FirstGoodChoice(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	choice, ok := models.FindChoice("recycle", true)
	require.True(t, ok)

	tr := ComputeTransition(freshProfile(), choice, true, now)

	assert.Equal(t, 55, tr.Health)
	assert.Equal(t, int64(10), tr.XP)
	assert.Equal(t, int64(10), tr.TotalXP)
	assert.Equal(t, 1, tr.Level)
	assert.Equal(t, models.StageSeedling, tr.PlantStage)
	assert.Equal(t, int64(1), tr.GoodChoices)
	assert.Equal(t, int64(0), tr.BadChoices)
	assert.Equal(t, 1, tr.StreakDays)
	assert.Equal(t, 1, tr.LongestStreak)
	assert.False(t, tr.LeveledUp)
	assert.False(t, tr.StageChanged)
	assert.Equal(t, "2026-08-28", tr.ActionDate)
}

func TestComputeTransition_BadChoiceCostsHealthNotXP(t *testing.T) {
	now := time.Now()
	choice, ok := models.FindChoice("plasticbag", false)
	require.True(t, ok)

	tr := ComputeTransition(freshProfile(), choice, false, now)

	assert.Equal(t, 45, tr.Health)
	assert.Equal(t, int64(0), tr.XPEarned)
	assert.Equal(t, int64(0), tr.TotalXP)
	assert.Equal(t, int64(1), tr.BadChoices)
	assert.Equal(t, int64(0), tr.GoodChoices)
}

func TestComputeTransition_HealthClampsAtBothBounds(t *testing.T) {
	now := time.Now()
	good, _ := models.FindChoice("compost", true)
	bad, _ := models.FindChoice("foodwaste", false)

	high := freshProfile()
	high.Health = 98
	tr := ComputeTransition(high, good, true, now)
	assert.Equal(t, 100, tr.Health, "98 + good caps at 100, not 103")

	low := freshProfile()
	low.Health = 2
	tr = ComputeTransition(low, bad, false, now)
	assert.Equal(t, 0, tr.Health, "2 + bad floors at 0, not -3")
}

func TestComputeTransition_LevelUpAtBoundary(t *testing.T) {
	now := time.Now()
	choice, _ := models.FindChoice("walkbike", true)

	p := freshProfile()
	p.XP = 90
	p.TotalXP = 490
	p.Level = 5
	p.PlantStage = models.StageSprout

	tr := ComputeTransition(p, choice, true, now)

	assert.Equal(t, int64(500), tr.TotalXP)
	assert.Equal(t, 6, tr.Level)
	assert.True(t, tr.LeveledUp)
	assert.Equal(t, models.StageSprout, tr.PlantStage)
	assert.False(t, tr.StageChanged)
}

func TestComputeTransition_StageChangeAtTreeThreshold(t *testing.T) {
	now := time.Now()
	choice, _ := models.FindChoice("shortshower", true)

	p := freshProfile()
	p.TotalXP = 2390
	p.Level = 24
	p.PlantStage = models.StageSapling

	tr := ComputeTransition(p, choice, true, now)

	assert.Equal(t, 25, tr.Level)
	assert.True(t, tr.LeveledUp)
	assert.Equal(t, models.StageTree, tr.PlantStage)
	assert.True(t, tr.StageChanged)
}

func TestComputeTransition_StreakContinuesFromYesterday(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	choice, _ := models.FindChoice("lightoff", true)

	p := freshProfile()
	p.LastActionDate = strPtr(DateKey(now.AddDate(0, 0, -1)))
	p.StreakDays = 3
	p.LongestStreak = 3

	tr := ComputeTransition(p, choice, true, now)
	assert.Equal(t, 4, tr.StreakDays)
	assert.Equal(t, 4, tr.LongestStreak)

	// longest streak never decreases, even when the current run is shorter
	p.LongestStreak = 10
	tr = ComputeTransition(p, choice, true, now)
	assert.Equal(t, 4, tr.StreakDays)
	assert.Equal(t, 10, tr.LongestStreak)
}

func TestComputeTransition_SameDayDoesNotCompoundStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)
	choice, _ := models.FindChoice("meatless", true)

	p := freshProfile()
	p.LastActionDate = strPtr(DateKey(now))
	p.StreakDays = 2
	p.LongestStreak = 2

	tr := ComputeTransition(p, choice, true, now)
	assert.Equal(t, 2, tr.StreakDays)
}

func TestComputeTransition_GapResetsStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	choice, _ := models.FindChoice("localfood", true)

	p := freshProfile()
	p.LastActionDate = strPtr(DateKey(now.AddDate(0, 0, -5)))
	p.StreakDays = 4
	p.LongestStreak = 4

	tr := ComputeTransition(p, choice, true, now)
	assert.Equal(t, 1, tr.StreakDays)
	assert.Equal(t, 4, tr.LongestStreak)
}

func TestApplyReward_RecomputesLevelAndStage(t *testing.T) {
	p := freshProfile()
	p.XP = 95
	p.TotalXP = 95

	out := ApplyReward(p, 50)
	assert.Equal(t, int64(145), out.TotalXP)
	assert.Equal(t, 2, out.Level)
	assert.True(t, out.LeveledUp)
	assert.False(t, out.StageChanged)
}

func TestApplyReward_CanCrossStageBoundary(t *testing.T) {
	p := freshProfile()
	p.XP = 80
	p.TotalXP = 880
	p.Level = 9
	p.PlantStage = models.StageSprout

	out := ApplyReward(p, 200)
	assert.Equal(t, int64(1080), out.TotalXP)
	assert.Equal(t, 11, out.Level)
	assert.True(t, out.LeveledUp)
	assert.Equal(t, models.StageSapling, out.PlantStage)
	assert.True(t, out.StageChanged)
}

func TestFindChoice_PolarityIsPartOfTheKey(t *testing.T) {
	_, ok := models.FindChoice("recycle", true)
	assert.True(t, ok)
	_, ok = models.FindChoice("recycle", false)
	assert.False(t, ok, "a good choice id is unknown on the bad side")
	_, ok = models.FindChoice("nosuchchoice", true)
	assert.False(t, ok)
}
