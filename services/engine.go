package services

import (
	"errors"
	"time"

	"eco-garden-system/models"
)

// ErrUnknownChoice: choice id not in the catalog for the given polarity.
// Fatal for that call; nothing is mutated.
var ErrUnknownChoice = errors.New("unknown choice id")

// Tunables for the rules engine.
const (
	GoodChoiceImpact = 5
	BadChoiceImpact  = -5
	GoodChoiceXP     = 10
	XPPerLevel       = 100
)

// DateKey formats a time as the calendar-date key used for streaks and daily
// stats.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// XPReward: good choices earn XP, bad choices cost health but no XP.
func XPReward(isGood bool) int64 {
	if isGood {
		return GoodChoiceXP
	}
	return 0
}

// ClampHealth keeps health inside [0, 100].
func ClampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}

// LevelForTotalXP: level is a pure function of lifetime XP, never of the
// current-level counter, so it can never decrease.
func LevelForTotalXP(totalXP int64) int {
	return int(totalXP/XPPerLevel) + 1
}

// StageForLevel returns the plant stage whose threshold is the greatest one
// <= level. Health does not gate stage.
func StageForLevel(level int) string {
	stage := models.PlantStages[0].Stage
	for _, s := range models.PlantStages {
		if level >= s.MinLevel {
			stage = s.Stage
		}
	}
	return stage
}

// NextStreak applies the streak rules given the profile's last action date.
// Same-day repeats leave the streak alone; an action the day after the last
// one extends it; anything else (including the first ever action) starts a
// fresh streak of 1.
func NextStreak(lastActionDate *string, current int, now time.Time) int {
	switch {
	case lastActionDate == nil:
		return 1
	case *lastActionDate == DateKey(now):
		return current
	case *lastActionDate == DateKey(now.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

// Transition is the fully computed post-choice profile state plus the flags
// the UI cares about. Pure data; persisting it is the orchestrator's job.
type Transition struct {
	Health        int
	HealthDelta   int
	XP            int64
	TotalXP       int64
	XPEarned      int64
	Level         int
	PlantStage    string
	LeveledUp     bool
	StageChanged  bool
	GoodChoices   int64
	BadChoices    int64
	StreakDays    int
	LongestStreak int
	ActionDate    string
}

// ComputeTransition runs the rules for one choice against a profile snapshot.
// Deterministic: all time-dependence comes in through now.
func ComputeTransition(p *models.Profile, choice models.ChoiceDefinition, isGood bool, now time.Time) Transition {
	impact := BadChoiceImpact
	if isGood {
		impact = GoodChoiceImpact
	}
	xpEarned := XPReward(isGood)

	newTotalXP := p.TotalXP + xpEarned
	newLevel := LevelForTotalXP(newTotalXP)
	newStage := StageForLevel(newLevel)
	newStreak := NextStreak(p.LastActionDate, p.StreakDays, now)

	t := Transition{
		Health:       ClampHealth(p.Health + impact),
		HealthDelta:  impact,
		XP:           p.XP + xpEarned,
		TotalXP:      newTotalXP,
		XPEarned:     xpEarned,
		Level:        newLevel,
		PlantStage:   newStage,
		LeveledUp:    newLevel > p.Level,
		StageChanged: newStage != p.PlantStage,
		GoodChoices:  p.GoodChoices,
		BadChoices:   p.BadChoices,
		StreakDays:   newStreak,
		ActionDate:   DateKey(now),
	}
	if isGood {
		t.GoodChoices++
	} else {
		t.BadChoices++
	}
	t.LongestStreak = p.LongestStreak
	if newStreak > t.LongestStreak {
		t.LongestStreak = newStreak
	}
	return t
}

// RewardOutcome is the result of granting bonus XP (challenge or achievement
// rewards) outside the per-choice path.
type RewardOutcome struct {
	XP           int64
	TotalXP      int64
	Level        int
	PlantStage   string
	LeveledUp    bool
	StageChanged bool
}

// ApplyReward grants bonus XP and re-runs the level/stage computation, so a
// reward that crosses a level boundary triggers the same transition as a
// choice would.
func ApplyReward(p *models.Profile, xp int64) RewardOutcome {
	newTotalXP := p.TotalXP + xp
	newLevel := LevelForTotalXP(newTotalXP)
	newStage := StageForLevel(newLevel)
	return RewardOutcome{
		XP:           p.XP + xp,
		TotalXP:      newTotalXP,
		Level:        newLevel,
		PlantStage:   newStage,
		LeveledUp:    newLevel > p.Level,
		StageChanged: newStage != p.PlantStage,
	}
}
