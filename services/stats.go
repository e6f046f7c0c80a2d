package services

import (
	"errors"

	"eco-garden-system/models"

	"gorm.io/gorm"
)

// StatsService owns the daily and category aggregates that each choice feeds.
type StatsService struct {
	Data *DataService
}

func NewStatsService(data *DataService) *StatsService {
	return &StatsService{Data: data}
}

// RecordDailyStat upserts the (user, date) row: counts move by exactly one,
// XP accumulates, health_end tracks every call and health_start is fixed by
// the first write of the day.
func (s *StatsService) RecordDailyStat(userID, date string, isGood bool, xpEarned int64, healthAfter int) error {
	stat, err := s.Data.GetDailyStat(userID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stat = &models.DailyStat{
			ExternalUserID: userID,
			Date:           date,
			HealthStart:    healthAfter,
		}
	} else if err != nil {
		return err
	}

	if isGood {
		stat.GoodCount++
	} else {
		stat.BadCount++
	}
	stat.XPEarned += xpEarned
	stat.HealthEnd = healthAfter

	return s.Data.UpsertDailyStat(stat)
}

// BumpCategoryStat increments the single counter matching the choice's
// category; all others are untouched.
func (s *StatsService) BumpCategoryStat(userID, category string) error {
	stat, err := s.Data.GetCategoryStats(userID)
	if err != nil {
		return err
	}
	stat.Bump(category)
	return s.Data.SaveCategoryStats(stat)
}
