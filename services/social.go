package services

import (
	"errors"
	"strings"

	"eco-garden-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSelfFriendship      = errors.New("cannot friend yourself")
	ErrFriendshipNotFound  = errors.New("friendship not found")
	ErrNotRequestRecipient = errors.New("only the recipient can accept a request")
)

// SocialService covers the leaderboard and the friends layer.
type SocialService struct {
	DB *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{DB: db}
}

// LeaderboardEntry is the public slice of a profile shown on the board.
type LeaderboardEntry struct {
	ExternalUserID string  `json:"external_user_id"`
	Username       string  `json:"username"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Health         int     `json:"health"`
	Level          int     `json:"level"`
	GoodChoices    int64   `json:"good_choices"`
	BadChoices     int64   `json:"bad_choices"`
	PlantStage     string  `json:"plant_stage"`
}

// GetLeaderboard ranks by health, then level.
func (s *SocialService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []LeaderboardEntry
	err := s.DB.Model(&models.Profile{}).
		Select("external_user_id, username, avatar_url, health, level, good_choices, bad_choices, plant_stage").
		Order("health DESC").
		Order("level DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// SearchUsers matches usernames by case-insensitive substring.
func (s *SocialService) SearchUsers(query string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	term := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var entries []LeaderboardEntry
	err := s.DB.Model(&models.Profile{}).
		Select("external_user_id, username, avatar_url, health, level, good_choices, bad_choices, plant_stage").
		Where("LOWER(username) LIKE ?", term).
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// FriendView pairs the friendship row with the friend's public profile.
type FriendView struct {
	FriendshipID string           `json:"friendship_id"`
	Status       string           `json:"status"`
	Friend       LeaderboardEntry `json:"friend"`
}

// GetFriends lists accepted friendships with the friend's profile joined in.
func (s *SocialService) GetFriends(userID string) ([]FriendView, error) {
	var friendships []models.Friendship
	if err := s.DB.Where("external_user_id = ? AND status = ?", userID, models.FriendshipAccepted).
		Find(&friendships).Error; err != nil {
		return nil, err
	}

	views := make([]FriendView, 0, len(friendships))
	for _, f := range friendships {
		var friend LeaderboardEntry
		err := s.DB.Model(&models.Profile{}).
			Select("external_user_id, username, avatar_url, health, level, good_choices, bad_choices, plant_stage").
			Where("external_user_id = ?", f.FriendID).
			Scan(&friend).Error
		if err != nil {
			return nil, err
		}
		views = append(views, FriendView{FriendshipID: f.ID, Status: f.Status, Friend: friend})
	}
	return views, nil
}

// SendFriendRequest creates a pending friendship. The (user, friend) pair is
// unique, so re-sending is rejected by the constraint.
func (s *SocialService) SendFriendRequest(userID, friendID string) (*models.Friendship, error) {
	if userID == friendID {
		return nil, ErrSelfFriendship
	}
	f := models.Friendship{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		FriendID:       friendID,
		Status:         models.FriendshipPending,
	}
	if err := s.DB.Create(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// AcceptFriendRequest flips a pending request to accepted and mirrors the
// reverse edge so both sides see each other in their friends list.
func (s *SocialService) AcceptFriendRequest(userID, friendshipID string) (*models.Friendship, error) {
	var f models.Friendship
	if err := s.DB.Where("id = ?", friendshipID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendshipNotFound
		}
		return nil, err
	}
	if f.FriendID != userID {
		return nil, ErrNotRequestRecipient
	}

	f.Status = models.FriendshipAccepted
	if err := s.DB.Save(&f).Error; err != nil {
		return nil, err
	}

	reverse := models.Friendship{
		ID:             uuid.NewString(),
		ExternalUserID: f.FriendID,
		FriendID:       f.ExternalUserID,
		Status:         models.FriendshipAccepted,
	}
	if err := s.DB.Where("external_user_id = ? AND friend_id = ?", reverse.ExternalUserID, reverse.FriendID).
		FirstOrCreate(&reverse).Error; err != nil {
		return nil, err
	}
	if reverse.Status != models.FriendshipAccepted {
		reverse.Status = models.FriendshipAccepted
		if err := s.DB.Save(&reverse).Error; err != nil {
			return nil, err
		}
	}
	return &f, nil
}
