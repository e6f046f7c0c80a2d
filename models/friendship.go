package models

// Friendship statuses
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a directed request from ExternalUserID to FriendID; the pair
// is unique so a request cannot be duplicated.
type Friendship struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_friend_pair;not null" json:"external_user_id"`
	FriendID       string `gorm:"uniqueIndex:idx_friend_pair;not null" json:"friend_id"`
	Status         string `gorm:"type:varchar(16);default:'pending'" json:"status"`

	Timestamps
}
