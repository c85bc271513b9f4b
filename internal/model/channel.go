package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChannelStore runs the read-only aggregation queries over users, videos and
// subscriptions.
type ChannelStore interface {
	// GetChannelProfile looks a channel up by normalized username and computes
	// its subscription counters relative to viewerID.
	GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (ChannelProfile, error)
	// GetWatchHistory resolves the user's watch history in stored order.
	GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]WatchedVideo, error)
}

// Subscription is a directed edge from a subscriber to a channel.
type Subscription struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
	CreatedAt    time.Time
}

// ChannelProfile is the public projection of a channel page.
type ChannelProfile struct {
	ID                uuid.UUID `json:"_id"`
	Fullname          string    `json:"fullname"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	SubscribersCount  int64     `json:"subscribersCount"`
	SubscribedToCount int64     `json:"subscribedToCount"`
	IsSubscribed      bool      `json:"isSubscribed"`
	Avatar            string    `json:"avatar"`
	CoverImage        string    `json:"coverImage"`
}

// VideoOwner is the trimmed owner projection embedded in watch history items.
type VideoOwner struct {
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// WatchedVideo is a watch history entry with its owner resolved.
type WatchedVideo struct {
	ID          uuid.UUID  `json:"_id"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	IsPublished bool       `json:"isPublished"`
	Owner       VideoOwner `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
