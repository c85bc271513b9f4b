package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/vidtube-server/internal/model"
)

var _ model.ChannelStore = (*ChannelRepository)(nil)

type ChannelRepository struct {
	db *Connection
}

func NewChannelRepository(db *Connection) *ChannelRepository {
	return &ChannelRepository{
		db: db,
	}
}

func (r *ChannelRepository) GetChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error) {
	query := `SELECT u.id, u.fullname, u.username, u.email, u.avatar_url, u.cover_image_url,
			  (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id),
			  (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
			  EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
			  FROM users u
			  WHERE u.username = $1`

	var p model.ChannelProfile
	err := r.db.QueryRow(ctx, query, username, viewerID).Scan(
		&p.ID, &p.Fullname, &p.Username, &p.Email, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.SubscribedToCount, &p.IsSubscribed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ChannelProfile{}, model.ErrNotFound
		}
		return model.ChannelProfile{}, fmt.Errorf("failed to get channel profile: %w", err)
	}

	return p, nil
}

// GetWatchHistory expands the user's history array in stored order. Ids
// that no longer resolve to a video are skipped.
func (r *ChannelRepository) GetWatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	query := `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.duration, v.views,
			  v.is_published, v.created_at, v.updated_at, o.fullname, o.username, o.avatar_url
			  FROM users u
			  CROSS JOIN LATERAL unnest(u.watch_history) WITH ORDINALITY AS h(video_id, position)
			  JOIN videos v ON v.id = h.video_id
			  JOIN users o ON o.id = v.owner_id
			  WHERE u.id = $1
			  ORDER BY h.position`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	history := make([]model.WatchedVideo, 0)
	for rows.Next() {
		var v model.WatchedVideo
		err := rows.Scan(
			&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Duration, &v.Views,
			&v.IsPublished, &v.CreatedAt, &v.UpdatedAt, &v.Owner.Fullname, &v.Owner.Username, &v.Owner.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		history = append(history, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return history, nil
}
