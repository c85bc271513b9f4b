//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/vidtube-server/internal/model"
	repo "github.com/dtroode/vidtube-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "vidtube_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/vidtube_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(name string) model.User {
	return model.User{
		ID:           uuid.New(),
		Username:     name,
		Email:        name + "@example.com",
		Fullname:     name + " Example",
		PasswordHash: "$2a$10$hash",
		AvatarURL:    "http://cdn/" + name + ".png",
	}
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	u := newUser("lifecycle")

	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Empty(t, saved.WatchHistory)
	require.Empty(t, saved.RefreshToken)

	_, err = ur.Create(ctx, model.User{ID: uuid.New(), Username: u.Username, Email: "other@example.com", Fullname: "x", PasswordHash: "h", AvatarURL: "a"})
	require.ErrorIs(t, err, model.ErrDuplicate)

	found, err := ur.FindByUsernameOrEmail(ctx, "", u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, found.ID)

	require.NoError(t, ur.SetRefreshToken(ctx, u.ID, "r1"))
	require.NoError(t, ur.SwapRefreshToken(ctx, u.ID, "r1", "r2"))
	require.ErrorIs(t, ur.SwapRefreshToken(ctx, u.ID, "r1", "r3"), model.ErrNotFound)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "r2", byID.RefreshToken)

	require.NoError(t, ur.SetRefreshToken(ctx, u.ID, ""))
	require.ErrorIs(t, ur.SwapRefreshToken(ctx, u.ID, "", "r4"), model.ErrNotFound)

	updated, err := ur.UpdateProfile(ctx, u.ID, model.Profile{Username: "renamed", Email: "renamed@example.com", Fullname: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Username)
	require.Equal(t, byID.PasswordHash, updated.PasswordHash)
}

func TestChannelRepository_Aggregations(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)
	cr := repo.NewChannelRepository(conn)

	channel, err := ur.Create(ctx, newUser("channel"))
	require.NoError(t, err)
	viewer, err := ur.Create(ctx, newUser("viewer"))
	require.NoError(t, err)
	other, err := ur.Create(ctx, newUser("other"))
	require.NoError(t, err)

	for _, edge := range [][2]uuid.UUID{{viewer.ID, channel.ID}, {other.ID, channel.ID}, {channel.ID, other.ID}} {
		_, err := conn.Exec(ctx, `INSERT INTO subscriptions (id, subscriber_id, channel_id) VALUES ($1, $2, $3)`,
			uuid.New(), edge[0], edge[1])
		require.NoError(t, err)
	}

	profile, err := cr.GetChannelProfile(ctx, "channel", viewer.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, profile.SubscribersCount)
	require.EqualValues(t, 1, profile.SubscribedToCount)
	require.True(t, profile.IsSubscribed)

	profile, err = cr.GetChannelProfile(ctx, "channel", channel.ID)
	require.NoError(t, err)
	require.False(t, profile.IsSubscribed)

	_, err = cr.GetChannelProfile(ctx, "nobody", viewer.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	v1, v2 := uuid.New(), uuid.New()
	for i, id := range []uuid.UUID{v1, v2} {
		_, err := conn.Exec(ctx, `INSERT INTO videos (id, owner_id, video_file, thumbnail, title) VALUES ($1, $2, $3, $4, $5)`,
			id, channel.ID, "file", "thumb", fmt.Sprintf("video %d", i))
		require.NoError(t, err)
	}
	_, err = conn.Exec(ctx, `UPDATE users SET watch_history = $2 WHERE id = $1`, viewer.ID, []uuid.UUID{v2, v1})
	require.NoError(t, err)

	history, err := cr.GetWatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, v2, history[0].ID)
	require.Equal(t, v1, history[1].ID)
	require.Equal(t, "channel", history[0].Owner.Username)

	empty, err := cr.GetWatchHistory(ctx, other.ID)
	require.NoError(t, err)
	require.Empty(t, empty)
}
