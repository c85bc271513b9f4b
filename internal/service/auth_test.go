package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	servermocks "github.com/dtroode/vidtube-server/internal/mocks"
	"github.com/dtroode/vidtube-server/internal/model"
	"github.com/dtroode/vidtube-server/internal/password"
	"github.com/dtroode/vidtube-server/internal/testutil"
	"github.com/dtroode/vidtube-server/internal/token"
)

type authFixture struct {
	auth    *Auth
	users   *servermocks.UserStore
	manager *servermocks.TokenManager
	blobs   *servermocks.BlobStore
	hasher  *password.Bcrypt
}

func newAuthFixture() authFixture {
	f := authFixture{
		users:   &servermocks.UserStore{},
		manager: &servermocks.TokenManager{},
		blobs:   &servermocks.BlobStore{},
		hasher:  password.NewBcrypt(bcrypt.MinCost),
	}
	log := testutil.MakeNoopLogger()
	f.auth = NewAuth(
		f.users,
		NewCredentials(f.users, f.hasher),
		NewTokenService(f.manager, f.users, log),
		f.blobs,
		log,
	)
	return f
}

func (f authFixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.manager.AssertExpectations(t)
	f.blobs.AssertExpectations(t)
}

func validRegistration() model.Registration {
	return model.Registration{
		Profile:    model.Profile{Username: " Ana ", Email: "A@X.com", Fullname: " Ana "},
		Password:   "pw123",
		AvatarPath: "/tmp/avatar.png",
	}
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	reg := validRegistration()
	reg.CoverImagePath = "/tmp/cover.png"

	var created model.User
	f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
	f.blobs.On("Upload", mock.Anything, "/tmp/avatar.png").Return("http://cdn/avatar.png", nil).Once()
	f.blobs.On("Upload", mock.Anything, "/tmp/cover.png").Return("http://cdn/cover.png", nil).Once()
	f.users.On("Create", mock.Anything, mock.AnythingOfType("model.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(model.User) }).
		Return(model.User{ID: uuid.UUID{1}}, nil).Once()
	f.users.On("GetByID", mock.Anything, uuid.UUID{1}).
		Return(model.User{
			ID:            uuid.UUID{1},
			Username:      "ana",
			Email:         "a@x.com",
			Fullname:      "Ana",
			PasswordHash:  "secret-hash",
			AvatarURL:     "http://cdn/avatar.png",
			CoverImageURL: "http://cdn/cover.png",
			RefreshToken:  "secret-refresh",
		}, nil).Once()

	pu, err := f.auth.Register(ctx, reg)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, "Ana", created.Fullname)
	assert.NotEqual(t, "pw123", created.PasswordHash)
	assert.True(t, f.hasher.Verify("pw123", created.PasswordHash))
	assert.Equal(t, "http://cdn/avatar.png", created.AvatarURL)
	assert.Equal(t, "http://cdn/cover.png", created.CoverImageURL)

	assert.Equal(t, "ana", pu.Username)
	assert.Equal(t, "http://cdn/avatar.png", pu.Avatar)
	assert.Equal(t, "http://cdn/cover.png", pu.CoverImage)
	assert.NotNil(t, pu.WatchHistory)
	f.assertExpectations(t)
}

func TestAuth_Register_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		mutate   func(r *model.Registration)
		setup    func(f authFixture)
		wantKind error
		status   int
	}{
		{
			name:     "blank username",
			mutate:   func(r *model.Registration) { r.Username = "   " },
			setup:    func(authFixture) {},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:     "blank password",
			mutate:   func(r *model.Registration) { r.Password = "" },
			setup:    func(authFixture) {},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:   "username taken",
			mutate: func(*model.Registration) {},
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{ID: uuid.New()}, nil).Once()
			},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:   "avatar missing",
			mutate: func(r *model.Registration) { r.AvatarPath = "" },
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
			},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:   "avatar upload fails",
			mutate: func(*model.Registration) {},
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/avatar.png").Return("", errors.New("provider down")).Once()
			},
			wantKind: model.ErrUpload,
			status:   http.StatusInternalServerError,
		},
		{
			name:   "cover upload fails and avatar is discarded",
			mutate: func(r *model.Registration) { r.CoverImagePath = "/tmp/cover.png" },
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/avatar.png").Return("http://cdn/avatar.png", nil).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/cover.png").Return("", errors.New("provider down")).Once()
				f.blobs.On("Delete", mock.Anything, "http://cdn/avatar.png").Return(nil).Once()
			},
			wantKind: model.ErrUpload,
			status:   http.StatusInternalServerError,
		},
		{
			name:   "create race loses and blobs are discarded",
			mutate: func(r *model.Registration) { r.CoverImagePath = "/tmp/cover.png" },
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/avatar.png").Return("http://cdn/avatar.png", nil).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/cover.png").Return("http://cdn/cover.png", nil).Once()
				f.users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrDuplicate).Once()
				f.blobs.On("Delete", mock.Anything, "http://cdn/avatar.png").Return(nil).Once()
				f.blobs.On("Delete", mock.Anything, "http://cdn/cover.png").Return(errors.New("ignored")).Once()
			},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name:   "created user cannot be re-read",
			mutate: func(*model.Registration) {},
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "a@x.com").Return(model.User{}, model.ErrNotFound).Once()
				f.blobs.On("Upload", mock.Anything, "/tmp/avatar.png").Return("http://cdn/avatar.png", nil).Once()
				f.users.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: uuid.New()}, nil).Once()
				f.users.On("GetByID", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound).Once()
			},
			wantKind: model.ErrInternal,
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)
			reg := validRegistration()
			tt.mutate(&reg)

			_, err := f.auth.Register(ctx, reg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var apiErr *model.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			f.assertExpectations(t)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)
	user := model.User{ID: uuid.New(), Username: "ana", Email: "a@x.com", PasswordHash: hash, RefreshToken: "old"}

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "").Return(user, nil).Once()
		f.manager.On("GenerateAccessToken", user).Return("access", nil).Once()
		f.manager.On("GenerateRefreshToken", user.ID).Return("refresh", nil).Once()
		f.users.On("SetRefreshToken", mock.Anything, user.ID, "refresh").Return(nil).Once()

		session, err := f.auth.Login(ctx, model.LoginRequest{Username: "ANA", Password: "pw123"})
		require.NoError(t, err)
		assert.Equal(t, "access", session.AccessToken)
		assert.Equal(t, "refresh", session.RefreshToken)
		assert.Equal(t, user.ID, session.User.ID)
		f.assertExpectations(t)
	})

	tests := []struct {
		name     string
		req      model.LoginRequest
		setup    func(f authFixture)
		wantKind error
		status   int
	}{
		{
			name:     "no identifier",
			req:      model.LoginRequest{Password: "pw123"},
			setup:    func(authFixture) {},
			wantKind: model.ErrValidation,
			status:   http.StatusBadRequest,
		},
		{
			name: "unknown user",
			req:  model.LoginRequest{Email: "nobody@x.com", Password: "pw123"},
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "", "nobody@x.com").Return(model.User{}, model.ErrNotFound).Once()
			},
			wantKind: model.ErrNotFound,
			status:   http.StatusBadRequest,
		},
		{
			name: "wrong password",
			req:  model.LoginRequest{Username: "ana", Password: "wrong"},
			setup: func(f authFixture) {
				f.users.On("FindByUsernameOrEmail", mock.Anything, "ana", "").Return(user, nil).Once()
			},
			wantKind: model.ErrAuth,
			status:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setup(f)

			_, err := f.auth.Login(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			var apiErr *model.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			f.users.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
			f.assertExpectations(t)
		})
	}
}

func TestAuth_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	id := uuid.New()
	f.users.On("SetRefreshToken", mock.Anything, id, "").Return(nil).Twice()

	require.NoError(t, f.auth.Logout(ctx, id))
	require.NoError(t, f.auth.Logout(ctx, id))
	f.assertExpectations(t)
}

func TestAuth_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hasher := password.NewBcrypt(bcrypt.MinCost)
	hash, err := hasher.Hash("old-pw")
	require.NoError(t, err)
	user := model.User{ID: uuid.New(), Username: "ana", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		var newHash string
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.users.On("UpdatePasswordHash", mock.Anything, user.ID, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { newHash = args.String(2) }).
			Return(user, nil).Once()

		_, err := f.auth.ChangePassword(ctx, user.ID, "old-pw", "new-pw")
		require.NoError(t, err)
		assert.True(t, hasher.Verify("new-pw", newHash))
		assert.False(t, hasher.Verify("old-pw", newHash))
		f.assertExpectations(t)
	})

	t.Run("missing new password", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.auth.ChangePassword(ctx, user.ID, "old-pw", "")
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("wrong old password", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

		_, err := f.auth.ChangePassword(ctx, user.ID, "nope", "new-pw")
		assert.ErrorIs(t, err, model.ErrAuth)
		f.users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	user := model.User{ID: uuid.New(), Username: "ana", PasswordHash: "h", RefreshToken: "r"}

	t.Run("resolves user", func(t *testing.T) {
		f := newAuthFixture()
		f.manager.On("ParseAccessToken", "tok").Return(model.AccessClaims{UserID: user.ID}, nil).Once()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

		pu, err := f.auth.Authenticate(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, user.Public(), pu)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthFixture()
		f.manager.On("ParseAccessToken", "tok").Return(model.AccessClaims{UserID: user.ID}, nil).Once()
		f.users.On("GetByID", mock.Anything, user.ID).Return(model.User{}, model.ErrNotFound).Once()

		_, err := f.auth.Authenticate(ctx, "tok")
		assert.ErrorIs(t, err, model.ErrAuth)
	})

	t.Run("no token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.auth.Authenticate(ctx, "")
		assert.ErrorIs(t, err, model.ErrAuth)
	})
}

// newSessionAuth wires Auth against an in-memory store with real hashing and
// signing so whole session lifecycles can be exercised.
func newSessionAuth(t *testing.T) (*Auth, *memUserStore, *servermocks.BlobStore) {
	t.Helper()
	users := newMemUserStore()
	blobs := &servermocks.BlobStore{}
	blobs.On("Upload", mock.Anything, mock.Anything).Return("http://cdn/avatar.png", nil)
	log := testutil.MakeNoopLogger()
	jwt := token.NewJWT(
		token.Key{Secret: "access-secret", TTL: time.Hour},
		token.Key{Secret: "refresh-secret", TTL: 24 * time.Hour},
	)
	auth := NewAuth(
		users,
		NewCredentials(users, password.NewBcrypt(bcrypt.MinCost)),
		NewTokenService(jwt, users, log),
		blobs,
		log,
	)
	return auth, users, blobs
}

func TestAuth_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	auth, users, _ := newSessionAuth(t)

	pu, err := auth.Register(ctx, model.Registration{
		Profile:    model.Profile{Username: "ana", Email: "a@x.com", Fullname: "Ana"},
		Password:   "pw123",
		AvatarPath: "/tmp/a.png",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(ctx, pu.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)

	_, err = auth.Register(ctx, model.Registration{
		Profile:    model.Profile{Username: "other", Email: "A@x.com", Fullname: "Other"},
		Password:   "pw",
		AvatarPath: "/tmp/b.png",
	})
	assert.ErrorIs(t, err, model.ErrValidation)

	session, err := auth.Login(ctx, model.LoginRequest{Username: "ana", Password: "pw123"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, model.LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrAuth)

	first, err := auth.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, first.RefreshToken)

	_, err = auth.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, model.ErrExpiredToken)

	second, err := auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, pu.ID))
	require.NoError(t, auth.Logout(ctx, pu.ID))

	_, err = auth.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, model.ErrExpiredToken)

	current, err := auth.Authenticate(ctx, second.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pu.ID, current.ID)
}

func TestAuth_ConcurrentRefreshSingleWinner(t *testing.T) {
	ctx := context.Background()
	auth, _, _ := newSessionAuth(t)

	_, err := auth.Register(ctx, model.Registration{
		Profile:    model.Profile{Username: "ana", Email: "a@x.com", Fullname: "Ana"},
		Password:   "pw123",
		AvatarPath: "/tmp/a.png",
	})
	require.NoError(t, err)
	session, err := auth.Login(ctx, model.LoginRequest{Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		expired int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := auth.Refresh(ctx, session.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, model.ErrExpiredToken):
				expired++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, expired)
}
