package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc, _, dispatcher := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice@Example.com", "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is stored normalized")
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventUserRegistered, published[0].Type)

	// login with any casing of the registered email
	got, err := svc.Authenticate(ctx, "ALICE@EXAMPLE.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "alice2", "password123")
	assert.Equal(t, "DUPLICATE_EMAIL", domainCode(t, err))

	_, err = svc.Register(ctx, "alice2@example.com", "alice", "password123")
	assert.Equal(t, "DUPLICATE_USERNAME", domainCode(t, err))

	// when both collide the email error wins
	_, err = svc.Register(ctx, "alice@example.com", "alice", "password123")
	assert.Equal(t, "DUPLICATE_EMAIL", domainCode(t, err))

	// normalized email collides with differently-cased original
	_, err = svc.Register(ctx, "ALICE@example.com", "alice3", "password123")
	assert.Equal(t, "DUPLICATE_EMAIL", domainCode(t, err))
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice@example.com", "password124")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "password123")

	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, wrongPassword))
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, unknownEmail))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginIssuesUsablePair(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	subject, err := svc.TokenManager().Decode(pair.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	subject, err = svc.TokenManager().Decode(pair.RefreshToken, auth.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestRefreshRotatesPair(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	subject, err := svc.TokenManager().Decode(rotated.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "garbage")
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})

	t.Run("subject no longer active", func(t *testing.T) {
		user, err := users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})

	t.Run("subject deleted", func(t *testing.T) {
		other := newFakeUserRepo()
		orphaned := NewAuthService(testConfig(), AuthDependencies{
			UserRepo:     other,
			SearchRepo:   &fakeSearchRepo{},
			FavoriteRepo: &fakeFavoriteRepo{},
		})
		_, err := orphaned.Refresh(ctx, pair.RefreshToken)
		assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
	})
}

func TestProfileAggregatesActivity(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	searches := &fakeSearchRepo{}
	favorites := &fakeFavoriteRepo{}
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:     users,
		SearchRepo:   searches,
		FavoriteRepo: favorites,
	})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		search := &domain.Search{UserID: user.ID, Lat: 39.7, Lng: -104.9, RadiusKm: 25, BirdCount: i}
		require.NoError(t, searches.Create(ctx, search))
	}
	require.NoError(t, favorites.Create(ctx, &domain.FavoriteBird{UserID: user.ID, SpeciesName: "Snowy Owl"}))

	profile, err := svc.Profile(ctx, user)
	require.NoError(t, err)
	assert.Len(t, profile.RecentSearches, 10, "profile caps recent searches")
	require.Len(t, profile.Favorites, 1)
	assert.Equal(t, "Snowy Owl", profile.Favorites[0].SpeciesName)
}
