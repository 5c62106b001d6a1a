package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/auth"
	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

const recentSearchLimit = 10

// TokenPair carries the two tokens issued at login and refresh time.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile aggregates a user with their recent activity for /auth/me.
type Profile struct {
	User           *domain.User
	RecentSearches []*domain.Search
	Favorites      []*domain.FavoriteBird
}

// AuthService coordinates registration, login, refresh and profile flows.
type AuthService struct {
	users      repository.UserRepository
	searches   repository.SearchRepository
	favorites  repository.FavoriteRepository
	hasher     *auth.PasswordHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	SearchRepo   repository.SearchRepository
	FavoriteRepo repository.FavoriteRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		searches:   deps.SearchRepo,
		favorites:  deps.FavoriteRepo,
		hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost, deps.Logger),
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// NormalizeEmail lowercases an email so lookups match the uniqueness check
// applied at registration. Token subjects always carry the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account. Email uniqueness is checked before
// username so a request colliding on both reports the email first; the
// database constraints remain the guard against concurrent registrations.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewDuplicateUsername()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperrors.NewDuplicateEmail()
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, apperrors.NewDuplicateUsername()
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, map[string]any{"username": user.Username})
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.NewInvalidCredentials()
	}
	return user, nil
}

// Login authenticates and issues an access/refresh token pair bound to the
// user's normalized email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user.Email)
}

// Refresh rotates a token pair. The subject is re-resolved so a user deleted
// or deactivated after issuance cannot mint new access tokens; both cases
// surface as the same invalid-token failure.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := s.tokenMgr.Decode(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.NewInvalidToken()
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewInvalidToken()
	}

	return s.issuePair(user.Email)
}

// Profile loads the user's recent searches and favorites.
func (s *AuthService) Profile(ctx context.Context, user *domain.User) (*Profile, error) {
	searches, err := s.searches.ListByUser(ctx, user.ID, recentSearchLimit)
	if err != nil {
		return nil, err
	}
	favorites, err := s.favorites.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, RecentSearches: searches, Favorites: favorites}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issuePair(subject string) (*TokenPair, error) {
	access, err := s.tokenMgr.Generate(subject, auth.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokenMgr.Generate(subject, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: time.Now(),
	})
}
