package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/config"
	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
	"github.com/birdwatch-labs/rare-bird-finder/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			RefreshTokenTTLDays:   7,
			BcryptCost:            4,
		},
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeSearchRepo struct {
	mu       sync.Mutex
	searches []*domain.Search
}

func (r *fakeSearchRepo) Create(ctx context.Context, search *domain.Search) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	search.ID = uuid.NewString()
	search.SearchedAt = time.Now()
	r.searches = append(r.searches, search)
	return nil
}

func (r *fakeSearchRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Search, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Search
	for i := len(r.searches) - 1; i >= 0 && len(out) < limit; i-- {
		if r.searches[i].UserID == userID {
			out = append(out, r.searches[i])
		}
	}
	return out, nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites []*domain.FavoriteBird
}

func (r *fakeFavoriteRepo) Create(ctx context.Context, favorite *domain.FavoriteBird) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	favorite.ID = uuid.NewString()
	favorite.AddedAt = time.Now()
	r.favorites = append(r.favorites, favorite)
	return nil
}

func (r *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteBird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.FavoriteBird
	for _, favorite := range r.favorites {
		if favorite.UserID == userID {
			out = append(out, favorite)
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) GetBySpeciesName(ctx context.Context, userID, speciesName string) (*domain.FavoriteBird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, favorite := range r.favorites {
		if favorite.UserID == userID && favorite.SpeciesName == speciesName {
			return favorite, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeFavoriteRepo) GetBySpeciesCode(ctx context.Context, userID, speciesCode string) (*domain.FavoriteBird, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, favorite := range r.favorites {
		if favorite.UserID == userID && favorite.SpeciesCode == speciesCode {
			return favorite, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeFavoriteRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, favorite := range r.favorites {
		if favorite.UserID == userID && favorite.ID == id {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeLocationRepo struct {
	mu        sync.Mutex
	locations []*domain.SavedLocation
}

func (r *fakeLocationRepo) Create(ctx context.Context, location *domain.SavedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	location.ID = uuid.NewString()
	location.CreatedAt = time.Now()
	r.locations = append(r.locations, location)
	return nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, location *domain.SavedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.locations {
		if existing.UserID == location.UserID && existing.ID == location.ID {
			r.locations[i] = location
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, userID, id string) (*domain.SavedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, location := range r.locations {
		if location.UserID == userID && location.ID == id {
			return location, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLocationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.SavedLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SavedLocation
	for _, location := range r.locations {
		if location.UserID == userID {
			out = append(out, location)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) ClearDefault(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, location := range r.locations {
		if location.UserID == userID {
			location.IsDefault = false
		}
	}
	return nil
}

func (r *fakeLocationRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, location := range r.locations {
		if location.UserID == userID && location.ID == id {
			r.locations = append(r.locations[:i], r.locations[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *capturingDispatcher) {
	users := newFakeUserRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:     users,
		SearchRepo:   &fakeSearchRepo{},
		FavoriteRepo: &fakeFavoriteRepo{},
		Dispatcher:   dispatcher,
		Logger:       zap.NewNop(),
	})
	return svc, users, dispatcher
}
