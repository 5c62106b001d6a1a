package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/birdwatch-labs/rare-bird-finder/internal/events"
)

// ActivityService logs user activity from domain events.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventSearchSaved, a.handleSearchSaved)
	a.dispatcher.Subscribe(events.EventFavoriteAdded, a.handleFavoriteAdded)
}

func (a *ActivityService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (a *ActivityService) handleSearchSaved(ctx context.Context, event events.Event) error {
	a.logger.Info("SearchSaved", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (a *ActivityService) handleFavoriteAdded(ctx context.Context, event events.Event) error {
	a.logger.Info("FavoriteAdded", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}
