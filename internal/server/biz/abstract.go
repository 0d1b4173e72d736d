package biz

import (
	"context"
	"errors"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/server/db"
)

type AbstractService struct {
	store *db.Store
	bus   eventbus.Publisher
}

// publishChanged announces that the resources named by keys changed.
func (a *AbstractService) publishChanged(ctx context.Context, keys ...string) {
	if a.bus == nil {
		return
	}

	for _, key := range keys {
		log.Debug(ctx, "publishing data change", log.String("key", key))
		a.bus.Publish(ctx, eventbus.Changed(key))
	}
}

// mapNotFound replaces a store miss with the business sentinel.
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, db.ErrNotFound) {
		return sentinel
	}

	return err
}
