// Package poker assembles a planning-poker client context from
// configuration: logger, storage adapter, session store, and the room
// service on top of them. Each Client is one independent view of the
// shared room collection with its own session identity.
package poker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scrumprime/poker/internal/core/ports"
	"github.com/scrumprime/poker/internal/core/service"
	"github.com/scrumprime/poker/internal/infrastructure/config"
	boltdb "github.com/scrumprime/poker/internal/infrastructure/db/bolt"
	memorydb "github.com/scrumprime/poker/internal/infrastructure/db/memory"
	mongodb "github.com/scrumprime/poker/internal/infrastructure/db/mongo"
	redisdb "github.com/scrumprime/poker/internal/infrastructure/db/redis"
	"github.com/scrumprime/poker/internal/infrastructure/session"
	"github.com/scrumprime/poker/pkg/logger"
)

// Client is one started client context.
type Client struct {
	// Rooms is the use-case surface: create, join, vote, reveal, and the
	// rest of the room operations.
	Rooms ports.RoomService

	closers []func() error
}

// New builds and starts a client context against the backend selected in
// cfg. The returned Client must be closed when done.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	repo, closers, err := openRepository(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc := service.NewRoomService(repo, session.NewStore(), cfg.BaseURL, log)
	if err := svc.Start(ctx); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("starting room service: %w", err)
	}

	return &Client{Rooms: svc, closers: closers}, nil
}

// Close releases the storage resources behind the client.
func (c *Client) Close() error {
	return closeAll(c.closers)
}

func openRepository(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.RoomRepository, []func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memorydb.NewSlot().Open(log), nil, nil

	case config.BackendBolt:
		slot, err := boltdb.Open(cfg.Bolt.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return slot, []func() error{slot.Close}, nil

	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return redisdb.NewRoomSlot(client, log), []func() error{client.Close}, nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() error { return client.Disconnect(context.Background()) }
		return mongodb.NewRoomSlot(db, log), []func() error{disconnect}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func closeAll(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
