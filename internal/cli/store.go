package cli

import (
	"fmt"
	"path/filepath"

	"github.com/aretw0/nfalab/internal/adapters/file"
	"github.com/aretw0/nfalab/internal/config"
	"github.com/aretw0/nfalab/pkg/adapters/memory"
	"github.com/aretw0/nfalab/pkg/adapters/redis"
	"github.com/aretw0/nfalab/pkg/persistence/middleware"
	"github.com/aretw0/nfalab/pkg/ports"
	"github.com/aretw0/nfalab/pkg/session"
)

// Persistence is the session stack selected by the configuration.
type Persistence struct {
	Store   ports.SessionStore
	Manager *session.Manager
	Service *session.Service
	close   func() error
}

// Close releases the backend connection, if any.
func (p *Persistence) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// OpenPersistence initializes the session store, manager and service.
// Relative file store paths are resolved against the app directory.
// The redis backend also provides the distributed session lock.
func OpenPersistence(app *App) (*Persistence, error) {
	cfg := app.Config
	managerOpts := []session.Option{
		session.WithLogger(app.Logger),
		session.WithLockTTL(cfg.Session.LockTTL),
	}

	p := &Persistence{}
	switch cfg.Store.Kind {
	case config.StoreMemory:
		p.Store = memory.NewStore()
	case config.StoreFile:
		path := cfg.Store.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(app.Dir, path)
		}
		p.Store = file.New(path)
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		p.Store = store
		p.close = store.Close
		managerOpts = append(managerOpts, session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())))
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	if cfg.Store.EncryptionKey != "" {
		mw, err := encryptionMiddleware(cfg.Store)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.Store = middleware.Chain(p.Store, mw)
	}

	app.Logger.Debug("session store ready", "kind", cfg.Store.Kind, "encrypted", cfg.Store.EncryptionKey != "")
	p.Manager = session.NewManager(p.Store, managerOpts...)
	p.Service = session.NewService(app.Engine, p.Manager, session.WithServiceLogger(app.Logger))
	return p, nil
}

func encryptionMiddleware(cfg config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(enc)
}
