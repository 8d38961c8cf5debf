package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"volrank/internal/application/port"
	"volrank/internal/infrastructure/config"
	"volrank/internal/infrastructure/exchange/binance"
	"volrank/internal/infrastructure/storage/composite"
	pgrepo "volrank/internal/infrastructure/storage/postgres"
	redisrepo "volrank/internal/infrastructure/storage/redis"
	sqliterepo "volrank/internal/infrastructure/storage/sqlite"
)

// Container holds every infrastructure dependency of one run.
type Container struct {
	cfg         *config.Config
	market      *binance.MarketDataClient
	redisRepo   *redisrepo.Repo
	sqliteRepo  *sqliterepo.Repo
	pgRepo      *pgrepo.Repo
	scans       *composite.Repo
	closeOnce   sync.Once
	closerChain []func() error
}

// New wires the market-data client and opens the enabled stores. Nothing here
// talks to the exchange.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		cfg: cfg,
		market: binance.NewMarketDataClient(
			cfg.Exchange.Binance.RestURL,
			time.Duration(cfg.Exchange.Binance.TimeoutSec)*time.Second,
		),
		closerChain: make([]func() error, 0),
	}

	if cfg.Storage.Enabled {
		if err := c.initStorage(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.scans = composite.New(c.repos()...)
	return c, nil
}

func (c *Container) initStorage() error {
	if c.cfg.Storage.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
	}

	if c.cfg.Storage.SQLite.Enabled {
		if err := c.initSQLite(); err != nil {
			return fmt.Errorf("sqlite init failed: %w", err)
		}
	}

	if c.cfg.Storage.Postgres.Enabled {
		if err := c.initPostgres(); err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
	}

	return nil
}

func (c *Container) initRedis() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Storage.Redis.Addr,
		Password: c.cfg.Storage.Redis.Password,
		DB:       c.cfg.Storage.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(c.cfg.Storage.Redis.TTLSeconds) * time.Second

	c.redisRepo = redisrepo.New(
		rdb,
		c.cfg.Storage.Redis.Prefix,
		ttl,
		c.cfg.Storage.Redis.Stream,
		c.cfg.Storage.Redis.Channel,
	)

	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", c.cfg.Storage.Redis.Addr).
		Int("db", c.cfg.Storage.Redis.DB).
		Msg("redis initialized")

	return nil
}

func (c *Container) initSQLite() error {
	repo, err := sqliterepo.New(c.cfg.Storage.SQLite.Path)
	if err != nil {
		return err
	}

	c.sqliteRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().
		Str("path", c.cfg.Storage.SQLite.Path).
		Msg("sqlite initialized")

	return nil
}

func (c *Container) initPostgres() error {
	repo, err := pgrepo.New(c.cfg.Storage.Postgres.DSN)
	if err != nil {
		return err
	}

	c.pgRepo = repo

	c.closerChain = append(c.closerChain, func() error {
		log.Debug().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("postgres initialized")
	return nil
}

// repos avoids handing typed nil pointers to the composite.
func (c *Container) repos() []port.ScanRepository {
	var out []port.ScanRepository
	if c.redisRepo != nil {
		out = append(out, c.redisRepo)
	}
	if c.sqliteRepo != nil {
		out = append(out, c.sqliteRepo)
	}
	if c.pgRepo != nil {
		out = append(out, c.pgRepo)
	}
	return out
}

// MarketData returns the Binance public market-data client.
func (c *Container) MarketData() port.MarketData {
	return c.market
}

// ScanRepository fans out to every enabled store. Its lifetime belongs to the
// container; callers must not Close it.
func (c *Container) ScanRepository() port.ScanRepository {
	return c.scans
}

// StoreCount is the number of enabled stores.
func (c *Container) StoreCount() int {
	return c.scans.Len()
}

// SQLiteRepo returns the SQLite store, nil when disabled.
func (c *Container) SQLiteRepo() *sqliterepo.Repo {
	return c.sqliteRepo
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		for i := len(c.closerChain) - 1; i >= 0; i-- {
			if e := c.closerChain[i](); e != nil {
				log.Error().Err(e).Msg("error closing resource")
				if err == nil {
					err = e
				}
			}
		}
	})
	return err
}
