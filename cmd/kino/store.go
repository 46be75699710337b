package main

import (
	"github.com/ccbrown/keyvaluestore/memorystore"
	"github.com/ccbrown/keyvaluestore/redisstore"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"

	"github.com/ahror172/kino/internal/config"
	"github.com/ahror172/kino/internal/store"
	"github.com/ahror172/kino/internal/store/filestore"
	"github.com/ahror172/kino/internal/store/kvstore"
	"github.com/ahror172/kino/internal/store/postgres"
	"github.com/ahror172/kino/internal/store/sqlite"
)

func openStore(c config.StorageConfig) (store.Store, error) {
	switch c.Driver {
	case config.DriverFile:
		return filestore.New(c.Dir)
	case config.DriverSQLite:
		return sqlite.Open(c.SQLitePath)
	case config.DriverPostgres:
		return postgres.New(c.PostgresURL)
	case config.DriverMemory:
		return kvstore.New(memorystore.NewBackend()), nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping().Err(); err != nil {
			client.Close()
			return nil, errors.Wrapf(err, "redis %s", c.RedisAddr)
		}
		return kvstore.New(&redisstore.Backend{Client: client}), nil
	}
	return nil, errors.Errorf("unknown storage driver %q", c.Driver)
}
