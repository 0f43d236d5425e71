package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/carson-networks/wallet-server/internal/config"
	"github.com/carson-networks/wallet-server/internal/storage/kvstore"
	"github.com/carson-networks/wallet-server/internal/storage/memory"
	"github.com/carson-networks/wallet-server/internal/storage/sqlconfig"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// Storage bundles the persistent ledger table with whatever connection backs it.
type Storage struct {
	DB           *sql.DB
	Redis        *redis.Client
	Transactions transaction.ITransactionTable
}

// NewStorage opens the configured backend. SQL backends are migrated before use.
func NewStorage(env *config.Config, logger logrus.FieldLogger) (*Storage, error) {
	switch env.StorageBackend {
	case config.StorageBackendPostgres:
		return openSQL(env.StorageBackend, "postgres", env.PostgresConnectionString(), logger)
	case config.StorageBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(env.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		return openSQL(env.StorageBackend, "sqlite", env.SQLitePath, logger)
	case config.StorageBackendRedis:
		return openRedis(env, logger)
	case config.StorageBackendMemory, "":
		logger.Warn("Storage.NewStorage.memory backend, ledger is lost on restart")
		return &Storage{Transactions: memory.NewTransactionsTable()}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", env.StorageBackend)
	}
}

func openSQL(backend config.StorageBackend, driverName, dsn string, logger logrus.FieldLogger) (*Storage, error) {
	preVersion, postVersion, err := RunMigrations(backend, dsn)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"backend":              backend,
		"preMigrationVersion":  preVersion,
		"postMigrationVersion": postVersion,
	}).Info("Storage.NewStorage.migrated")

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	s := &Storage{DB: db}
	if backend == config.StorageBackendSQLite {
		// A single connection keeps sqlite writes from contending on the file lock.
		db.SetMaxOpenConns(1)
		s.Transactions = sqlconfig.NewSQLiteTransactionsTable(db)
	} else {
		s.Transactions = sqlconfig.NewTransactionsTable(db)
	}
	return s, nil
}

func openRedis(env *config.Config, logger logrus.FieldLogger) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddress,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", env.RedisAddress, err)
	}
	logger.WithField("address", env.RedisAddress).Info("Storage.NewStorage.redis connected")

	return &Storage{
		Redis:        client,
		Transactions: kvstore.NewTransactionsTable(client),
	}, nil
}

func (s *Storage) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
