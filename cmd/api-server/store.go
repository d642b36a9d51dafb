package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"coderhack/internal/domain"
	"coderhack/internal/infrastructure/repository/guarded"
	"coderhack/internal/infrastructure/repository/memrepo"
	"coderhack/internal/infrastructure/repository/mongorepo"
	"coderhack/internal/infrastructure/repository/redisrepo"
	"coderhack/internal/infrastructure/repository/sqlrepo"
)

// openStore builds the configured record store. The returned close func
// releases its connections and is never nil.
func openStore(ctx context.Context, cfg appConfig, log logrus.FieldLogger) (domain.UserRepository, func(), error) {
	repo, closeFn, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("backend", cfg.StoreBackend).Info("record store ready")

	if cfg.StoreBreaker && cfg.StoreBackend != "memory" {
		repo = guarded.New(repo, cfg.StoreBackend, log)
	}
	return repo, closeFn, nil
}

func openBackend(ctx context.Context, cfg appConfig, log logrus.FieldLogger) (domain.UserRepository, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		return memrepo.New(), func() {}, nil

	case "mongo":
		client, err := mongorepo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := mongorepo.New(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Warn("could not create mongo indexes")
		}
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("mongo disconnect")
			}
		}, nil

	case "redis":
		rdb, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisDB, log)
		if err != nil {
			return nil, nil, err
		}
		return redisrepo.New(rdb), func() { _ = rdb.Close() }, nil

	case "postgres", "mysql":
		db, err := sqlrepo.Open(cfg.StoreBackend, cfg.SQLDSN)
		if err != nil {
			return nil, nil, err
		}
		repo := sqlrepo.New(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	}
	return nil, nil, errors.Errorf("unknown store backend %q", cfg.StoreBackend)
}
