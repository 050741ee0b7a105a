// Package source opens the configured threshold record source.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/audiogram/internal/cache"
	"github.com/RMahshie/audiogram/internal/config"
	"github.com/RMahshie/audiogram/internal/metrics"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/internal/repository/postgres"
	"github.com/RMahshie/audiogram/internal/repository/s3source"
	"github.com/RMahshie/audiogram/internal/storage"
)

// Source is an opened record source with the connections behind it.
// DB is nil for the S3 source and Redis is nil when caching is off.
type Source struct {
	Records repository.ThresholdRepository
	DB      *sql.DB
	Redis   *redis.Client
}

// Open connects to the record store selected by cfg and wraps it with the
// Redis cache when one is configured.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Source, error) {
	src := &Source{}

	switch cfg.Records.Source {
	case config.SourceS3:
		s3Service, err := storage.NewS3Service(storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 service: %w", err)
		}
		src.Records = s3source.NewS3ThresholdRepository(s3Service, cfg.Records.S3Prefix)
	default:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		src.DB = db
		src.Records = postgres.NewPostgresThresholdRepository(db)
	}

	if cfg.Cache.RedisURL != "" {
		client, err := cache.NewClient(ctx, cache.ClientConfig{URL: cfg.Cache.RedisURL})
		if err != nil {
			src.Close()
			return nil, err
		}
		src.Redis = client
		src.Records = cache.NewThresholdCache(client, src.Records, cfg.Cache.TTL, cache.WithMetrics(m))
		log.Info().Dur("ttl", cfg.Cache.TTL).Msg("Threshold record cache enabled")
	}

	return src, nil
}

// Ping checks every connection the source holds
func (s *Source) Ping(ctx context.Context) error {
	var errs []error
	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the source's connections
func (s *Source) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
