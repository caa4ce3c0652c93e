package glacier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const codeRestoreAlreadyInProgress = "RestoreAlreadyInProgress"

// RestoreOptions configures one restore pass.
type RestoreOptions struct {
	// Days the restored copy stays retrievable. Must be positive.
	Days int32
	// Tier is the retrieval tier (Standard, Bulk or Expedited).
	Tier types.Tier
	// Strict aborts the pass on the first per-object failure instead of
	// logging it and moving on. RestoreAlreadyInProgress is never fatal.
	Strict bool
	// RPS caps restore requests per second. Zero means unlimited.
	RPS float64
}

// Restorer issues one restore request per object, sequentially.
type Restorer struct {
	store  ObjectStore
	logger *zap.Logger
}

func NewRestorer(store ObjectStore, logger *zap.Logger) *Restorer {
	return &Restorer{store: store, logger: logger}
}

// Restore sends a restore request for every record. Requesting a
// restore on an object already being restored is a no-op per provider
// semantics; other per-object failures are logged and skipped unless
// opts.Strict is set.
func (r *Restorer) Restore(ctx context.Context, scope BucketScope, records []ObjectRecord, opts RestoreOptions) error {
	if opts.Days <= 0 {
		return fmt.Errorf("restore days must be positive, got %d", opts.Days)
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	failed := 0
	for _, rec := range records {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		r.logger.Debug("restoring object", zap.String("key", rec.Key))
		_, err := r.store.RestoreObject(ctx, &s3.RestoreObjectInput{
			Bucket: aws.String(scope.Bucket),
			Key:    aws.String(rec.Key),
			RestoreRequest: &types.RestoreRequest{
				Days: aws.Int32(opts.Days),
				GlacierJobParameters: &types.GlacierJobParameters{
					Tier: opts.Tier,
				},
			},
		})
		switch {
		case err == nil:
			r.logger.Debug("restore request sent", zap.String("key", rec.Key))
		case errorCode(err) == codeRestoreAlreadyInProgress:
			r.logger.Warn("restore already in progress", zap.String("key", rec.Key))
		case opts.Strict:
			return fmt.Errorf("restore object %s: %w", rec.Key, err)
		default:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			r.logger.Error("restore failed, continuing",
				zap.String("key", rec.Key), zap.Error(err))
		}
	}

	if failed > 0 {
		r.logger.Warn("restore pass finished with failures",
			zap.Int("failed", failed), zap.Int("total", len(records)))
	}
	return nil
}
