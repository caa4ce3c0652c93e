package glacier

import (
	"context"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

const codeInvalidObjectState = "InvalidObjectState"

// DefaultPollInterval is the wait between poll cycles.
const DefaultPollInterval = time.Hour

// TransitOptions configures a transition run.
type TransitOptions struct {
	// StorageClass is the class objects are moved to once restored.
	StorageClass types.StorageClass
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
}

// Transitioner polls until every cold object in scope reports a
// completed restore, then copies each object in place with the target
// storage class. The loop has no internal bound; cancel the context to
// stop it.
type Transitioner struct {
	store   ObjectStore
	lister  *Lister
	checker *StatusChecker
	logger  *zap.Logger

	// sleep is swapped out in tests so poll cycles never block on
	// wall-clock time.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewTransitioner(store ObjectStore, logger *zap.Logger) *Transitioner {
	return &Transitioner{
		store:   store,
		lister:  NewLister(store, logger),
		checker: NewStatusChecker(store, logger),
		logger:  logger,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run drives the poll/transition loop until no object in scope remains
// in the cold storage class. Objects transitioned by an earlier,
// interrupted run simply no longer show up in the cold listing and are
// skipped without error.
func (t *Transitioner) Run(ctx context.Context, scope BucketScope, opts TransitOptions) error {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		records, err := t.lister.ListCold(ctx, scope)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			t.logger.Info("all objects transitioned",
				zap.String("bucket", scope.Bucket), zap.String("prefix", scope.Prefix))
			return nil
		}

		records, err = t.checker.Check(ctx, scope, records)
		if err != nil {
			return err
		}

		if pending := countPending(records); pending > 0 {
			t.logger.Info("restores still pending, waiting",
				zap.Int("pending", pending),
				zap.Int("total", len(records)),
				zap.Duration("interval", interval))
			if err := t.sleep(ctx, interval); err != nil {
				return err
			}
			continue
		}

		if failed := t.transitionPass(ctx, scope, records, opts.StorageClass); failed > 0 {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.logger.Warn("transition pass incomplete, waiting",
				zap.Int("remaining", failed))
			if err := t.sleep(ctx, interval); err != nil {
				return err
			}
		}
	}
}

// transitionPass copies every still-cold record to the target class and
// returns how many objects remain untransitioned.
func (t *Transitioner) transitionPass(ctx context.Context, scope BucketScope, records []ObjectRecord, target types.StorageClass) int {
	failed := 0
	for _, rec := range records {
		if rec.StorageClass != ColdStorageClass {
			t.logger.Debug("skipping already transitioned object",
				zap.String("key", rec.Key))
			continue
		}

		t.logger.Debug("transitioning object",
			zap.String("key", rec.Key),
			zap.String("storage_class", string(target)))
		_, err := t.store.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:       aws.String(scope.Bucket),
			Key:          aws.String(rec.Key),
			CopySource:   aws.String(copySource(scope.Bucket, rec.Key)),
			StorageClass: target,
		})
		switch {
		case err == nil:
			t.logger.Info("object transitioned",
				zap.String("key", rec.Key),
				zap.String("storage_class", string(target)))
		case errorCode(err) == codeInvalidObjectState:
			// Restore state flipped back between head and copy.
			failed++
			t.logger.Warn("object not restored yet",
				zap.String("key", rec.Key), zap.Error(err))
		default:
			failed++
			t.logger.Error("transition failed, continuing",
				zap.String("key", rec.Key), zap.Error(err))
		}
		if ctx.Err() != nil {
			return failed
		}
	}
	return failed
}

// copySource percent-encodes the bucket/key pair for the
// x-amz-copy-source header; keys may contain characters like spaces or
// % that are not valid raw in a header path.
func copySource(bucket, key string) string {
	u := url.URL{Path: bucket + "/" + key}
	return u.EscapedPath()
}

func countPending(records []ObjectRecord) int {
	pending := 0
	for _, rec := range records {
		if rec.RestoreStatus != RestoreCompleted {
			pending++
		}
	}
	return pending
}
