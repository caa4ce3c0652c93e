package glacier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Lister enumerates objects under a bucket/prefix. It follows
// continuation tokens until the listing is exhausted and performs no
// retries; list errors abort the whole pass.
type Lister struct {
	store  ObjectStore
	logger *zap.Logger
}

func NewLister(store ObjectStore, logger *zap.Logger) *Lister {
	return &Lister{store: store, logger: logger}
}

// ListCold returns the objects in scope whose storage class is the cold
// class. Every call re-lists from the provider.
func (l *Lister) ListCold(ctx context.Context, scope BucketScope) ([]ObjectRecord, error) {
	return l.list(ctx, scope, true)
}

// ListAll returns every object in scope regardless of storage class.
func (l *Lister) ListAll(ctx context.Context, scope BucketScope) ([]ObjectRecord, error) {
	return l.list(ctx, scope, false)
}

func (l *Lister) list(ctx context.Context, scope BucketScope, coldOnly bool) ([]ObjectRecord, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(scope.Bucket),
	}
	if scope.Prefix != "" {
		input.Prefix = aws.String(scope.Prefix)
	}

	var records []ObjectRecord
	for {
		page, err := l.store.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", scope.Bucket, err)
		}

		for _, obj := range page.Contents {
			if coldOnly && obj.StorageClass != ColdStorageClass {
				continue
			}
			records = append(records, ObjectRecord{
				Key:          aws.ToString(obj.Key),
				StorageClass: obj.StorageClass,
			})
		}

		if page.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = page.NextContinuationToken
	}

	l.logger.Debug("listed objects",
		zap.String("bucket", scope.Bucket),
		zap.String("prefix", scope.Prefix),
		zap.Bool("cold_only", coldOnly),
		zap.Int("count", len(records)))
	return records, nil
}
