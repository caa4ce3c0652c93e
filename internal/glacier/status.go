package glacier

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// StatusChecker reports the restore state of objects by reading the
// x-amz-restore header off a HeadObject call per object.
type StatusChecker struct {
	store  ObjectStore
	logger *zap.Logger
}

func NewStatusChecker(store ObjectStore, logger *zap.Logger) *StatusChecker {
	return &StatusChecker{store: store, logger: logger}
}

// Check fills in RestoreStatus for every record. A failed head on one
// object is logged and leaves that record at not-started; the pass
// continues. The returned slice always has one entry per input record.
func (c *StatusChecker) Check(ctx context.Context, scope BucketScope, records []ObjectRecord) ([]ObjectRecord, error) {
	out := make([]ObjectRecord, 0, len(records))
	for _, rec := range records {
		head, err := c.store.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(scope.Bucket),
			Key:    aws.String(rec.Key),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("head object failed",
				zap.String("key", rec.Key), zap.Error(err))
			rec.RestoreStatus = RestoreNone
			out = append(out, rec)
			continue
		}

		rec.RestoreStatus = parseRestoreHeader(aws.ToString(head.Restore))
		c.logger.Debug("restore status",
			zap.String("key", rec.Key),
			zap.Stringer("status", rec.RestoreStatus))
		out = append(out, rec)
	}
	return out, nil
}

// parseRestoreHeader maps the x-amz-restore header to a status. The
// header is absent until a restore is requested, then reads
// `ongoing-request="true"` while in flight and `ongoing-request="false",
// expiry-date="..."` once the copy is retrievable.
func parseRestoreHeader(h string) RestoreStatus {
	switch {
	case h == "":
		return RestoreNone
	case strings.Contains(h, `ongoing-request="true"`):
		return RestoreInProgress
	case strings.Contains(h, `ongoing-request="false"`):
		return RestoreCompleted
	default:
		return RestoreNone
	}
}
