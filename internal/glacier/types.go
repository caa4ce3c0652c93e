package glacier

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ColdStorageClass is the storage class objects must be restored out of.
const ColdStorageClass = types.ObjectStorageClassGlacier

// RestoreStatus is the restore state of a single object, derived from
// the x-amz-restore header on every check and never cached across runs.
type RestoreStatus int

const (
	RestoreNone RestoreStatus = iota
	RestoreInProgress
	RestoreCompleted
)

func (s RestoreStatus) String() string {
	switch s {
	case RestoreInProgress:
		return "in-progress"
	case RestoreCompleted:
		return "completed"
	default:
		return "not-started"
	}
}

// ObjectRecord describes one object in the working set. Records are
// produced fresh on every list call.
type ObjectRecord struct {
	Key           string
	StorageClass  types.ObjectStorageClass
	RestoreStatus RestoreStatus
}

// BucketScope defines the working set for an operation: a bucket and an
// optional key prefix. Immutable for the duration of one invocation.
type BucketScope struct {
	Bucket string
	Prefix string
}

// ParseTier validates a retrieval tier name. Whether a tier is actually
// available for a given object is left to the provider.
func ParseTier(s string) (types.Tier, error) {
	switch types.Tier(s) {
	case types.TierStandard, types.TierBulk, types.TierExpedited:
		return types.Tier(s), nil
	}
	return "", fmt.Errorf("invalid tier %q (want Standard, Bulk or Expedited)", s)
}

// ParseStorageClass validates a transition target storage class.
func ParseStorageClass(s string) (types.StorageClass, error) {
	switch types.StorageClass(s) {
	case types.StorageClassStandard,
		types.StorageClassStandardIa,
		types.StorageClassOnezoneIa,
		types.StorageClassIntelligentTiering:
		return types.StorageClass(s), nil
	}
	return "", fmt.Errorf("invalid storage class %q (want STANDARD, STANDARD_IA, ONEZONE_IA or INTELLIGENT_TIERING)", s)
}
