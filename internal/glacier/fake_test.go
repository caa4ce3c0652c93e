package glacier

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeObject is one object in the fake store. restore holds the
// x-amz-restore header value returned per HeadObject call, in order;
// the last value sticks. An empty string means no header.
type fakeObject struct {
	class   types.ObjectStorageClass
	restore []string
}

type restoreCall struct {
	bucket string
	key    string
	days   int32
	tier   types.Tier
}

type copyCall struct {
	bucket string
	key    string
	source string
	class  types.StorageClass
}

// fakeStore is an in-memory ObjectStore with scripted errors and call
// recording. Listing is paginated when pageSize is set.
type fakeStore struct {
	objects  map[string]*fakeObject
	pageSize int

	listErr     error
	restoreErrs map[string]error
	copyErrs    map[string][]error

	listCalls    int
	headCalls    map[string]int
	restoreCalls []restoreCall
	copyCalls    []copyCall
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:     make(map[string]*fakeObject),
		restoreErrs: make(map[string]error),
		copyErrs:    make(map[string][]error),
		headCalls:   make(map[string]int),
	}
}

func (f *fakeStore) add(key string, class types.ObjectStorageClass, restore ...string) {
	f.objects[key] = &fakeObject{class: class, restore: restore}
}

func (f *fakeStore) sortedKeys(prefix string) []string {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (f *fakeStore) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	keys := f.sortedKeys(aws.ToString(in.Prefix))
	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(aws.ToString(in.ContinuationToken))
	}
	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &s3.ListObjectsV2Output{}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			StorageClass: f.objects[k].class,
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeStore) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	key := aws.ToString(in.Key)
	obj, ok := f.objects[key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: key}
	}

	i := f.headCalls[key]
	f.headCalls[key]++
	if len(obj.restore) == 0 {
		return &s3.HeadObjectOutput{}, nil
	}
	if i >= len(obj.restore) {
		i = len(obj.restore) - 1
	}
	out := &s3.HeadObjectOutput{}
	if obj.restore[i] != "" {
		out.Restore = aws.String(obj.restore[i])
	}
	return out, nil
}

func (f *fakeStore) RestoreObject(ctx context.Context, in *s3.RestoreObjectInput, _ ...func(*s3.Options)) (*s3.RestoreObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.restoreCalls = append(f.restoreCalls, restoreCall{
		bucket: aws.ToString(in.Bucket),
		key:    key,
		days:   aws.ToInt32(in.RestoreRequest.Days),
		tier:   in.RestoreRequest.GlacierJobParameters.Tier,
	})
	if err := f.restoreErrs[key]; err != nil {
		return nil, err
	}
	return &s3.RestoreObjectOutput{}, nil
}

func (f *fakeStore) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.copyCalls = append(f.copyCalls, copyCall{
		bucket: aws.ToString(in.Bucket),
		key:    key,
		source: aws.ToString(in.CopySource),
		class:  in.StorageClass,
	})
	if errs := f.copyErrs[key]; len(errs) > 0 {
		err := errs[0]
		f.copyErrs[key] = errs[1:]
		return nil, err
	}
	f.objects[key].class = types.ObjectStorageClass(in.StorageClass)
	return &s3.CopyObjectOutput{}, nil
}

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}
