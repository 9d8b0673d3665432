package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/messages"
)

// ProblemStorage reads problem fixtures and stored submission sources.
type ProblemStorage interface {
	// LoadTestCases returns the hidden test cases of a problem ordered by their number.
	LoadTestCases(ctx context.Context, problemID int64) ([]messages.TestCase, error)
	LoadSource(ctx context.Context, key string) (string, error)
}

// ObjectStore is the subset of an S3 compatible client used to read fixtures.
type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type minioObjectStore struct {
	client *minio.Client
	bucket string
}

func NewMinioObjectStore(cfg MinioConfig) (ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &minioObjectStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioObjectStore) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("minio list objects failed: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *minioObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get object failed: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("minio read object %s failed: %w", key, err)
	}
	return data, nil
}

type problemStorage struct {
	store  ObjectStore
	logger *zap.SugaredLogger
}

func NewProblemStorage(store ObjectStore) ProblemStorage {
	return &problemStorage{
		store:  store,
		logger: logger.NewNamedLogger("storage"),
	}
}

// fixture holds the object keys of one numbered test case.
type fixture struct {
	number         int
	inputKey       string
	outputKey      string
	explanationKey string
}

// TestCasesPrefix is where the fixtures of a problem live: problems/<id>/tests/.
func TestCasesPrefix(problemID int64) string {
	return path.Join(constants.ProblemsPrefix, strconv.FormatInt(problemID, 10), constants.TestsDirName) + "/"
}

func (s *problemStorage) LoadTestCases(ctx context.Context, problemID int64) ([]messages.TestCase, error) {
	prefix := TestCasesPrefix(problemID)
	keys, err := s.store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.groupFixtures(keys)
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: no test cases under %s", customErr.ErrInvalidFixture, prefix)
	}

	testCases := make([]messages.TestCase, 0, len(fixtures))
	for _, f := range fixtures {
		input, err := s.store.GetObject(ctx, f.inputKey)
		if err != nil {
			return nil, err
		}
		output, err := s.store.GetObject(ctx, f.outputKey)
		if err != nil {
			return nil, err
		}
		tc := messages.TestCase{Input: string(input), ExpectedOutput: string(output)}
		if f.explanationKey != "" {
			explanation, err := s.store.GetObject(ctx, f.explanationKey)
			if err != nil {
				return nil, err
			}
			tc.Explanation = string(explanation)
		}
		testCases = append(testCases, tc)
	}

	s.logger.Infof("Loaded %d test cases for problem %d", len(testCases), problemID)
	return testCases, nil
}

// groupFixtures pairs <n>.in with <n>.out and sorts the pairs numerically.
func (s *problemStorage) groupFixtures(keys []string) ([]fixture, error) {
	byNumber := make(map[int]*fixture)
	for _, key := range keys {
		base := path.Base(key)
		ext := path.Ext(base)
		number, err := strconv.Atoi(strings.TrimSuffix(base, ext))
		if err != nil || number <= 0 {
			s.logger.Warnf("Skipping unexpected fixture object %s", key)
			continue
		}

		f, ok := byNumber[number]
		if !ok {
			f = &fixture{number: number}
			byNumber[number] = f
		}
		switch ext {
		case constants.InputFileExt:
			f.inputKey = key
		case constants.OutputFileExt:
			f.outputKey = key
		case constants.ExplanationFileExt:
			f.explanationKey = key
		default:
			s.logger.Warnf("Skipping unexpected fixture object %s", key)
		}
	}

	fixtures := make([]fixture, 0, len(byNumber))
	for _, f := range byNumber {
		if f.inputKey == "" || f.outputKey == "" {
			return nil, fmt.Errorf("%w: test case %d is missing its input or output", customErr.ErrInvalidFixture, f.number)
		}
		fixtures = append(fixtures, *f)
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].number < fixtures[j].number })
	return fixtures, nil
}

func (s *problemStorage) LoadSource(ctx context.Context, key string) (string, error) {
	data, err := s.store.GetObject(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
