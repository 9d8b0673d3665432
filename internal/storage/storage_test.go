package storage_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-maxit/judge/internal/storage"
	customErr "github.com/mini-maxit/judge/pkg/errors"
)

// memoryStore is an in-memory ObjectStore keyed by object name.
type memoryStore struct {
	objects map[string]string
	listErr error
	gets    int
}

func (m *memoryStore) ListObjects(_ context.Context, prefix string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.gets++
	v, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return []byte(v), nil
}

func TestTestCasesPrefix(t *testing.T) {
	assert.Equal(t, "problems/42/tests/", storage.TestCasesPrefix(42))
}

func TestLoadTestCases_PairsAndSortsNumerically(t *testing.T) {
	store := &memoryStore{objects: map[string]string{
		"problems/7/tests/10.in":  "ten",
		"problems/7/tests/10.out": "10",
		"problems/7/tests/2.in":   "two",
		"problems/7/tests/2.out":  "2",
		"problems/7/tests/2.txt":  "second case",
		"problems/7/tests/1.in":   "one",
		"problems/7/tests/1.out":  "1",
		"problems/8/tests/1.in":   "other problem",
		"problems/8/tests/1.out":  "x",
	}}

	cases, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, "one", cases[0].Input)
	assert.Equal(t, "1", cases[0].ExpectedOutput)
	assert.Equal(t, "two", cases[1].Input)
	assert.Equal(t, "second case", cases[1].Explanation)
	assert.Equal(t, "ten", cases[2].Input)
	assert.Empty(t, cases[2].Explanation)
}

func TestLoadTestCases_SkipsUnrelatedObjects(t *testing.T) {
	store := &memoryStore{objects: map[string]string{
		"problems/1/tests/1.in":     "a",
		"problems/1/tests/1.out":    "b",
		"problems/1/tests/README":   "notes",
		"problems/1/tests/1.ans":    "ignored",
		"problems/1/tests/check.in": "ignored",
	}}

	cases, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "a", cases[0].Input)
}

func TestLoadTestCases_MissingOutput(t *testing.T) {
	store := &memoryStore{objects: map[string]string{
		"problems/1/tests/1.in":  "a",
		"problems/1/tests/1.out": "b",
		"problems/1/tests/2.in":  "c",
	}}

	_, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, customErr.ErrInvalidFixture))
	assert.Zero(t, store.gets, "no object should be fetched for an invalid fixture")
}

func TestLoadTestCases_MissingInput(t *testing.T) {
	store := &memoryStore{objects: map[string]string{
		"problems/1/tests/1.out": "b",
	}}

	_, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 1)
	assert.ErrorIs(t, err, customErr.ErrInvalidFixture)
}

func TestLoadTestCases_NoCases(t *testing.T) {
	store := &memoryStore{objects: map[string]string{}}

	_, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 3)
	assert.ErrorIs(t, err, customErr.ErrInvalidFixture)
}

func TestLoadTestCases_ListError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &memoryStore{listErr: boom}

	_, err := storage.NewProblemStorage(store).LoadTestCases(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
}

func TestLoadSource(t *testing.T) {
	store := &memoryStore{objects: map[string]string{
		"submissions/5/solution.py": "print(1)",
	}}
	ps := storage.NewProblemStorage(store)

	src, err := ps.LoadSource(context.Background(), "submissions/5/solution.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", src)

	_, err = ps.LoadSource(context.Background(), "submissions/6/solution.py")
	assert.Error(t, err)
}
