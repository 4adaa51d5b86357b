package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/observation-displayer/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("storage.path", path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func testRecord(content string) domain.Record {
	return domain.Record{
		ID:        domain.UnassignedID,
		CreatedAt: time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
		Author:    "Poi",
		View:      domain.Location{World: "world", X: 1.5, Y: 64, Z: -20, Yaw: 180, Pitch: 15},
		Content:   content,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))

	expires := time.Date(2026, 2, 15, 11, 0, 0, 0, time.UTC)
	first := testRecord("Cool rock formation")
	second := testRecord("Frozen waterfall")
	second.Expiration = &expires

	firstID, err := repo.Insert(context.Background(), first)
	require.NoError(t, err)
	secondID, err := repo.Insert(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, domain.ObservationID(0), firstID)
	assert.Equal(t, domain.ObservationID(1), secondID)

	first.ID = firstID
	second.ID = secondID

	records, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Record{first, second}, records)
}

func TestRepositoryIDsAreNotReusedAfterDeactivation(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))
	ctx := context.Background()

	id, err := repo.Insert(ctx, testRecord("one"))
	require.NoError(t, err)
	require.NoError(t, repo.MarkInactive(ctx, id))
	require.NoError(t, repo.MarkInactive(ctx, id))

	next, err := repo.Insert(ctx, testRecord("two"))
	require.NoError(t, err)
	assert.Greater(t, next, id)

	records, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "two", records[0].Content)

	require.ErrorIs(t, repo.MarkInactive(ctx, 42), domain.ErrObservationNotFound)
}

func TestRepositoryMarkExpiredInactive(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	expired := testRecord("expired")
	expired.Expiration = &past
	fresh := testRecord("fresh")
	fresh.Expiration = &future

	for _, r := range []domain.Record{expired, fresh, testRecord("forever")} {
		_, err := repo.Insert(ctx, r)
		require.NoError(t, err)
	}

	count, err := repo.MarkExpiredInactive(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.MarkExpiredInactive(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, count)

	records, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRepositoryInsertCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	_, err = repo.Insert(context.Background(), testRecord("Primary"))
	require.NoError(t, err)

	observationsPath := filepath.Join(homeDir, ".observation-displayer", "observations.toml")
	assert.Equal(t, observationsPath, repo.Path())
	info, err := os.Stat(observationsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "observations.toml"))

	records, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	count, err := repo.MarkExpiredInactive(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	observationsPath := filepath.Join(t.TempDir(), "observations.toml")
	require.NoError(t, os.WriteFile(observationsPath, []byte("observations = ["), 0o600))

	repo := newTestRepository(t, observationsPath)

	_, err := repo.ListActive(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode observations file")
}

func TestRepositoryTemporaryRecordsSurviveExpirySweep(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	scaffold := testRecord("scaffold")
	scaffold.Expiration = &past
	scaffold.Temporary = true
	id, err := repo.Insert(ctx, scaffold)
	require.NoError(t, err)

	count, err := repo.MarkExpiredInactive(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, count)

	records, err := repo.ListActive(ctx)
	require.NoError(t, err)
	scaffold.ID = id
	assert.Equal(t, []domain.Record{scaffold}, records)

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "temporary = true")
}

func TestRepositoryMalformedTimestampIsReported(t *testing.T) {
	t.Parallel()

	observationsPath := filepath.Join(t.TempDir(), "observations.toml")
	content := `version = 1
next_id = 1

[[observations]]
id = 0
created_at = "2026-02-14T11:00:00Z"
author = "Poi"
content = "hand edited"
expiration = "next tuesday"
active = true

[observations.location]
world = "world"
x = 0.0
y = 64.0
z = 0.0
yaw = 0.0
pitch = 0.0
`
	require.NoError(t, os.WriteFile(observationsPath, []byte(content), 0o600))
	repo := newTestRepository(t, observationsPath)
	ctx := context.Background()

	_, err := repo.ListActive(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "observation 0 expiration")

	_, err = repo.MarkExpiredInactive(ctx, time.Now())
	require.Error(t, err)

	data, err := os.ReadFile(observationsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "active = true")
}

func TestRepositoryInsertCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Insert(ctx, testRecord("Primary"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryInsertRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "observations.toml"))

	invalid := testRecord("ok")
	invalid.View.World = ""
	_, err := repo.Insert(context.Background(), invalid)
	require.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestRepositoryConcurrentInsertsAcrossInstancesKeepUniqueIDs(t *testing.T) {
	t.Parallel()

	observationsPath := filepath.Join(t.TempDir(), "observations.toml")
	repoA := newTestRepository(t, observationsPath)
	repoB := newTestRepository(t, observationsPath)

	const perRepoWrites = 50
	start := make(chan struct{})
	ids := make(chan domain.ObservationID, perRepoWrites*2)
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup

	for name, repo := range map[string]*Repository{"a": repoA, "b": repoB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < perRepoWrites; i++ {
				id, err := repo.Insert(context.Background(), testRecord(name+"-"+strconv.Itoa(i)))
				errCh <- err
				ids <- id
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	close(ids)

	for err := range errCh {
		require.NoError(t, err)
	}

	seen := map[domain.ObservationID]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, perRepoWrites*2)

	records, err := repoA.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, perRepoWrites*2)
}

func TestRepositorySerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	observationsPath := filepath.Join(t.TempDir(), "observations.toml")
	repo := newTestRepository(t, observationsPath)

	_, err := repo.Insert(context.Background(), testRecord("Primary"))
	require.NoError(t, err)

	data, err := os.ReadFile(observationsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "next_id = 1")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	observationsPath := filepath.Join(t.TempDir(), "observations.toml")
	require.NoError(t, os.WriteFile(observationsPath, []byte(strings.Join([]string{
		"version = 999",
		"",
		"observations = []",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, observationsPath)

	_, err := repo.ListActive(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported observations schema version")
}
