package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackctl/stackctl/internal/model"
	"github.com/stackctl/stackctl/internal/storage/sqlite"
)

func newTestRepository(t *testing.T) *sqlite.Repository {
	t.Helper()

	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "stackctl.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func testOperation(id string, startedAt time.Time) model.Operation {
	return model.Operation{
		ID:         id,
		Kind:       model.OperationKindDeploy,
		StackName:  "billing-v42",
		StackID:    "id-new",
		BaseName:   "billing",
		Status:     "CREATE_COMPLETE",
		Result:     model.OperationResultSuccess,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(2 * time.Minute),
	}
}

func TestCreateAndGetOperation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	startedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	exp := testOperation("op-1", startedAt)
	require.NoError(t, repo.CreateOperation(ctx, exp))

	got, err := repo.GetOperation(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, &exp, got)
}

func TestGetOperationNotFound(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.GetOperation(context.Background(), "no-such-op")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Nil(t, got)
}

func TestCreateOperationDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	op := testOperation("op-1", time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateOperation(ctx, op))

	err := repo.CreateOperation(ctx, op)
	assert.Error(t, err)
}

func TestListOperationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateOperation(ctx, testOperation("op-old", base)))
	require.NoError(t, repo.CreateOperation(ctx, testOperation("op-mid", base.Add(time.Hour))))
	require.NoError(t, repo.CreateOperation(ctx, testOperation("op-new", base.Add(2*time.Hour))))

	ops, err := repo.ListOperations(ctx)
	require.NoError(t, err)

	require.Len(t, ops, 3)
	assert.Equal(t, "op-new", ops[0].ID)
	assert.Equal(t, "op-mid", ops[1].ID)
	assert.Equal(t, "op-old", ops[2].ID)
}

func TestDeleteOperationsBefore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateOperation(ctx, testOperation("op-old", base)))
	require.NoError(t, repo.CreateOperation(ctx, testOperation("op-new", base.Add(48*time.Hour))))

	deleted, err := repo.DeleteOperationsBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	ops, err := repo.ListOperations(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "op-new", ops[0].ID)
}
