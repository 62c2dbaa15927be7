package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/crudkit/internal/core/routes"
	"github.com/example/crudkit/internal/errs"
	"github.com/example/crudkit/internal/frameworks"
	"github.com/example/crudkit/internal/ports/secondary"
)

const testProjectDir = "/work/shop"

func newTestRegistry(t *testing.T, mode routes.CaseMode) (*RouteRegistry, *mockFileStore, RouteTarget) {
	t.Helper()
	store := newMockFileStore()
	fw, err := frameworks.New("vue")
	require.NoError(t, err)
	registry := NewRouteRegistry(store, routes.Options{Case: mode}, zerolog.Nop())
	return registry, store, NewRouteTarget(testProjectDir, fw)
}

func TestNewRouteTarget(t *testing.T) {
	fw, err := frameworks.New("angular")
	require.NoError(t, err)

	target := NewRouteTarget(testProjectDir, fw)
	assert.Equal(t, filepath.Join(testProjectDir, "src", "routes.json"), target.TablePath)
	assert.Equal(t, filepath.Join(testProjectDir, "src", "app", "app.routes.ts"), target.RouterPath)
}

func TestMerge_EmptyStore(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()

	res, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)

	assert.True(t, res.Inserted)
	assert.Equal(t, []string{"/product"}, res.Table.Paths())
	assert.Equal(t, secondary.WriteCreated, res.TableWrite.Result)
	assert.Equal(t, secondary.WriteCreated, res.RouterWrite.Result)

	table, ok := store.get(target.TablePath)
	require.True(t, ok, "route table not written")
	want, err := routes.Encode(res.Table)
	require.NoError(t, err)
	assert.Equal(t, string(want), table)

	router, ok := store.get(target.RouterPath)
	require.True(t, ok, "router not written")
	assert.Contains(t, router, "path: '/product'")
	assert.Equal(t, res.RouterSource, router)
}

func TestMerge_Idempotent(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()

	_, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)
	firstTable, _ := store.get(target.TablePath)
	firstRouter, _ := store.get(target.RouterPath)

	res, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)

	assert.False(t, res.Inserted)
	assert.Equal(t, secondary.WriteUnchanged, res.TableWrite.Result)
	assert.Equal(t, secondary.WriteUnchanged, res.RouterWrite.Result)

	secondTable, _ := store.get(target.TablePath)
	secondRouter, _ := store.get(target.RouterPath)
	if diff := cmp.Diff(firstTable, secondTable); diff != "" {
		t.Errorf("route table changed (-first +second):\n%s", diff)
	}
	assert.Equal(t, firstRouter, secondRouter)
}

func TestMerge_OrderAndNoInterference(t *testing.T) {
	registry, _, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()

	for _, model := range []string{"product", "user", "product", "cart", "user"} {
		_, err := registry.Merge(ctx, target, model)
		require.NoError(t, err)
	}

	table := registry.Load(ctx, target.TablePath)
	assert.Equal(t, []string{"/product", "/user", "/cart"}, table.Paths())
}

func TestMerge_CaseModes(t *testing.T) {
	ctx := context.Background()

	exact, _, target := newTestRegistry(t, routes.CaseExact)
	_, err := exact.Merge(ctx, target, "product")
	require.NoError(t, err)
	res, err := exact.Merge(ctx, target, "Product")
	require.NoError(t, err)
	assert.True(t, res.Inserted, "exact mode treats Product and product as different models")
	assert.Equal(t, []string{"/product", "/Product"}, res.Table.Paths())

	lower, _, target := newTestRegistry(t, routes.CaseLower)
	_, err = lower.Merge(ctx, target, "product")
	require.NoError(t, err)
	res, err = lower.Merge(ctx, target, "Product")
	require.NoError(t, err)
	assert.False(t, res.Inserted, "lower mode folds Product onto product")
	assert.Equal(t, []string{"/product"}, res.Table.Paths())
}

func TestMerge_CorruptTableTreatedAsEmpty(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()
	store.files[target.TablePath] = []byte("{not json")

	res, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)

	assert.True(t, res.Inserted)
	assert.Equal(t, []string{"/product"}, res.Table.Paths())
	assert.Equal(t, secondary.WriteUpdated, res.TableWrite.Result)
}

func TestMerge_UnreadableTableTreatedAsEmpty(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	store.readErr = errors.New("permission denied")

	res, err := registry.Merge(context.Background(), target, "product")
	require.NoError(t, err)
	assert.Len(t, res.Table, 1)
}

func TestMerge_PreservesForeignNodes(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()
	store.files[target.TablePath] = []byte(`[{"path":"/legacy","name":"legacy","component":"LegacyView"}]`)

	res, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)

	require.Len(t, res.Table, 2)
	assert.Equal(t, "/legacy", res.Table[0].Path)
	assert.Equal(t, "LegacyView", res.Table[0].Component)
	assert.Empty(t, res.Table[0].Children)
}

func TestMerge_TableWriteFailure(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()
	store.writeErrs[target.TablePath] = errors.New("disk full")

	res, err := registry.Merge(ctx, target, "product")
	require.Error(t, err)
	require.NotNil(t, res, "computed result must be returned on persistence failure")

	var perr *errs.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ArtifactRouteTable, perr.Artifact)
	assert.Equal(t, target.TablePath, perr.Path)
	assert.True(t, res.Inserted)
	assert.True(t, res.RouterWrite.Skipped)

	_, routerWritten := store.get(target.RouterPath)
	assert.False(t, routerWritten, "router must not be written after a table failure")

	// Retry persistence without re-merging.
	delete(store.writeErrs, target.TablePath)
	require.NoError(t, registry.Persist(ctx, res))

	table, ok := store.get(target.TablePath)
	require.True(t, ok)
	assert.Equal(t, string(res.TableSource), table)
	router, ok := store.get(target.RouterPath)
	require.True(t, ok)
	assert.Equal(t, res.RouterSource, router)
}

func TestMerge_RouterWriteFailure(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	store.writeErrs[target.RouterPath] = errors.New("read-only file system")

	res, err := registry.Merge(context.Background(), target, "product")
	require.Error(t, err)
	require.NotNil(t, res)

	var perr *errs.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ArtifactRouter, perr.Artifact)
	assert.NoError(t, res.TableWrite.Err)
	assert.True(t, errs.IsPersistence(res.RouterWrite.Err))
}

func TestMerge_ConcurrentCallersSerialised(t *testing.T) {
	registry, _, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := registry.Merge(ctx, target, fmt.Sprintf("model%d", i))
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}
	assert.Len(t, registry.Load(ctx, target.TablePath), n, "every concurrent merge must survive")
}

func TestMerge_ContextCancelledWhileLocked(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)

	release, err := registry.acquire(context.Background(), target.TablePath)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = registry.Merge(ctx, target, "product")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.writes)
}

func TestPlan_DoesNotWrite(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)

	res, err := registry.Plan(context.Background(), target, "product")
	require.NoError(t, err)

	assert.True(t, res.Inserted)
	assert.NotEmpty(t, res.TableSource)
	assert.NotEmpty(t, res.RouterSource)
	assert.Zero(t, store.writes)
}

func TestSync_RegeneratesRouterOnly(t *testing.T) {
	registry, store, target := newTestRegistry(t, routes.CaseExact)
	ctx := context.Background()

	_, err := registry.Merge(ctx, target, "product")
	require.NoError(t, err)
	tableBefore, _ := store.get(target.TablePath)
	store.files[target.RouterPath] = []byte("// stale")

	res, err := registry.Sync(ctx, target)
	require.NoError(t, err)

	assert.False(t, res.Inserted)
	assert.Equal(t, secondary.WriteUpdated, res.RouterWrite.Result)
	router, _ := store.get(target.RouterPath)
	assert.Contains(t, router, "path: '/product'")
	tableAfter, _ := store.get(target.TablePath)
	assert.Equal(t, tableBefore, tableAfter)
}

// topLevelPath matches the path of a top-level router entry; children are
// indented deeper or written inline.
var topLevelPath = regexp.MustCompile(`(?m)^    path: '([^']*)',$`)

func TestMerge_RouterProjectsTable(t *testing.T) {
	ctx := context.Background()
	sequence := []string{"product", "user", "product", "Product", "order-item", "order_item", "cart", "user"}

	for _, id := range []string{"vue", "react", "angular"} {
		t.Run(id, func(t *testing.T) {
			fw, err := frameworks.New(id)
			require.NoError(t, err)
			registry := NewRouteRegistry(newMockFileStore(), routes.Options{Case: routes.CaseExact}, zerolog.Nop())
			target := NewRouteTarget(testProjectDir, fw)

			var res *MergeResult
			for _, model := range sequence {
				res, err = registry.Merge(ctx, target, model)
				require.NoError(t, err)
			}

			var got []string
			for _, m := range topLevelPath.FindAllStringSubmatch(res.RouterSource, -1) {
				got = append(got, "/"+strings.TrimPrefix(m[1], "/"))
			}
			sortPaths := cmpopts.SortSlices(func(a, b string) bool { return a < b })
			if diff := cmp.Diff(res.Table.Paths(), got, sortPaths); diff != "" {
				t.Errorf("router paths differ from table (-table +router):\n%s", diff)
			}
			assert.Len(t, got, 6)
		})
	}
}
