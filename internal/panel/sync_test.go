package panel_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ProductPanel/internal/catalog"
	"ProductPanel/internal/panel"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewStore(), Log: zap.NewNop()}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

// Full list/create/update/delete cycle through the real client against the
// real catalog handler.
func TestStore_SyncAgainstCatalogServer(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	ctx := context.Background()
	store := panel.NewStore(panel.NewClient(ts.URL), zap.NewNop())

	require.NoError(t, store.FetchAll(ctx))
	st := store.Snapshot()
	require.Equal(t, panel.StatusSucceeded, st.Status)
	require.Empty(t, st.Products)

	created, err := store.Create(ctx, panel.Draft{
		ProductName: "Keyboard",
		Category:    "Peripherals",
		Price:       49.9,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, []panel.Product{created}, store.Snapshot().Products)

	// the strong-consistency path: refetch agrees with the append
	require.NoError(t, store.FetchAll(ctx))
	require.Equal(t, []panel.Product{created}, store.Snapshot().Products)

	updated, err := store.Update(ctx, created.ID, panel.Draft{
		ProductName: "Mechanical Keyboard",
		Category:    "Peripherals",
		Price:       129.9,
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, []panel.Product{updated}, store.Snapshot().Products)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, deleted)
	require.Empty(t, store.Snapshot().Products)

	require.NoError(t, store.FetchAll(ctx))
	require.Empty(t, store.Snapshot().Products)
	require.Equal(t, panel.StatusSucceeded, store.Snapshot().Status)
}

// Updating an id the backend no longer has surfaces ErrNotFound and, like a
// failed fetch, parks the store in the failed state.
func TestStore_SyncUpdateMissingOnServer(t *testing.T) {
	ts := newCatalogTS(t)
	defer ts.Close()

	ctx := context.Background()
	store := panel.NewStore(panel.NewClient(ts.URL), zap.NewNop())

	require.NoError(t, store.FetchAll(ctx))

	_, err := store.Update(ctx, "p_gone", panel.Draft{
		ProductName: "Ghost",
		Category:    "Misc",
		Price:       1,
	})
	require.ErrorIs(t, err, panel.ErrNotFound)
	require.Equal(t, panel.StatusFailed, store.Snapshot().Status)
	require.NotEmpty(t, store.Snapshot().Err)
}

func TestStore_SyncFetchAfterServerGone(t *testing.T) {
	ts := newCatalogTS(t)

	ctx := context.Background()
	store := panel.NewStore(panel.NewClient(ts.URL), zap.NewNop())

	_, err := store.Create(ctx, panel.Draft{
		ProductName: "Keyboard",
		Category:    "Peripherals",
		Price:       49.9,
	})
	require.NoError(t, err)
	prior := store.Snapshot().Products

	ts.Close()

	require.Error(t, store.FetchAll(ctx))
	st := store.Snapshot()
	require.Equal(t, panel.StatusFailed, st.Status)
	require.NotEmpty(t, st.Err)
	require.Equal(t, prior, st.Products)
}
