package stores

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/models"
	"github.com/catclub/catclub/internal/logging"
)

// staticSession never expires; store tests exercise cache behavior, not
// the refresh protocol.
type staticSession struct{}

func (staticSession) Token() string                     { return "test-token" }
func (staticSession) Refresh(ctx context.Context) error { return nil }
func (staticSession) Logout()                           {}

func newCatStore(t *testing.T, handler http.HandlerFunc) *CatStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	exec := api.NewExecutor(api.NewClient(srv.URL, 2*time.Second), staticSession{})
	return NewCatStore(exec, logging.Nop{})
}

func TestCatFetchAll(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cats", r.URL.Path)
		w.Write([]byte(`[{"id":"1","name":"Mimi","photos":[]},{"id":"2","name":"Leo","photos":[]}]`))
	})

	store.FetchAll(context.Background())

	st := store.State()
	require.False(t, st.Loading)
	require.Empty(t, st.Err)
	require.Len(t, st.Cats, 2)
	require.Equal(t, "Mimi", st.Cats["1"].Name)
	require.Equal(t, "Leo", st.Cats["2"].Name)
}

func TestCatFetchAllEnvelope(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"1","name":"Mimi","photos":[]}]}`))
	})

	store.FetchAll(context.Background())

	st := store.State()
	require.Empty(t, st.Err)
	require.Len(t, st.Cats, 1)
}

func TestCatFetchAllErrorIsSwallowedIntoState(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	// Reads never return errors; they land in the state.
	store.FetchAll(context.Background())

	st := store.State()
	require.False(t, st.Loading)
	require.NotEmpty(t, st.Err)
	require.Empty(t, st.Cats)
}

func TestCatUpdateIsAuthoritative(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"1","name":"Mimi","breed":"tabby","photos":["a.jpg"]}]`))
		case http.MethodPut:
			// The server normalizes the name and drops the breed; the
			// cache must mirror this exactly, not merge the patch.
			w.Write([]byte(`{"id":"1","name":"Mimi II","photos":["a.jpg"]}`))
		}
	})

	ctx := context.Background()
	store.FetchAll(ctx)

	name := "mimi ii"
	updated, err := store.Update(ctx, "1", models.CatUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Mimi II", updated.Name)

	cached, ok := store.Get("1")
	require.True(t, ok)
	require.Equal(t, "Mimi II", cached.Name)
	require.Empty(t, cached.Breed)
}

func TestCatDeleteRemovesEntry(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"1","name":"Mimi","photos":[]}]`))
		case http.MethodDelete:
			w.Write([]byte(`{"message":"Cat deleted successfully"}`))
		}
	})

	ctx := context.Background()
	store.FetchAll(ctx)
	require.Len(t, store.State().Cats, 1)

	require.NoError(t, store.Delete(ctx, "1"))

	st := store.State()
	require.False(t, st.Loading)
	require.Empty(t, st.Cats)
}

func TestCatMutationErrorPropagates(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := store.Delete(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusNotFound))
	require.NotEmpty(t, store.State().Err)
	require.False(t, store.State().Loading)
}

func TestCatUploadPhotos(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":"1","name":"Mimi","photos":["a.jpg"]}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/cats/1/photos":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, hdr, err := r.FormFile("photos")
			require.NoError(t, err)
			require.Equal(t, "new.jpg", hdr.Filename)
			w.Write([]byte(`{"id":"1","name":"Mimi","photos":["a.jpg","new.jpg"]}`))
		}
	})

	ctx := context.Background()
	store.FetchAll(ctx)

	cat, err := store.UploadPhotos(ctx, "1", []PhotoUpload{{Name: "new.jpg", Data: []byte("bytes")}})
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "new.jpg"}, cat.Photos)

	cached, _ := store.Get("1")
	require.Equal(t, []string{"a.jpg", "new.jpg"}, cached.Photos)
}

func TestGrowthRecordsAreLocalOnly(t *testing.T) {
	fetches := 0
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte(`[{"id":"1","name":"Mimi","photos":[]}]`))
	})

	ctx := context.Background()
	store.FetchAll(ctx)

	rec, err := store.AddGrowthRecord("1", models.GrowthRecord{Date: "2026-08-01", Weight: 4.2})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	cached, _ := store.Get("1")
	require.Len(t, cached.GrowthRecords, 1)

	rec.Notes = "vet visit"
	require.NoError(t, store.UpdateGrowthRecord("1", rec))
	cached, _ = store.Get("1")
	require.Equal(t, "vet visit", cached.GrowthRecords[0].Notes)

	require.NoError(t, store.DeleteGrowthRecord("1", rec.ID))
	cached, _ = store.Get("1")
	require.Empty(t, cached.GrowthRecords)

	// Nothing above hit the network.
	require.Equal(t, 1, fetches)

	// A refetch discards local records entirely.
	_, err = store.AddGrowthRecord("1", models.GrowthRecord{Date: "2026-08-02"})
	require.NoError(t, err)
	store.FetchAll(ctx)
	cached, _ = store.Get("1")
	require.Empty(t, cached.GrowthRecords)

	_, err = store.AddGrowthRecord("missing", models.GrowthRecord{})
	require.Error(t, err)
}

func TestCatSubscribe(t *testing.T) {
	store := newCatStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	var states []CatState
	unsubscribe := store.Subscribe(func(s CatState) { states = append(states, s) })

	store.FetchAll(context.Background())

	// One notification for loading=true, one for the final state.
	require.Len(t, states, 2)
	require.True(t, states[0].Loading)
	require.False(t, states[1].Loading)

	unsubscribe()
	store.FetchAll(context.Background())
	require.Len(t, states, 2)
}
