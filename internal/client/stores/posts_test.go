package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/models"
	"github.com/catclub/catclub/internal/logging"
)

type fakeUsers struct {
	user models.User
	ok   bool
}

func (f fakeUsers) CurrentUser() (models.User, bool) { return f.user, f.ok }

func newPostStore(t *testing.T, handler http.HandlerFunc, users UserSource) *PostStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	exec := api.NewExecutor(api.NewClient(srv.URL, 2*time.Second), staticSession{})
	return NewPostStore(exec, users, logging.Nop{})
}

func TestPostFetchAllEnvelopeShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare array":    `[{"id":"p1","title":"Hello","likes":3}]`,
		"data envelope": `{"data":[{"id":"p1","title":"Hello","likes":3}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}, fakeUsers{})

			store.FetchAll(context.Background())

			st := store.State()
			require.Empty(t, st.Err)
			require.False(t, st.Loading)
			require.Equal(t, 3, st.Posts["p1"].Likes)
		})
	}
}

func TestPostCreateCachesServerResponse(t *testing.T) {
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var in models.PostCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "Hello", in.Title)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1","title":"Hello","content":"hi","author_id":"u-1","likes":0}`))
	}, fakeUsers{})

	post, err := store.Create(context.Background(), models.PostCreate{Title: "Hello", Content: "hi"})
	require.NoError(t, err)
	require.Equal(t, "p1", post.ID)
	require.Equal(t, "u-1", post.AuthorID)

	cached, ok := store.Get("p1")
	require.True(t, ok)
	require.Equal(t, post, cached)
}

func TestPostDeleteRemovesEntry(t *testing.T) {
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"id":"p1","title":"Hello"}]`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}, fakeUsers{})

	ctx := context.Background()
	store.FetchAll(ctx)
	require.Len(t, store.State().Posts, 1)

	require.NoError(t, store.Delete(ctx, "p1"))
	require.Empty(t, store.State().Posts)
}

func TestAddCommentAttributesCurrentUser(t *testing.T) {
	var commentBody models.CommentCreate
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/posts/p1/comments":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&commentBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"c1","content":"nice","post_id":"p1"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/posts/p1":
			w.Write([]byte(`{"id":"p1","title":"Hello","comments":[{"id":"c1","content":"nice","post_id":"p1"}]}`))
		}
	}, fakeUsers{user: models.User{ID: "u-1", Username: "mia"}, ok: true})

	require.NoError(t, store.AddComment(context.Background(), "p1", "nice"))

	require.Equal(t, "nice", commentBody.Content)
	require.Equal(t, "u-1", commentBody.AuthorID)

	// The cache holds the refetched post, comments included.
	cached, ok := store.Get("p1")
	require.True(t, ok)
	require.Len(t, cached.Comments, 1)
}

func TestAddCommentRequiresLogin(t *testing.T) {
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, fakeUsers{ok: false})

	err := store.AddComment(context.Background(), "p1", "nice")
	require.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestDeleteCommentRefetchesPost(t *testing.T) {
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/posts/p1/comments/c1":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/posts/p1":
			w.Write([]byte(`{"id":"p1","title":"Hello","comments":[]}`))
		}
	}, fakeUsers{})

	require.NoError(t, store.DeleteComment(context.Background(), "p1", "c1"))

	cached, ok := store.Get("p1")
	require.True(t, ok)
	require.Empty(t, cached.Comments)
}

func TestPostMutationErrorPropagatesAndIsRecorded(t *testing.T) {
	store := newPostStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, fakeUsers{})

	_, err := store.Update(context.Background(), "p1", models.PostUpdate{})
	require.Error(t, err)
	require.True(t, api.IsStatus(err, http.StatusForbidden))

	st := store.State()
	require.NotEmpty(t, st.Err)
	require.False(t, st.Loading)
}
