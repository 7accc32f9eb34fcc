package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/models"
	"github.com/catclub/catclub/internal/logging"
)

// ErrNotLoggedIn is returned by post mutations that need attribution when
// no user is authenticated.
var ErrNotLoggedIn = errors.New("not logged in")

// UserSource exposes the session's current user for comment attribution.
// The session manager implements it; the store only ever reads.
type UserSource interface {
	CurrentUser() (models.User, bool)
}

// PostState is an observable snapshot of the post cache.
type PostState struct {
	Posts   map[string]models.Post
	Loading bool
	Err     string
}

// PostStore caches community posts keyed by id. Same contract as
// CatStore: reads swallow errors into state, mutations return them, and
// the server's response always wins over local guesses.
type PostStore struct {
	exec *api.Executor
	user UserSource
	log  logging.Logger

	mu      sync.RWMutex
	posts   map[string]models.Post
	loading bool
	err     string
	subs    map[int]func(PostState)
	nextSub int
}

func NewPostStore(exec *api.Executor, user UserSource, log logging.Logger) *PostStore {
	return &PostStore{
		exec:  exec,
		user:  user,
		log:   log,
		posts: make(map[string]models.Post),
		subs:  make(map[int]func(PostState)),
	}
}

// FetchAll replaces the whole mapping with the server's post list.
func (s *PostStore) FetchAll(ctx context.Context) {
	s.begin()

	body, err := s.exec.Get(ctx, "/posts")
	if err != nil {
		s.fail(ctx, "fetching posts", err)
		return
	}
	posts, err := api.DecodeList[models.Post](body)
	if err != nil {
		s.fail(ctx, "fetching posts", err)
		return
	}

	items := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		items[p.ID] = p
	}

	s.mu.Lock()
	s.posts = items
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// FetchOne refreshes a single post, including its comments.
func (s *PostStore) FetchOne(ctx context.Context, id string) {
	s.begin()

	post, err := s.getPost(ctx, id)
	if err != nil {
		s.fail(ctx, "fetching post", err)
		return
	}
	s.put(post)
}

// Create publishes a new post and caches the server's version of it.
func (s *PostStore) Create(ctx context.Context, in models.PostCreate) (models.Post, error) {
	s.begin()

	body, err := s.exec.PostJSON(ctx, "/posts", in)
	if err != nil {
		return models.Post{}, s.fail(ctx, "creating post", err)
	}
	post, err := api.DecodeObject[models.Post](body)
	if err != nil {
		return models.Post{}, s.fail(ctx, "creating post", err)
	}
	s.put(post)
	return post, nil
}

// Update applies a partial update; the cached entry becomes exactly what
// the server returned.
func (s *PostStore) Update(ctx context.Context, id string, in models.PostUpdate) (models.Post, error) {
	s.begin()

	body, err := s.exec.PutJSON(ctx, "/posts/"+id, in)
	if err != nil {
		return models.Post{}, s.fail(ctx, "updating post", err)
	}
	post, err := api.DecodeObject[models.Post](body)
	if err != nil {
		return models.Post{}, s.fail(ctx, "updating post", err)
	}
	s.put(post)
	return post, nil
}

// Delete removes the post on the server and drops it from the cache.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if _, err := s.exec.Delete(ctx, "/posts/"+id); err != nil {
		return s.fail(ctx, "deleting post", err)
	}

	s.mu.Lock()
	delete(s.posts, id)
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// AddComment posts a comment attributed to the current user, then
// refetches the post so the cache reflects the server's comment list.
func (s *PostStore) AddComment(ctx context.Context, postID, content string) error {
	user, ok := s.user.CurrentUser()
	if !ok {
		return ErrNotLoggedIn
	}

	s.begin()

	payload := models.CommentCreate{Content: content, AuthorID: user.ID}
	if _, err := s.exec.PostJSON(ctx, "/posts/"+postID+"/comments", payload); err != nil {
		return s.fail(ctx, "adding comment", err)
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return s.fail(ctx, "adding comment", err)
	}
	s.put(post)
	return nil
}

// DeleteComment removes a comment, then refetches the post.
func (s *PostStore) DeleteComment(ctx context.Context, postID, commentID string) error {
	s.begin()

	if _, err := s.exec.Delete(ctx, "/posts/"+postID+"/comments/"+commentID); err != nil {
		return s.fail(ctx, "deleting comment", err)
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return s.fail(ctx, "deleting comment", err)
	}
	s.put(post)
	return nil
}

func (s *PostStore) getPost(ctx context.Context, id string) (models.Post, error) {
	body, err := s.exec.Get(ctx, "/posts/"+id)
	if err != nil {
		return models.Post{}, err
	}
	return api.DecodeObject[models.Post](body)
}

// Get returns the cached post with the given id.
func (s *PostStore) Get(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	return p, ok
}

// State returns a snapshot of the cache.
func (s *PostStore) State() PostState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change; the returned
// func unsubscribes.
func (s *PostStore) Subscribe(fn func(PostState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *PostStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

func (s *PostStore) fail(ctx context.Context, op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	s.log.Error(ctx, op+" failed", "error", err)

	s.mu.Lock()
	s.err = wrapped.Error()
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return wrapped
}

func (s *PostStore) put(post models.Post) {
	s.mu.Lock()
	s.posts[post.ID] = post
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

func (s *PostStore) snapshotLocked() PostState {
	items := make(map[string]models.Post, len(s.posts))
	for id, p := range s.posts {
		items[id] = p
	}
	return PostState{Posts: items, Loading: s.loading, Err: s.err}
}

func (s *PostStore) notify(state PostState) {
	s.mu.RLock()
	fns := make([]func(PostState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}
