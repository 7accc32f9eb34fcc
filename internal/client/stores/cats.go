// Package stores holds the reactive in-memory caches of server-owned
// entities. Each store owns its own mapping, talks to the API through the
// authorized executor, and treats the server's response as authoritative:
// a successful mutation replaces the cached entry with what the server
// returned, never with a local merge.
package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/catclub/catclub/internal/client/api"
	"github.com/catclub/catclub/internal/client/models"
	"github.com/catclub/catclub/internal/logging"
)

// CatState is an observable snapshot of the cat cache.
type CatState struct {
	Cats    map[string]models.Cat
	Loading bool
	Err     string
}

// CatStore caches cat profiles keyed by id.
//
// Read operations (FetchAll, FetchOne) record failures in the state's Err
// field and do not return them; mutations both record and return the
// error so callers can react.
type CatStore struct {
	exec *api.Executor
	log  logging.Logger

	mu      sync.RWMutex
	cats    map[string]models.Cat
	loading bool
	err     string
	subs    map[int]func(CatState)
	nextSub int
}

func NewCatStore(exec *api.Executor, log logging.Logger) *CatStore {
	return &CatStore{
		exec: exec,
		log:  log,
		cats: make(map[string]models.Cat),
		subs: make(map[int]func(CatState)),
	}
}

// FetchAll replaces the whole mapping with the server's cat list.
func (s *CatStore) FetchAll(ctx context.Context) {
	s.begin()

	body, err := s.exec.Get(ctx, "/cats")
	if err != nil {
		s.fail(ctx, "fetching cats", err)
		return
	}
	cats, err := api.DecodeList[models.Cat](body)
	if err != nil {
		s.fail(ctx, "fetching cats", err)
		return
	}

	items := make(map[string]models.Cat, len(cats))
	for _, c := range cats {
		items[c.ID] = c
	}

	s.mu.Lock()
	s.cats = items
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// FetchOne refreshes a single cat from the server.
func (s *CatStore) FetchOne(ctx context.Context, id string) {
	s.begin()

	body, err := s.exec.Get(ctx, "/cats/"+id)
	if err != nil {
		s.fail(ctx, "fetching cat", err)
		return
	}
	cat, err := api.DecodeObject[models.Cat](body)
	if err != nil {
		s.fail(ctx, "fetching cat", err)
		return
	}
	s.put(cat)
}

// Create adds a new cat profile and caches the server's version of it.
func (s *CatStore) Create(ctx context.Context, in models.CatCreate) (models.Cat, error) {
	s.begin()

	body, err := s.exec.PostJSON(ctx, "/cats", in)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "creating cat", err)
	}
	cat, err := api.DecodeObject[models.Cat](body)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "creating cat", err)
	}
	s.put(cat)
	return cat, nil
}

// Update applies a partial update. The cached entry becomes exactly the
// object the server returned, not a merge of the patch over the old value.
func (s *CatStore) Update(ctx context.Context, id string, in models.CatUpdate) (models.Cat, error) {
	s.begin()

	body, err := s.exec.PutJSON(ctx, "/cats/"+id, in)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "updating cat", err)
	}
	cat, err := api.DecodeObject[models.Cat](body)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "updating cat", err)
	}
	s.put(cat)
	return cat, nil
}

// Delete removes the cat on the server and drops it from the cache.
func (s *CatStore) Delete(ctx context.Context, id string) error {
	s.begin()

	if _, err := s.exec.Delete(ctx, "/cats/"+id); err != nil {
		return s.fail(ctx, "deleting cat", err)
	}

	s.mu.Lock()
	delete(s.cats, id)
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// PhotoUpload is one photo file to attach to a cat profile.
type PhotoUpload struct {
	Name string
	Data []byte
}

// UploadPhotos uploads photos for the cat and caches the updated profile
// the server returns.
func (s *CatStore) UploadPhotos(ctx context.Context, id string, photos []PhotoUpload) (models.Cat, error) {
	s.begin()

	files := make([]api.FileUpload, 0, len(photos))
	for _, p := range photos {
		files = append(files, api.FileUpload{Field: "photos", Name: p.Name, Data: p.Data})
	}

	body, err := s.exec.PostMultipart(ctx, "/cats/"+id+"/photos", files)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "uploading photos", err)
	}
	cat, err := api.DecodeObject[models.Cat](body)
	if err != nil {
		return models.Cat{}, s.fail(ctx, "uploading photos", err)
	}
	s.put(cat)
	return cat, nil
}

// Growth records have no server endpoint yet; the operations below mutate
// only the cached cat and do not survive a refetch. Callers that need
// durability must wait for the backend to grow the endpoint.

// AddGrowthRecord appends a record to the cached cat, assigning a local id
// when the record has none.
func (s *CatStore) AddGrowthRecord(catID string, rec models.GrowthRecord) (models.GrowthRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	cat, ok := s.cats[catID]
	if !ok {
		s.mu.Unlock()
		return models.GrowthRecord{}, fmt.Errorf("cat %s is not cached", catID)
	}
	cat.GrowthRecords = append(cat.GrowthRecords, rec)
	s.cats[catID] = cat
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return rec, nil
}

// UpdateGrowthRecord replaces the cached record with the same id.
func (s *CatStore) UpdateGrowthRecord(catID string, rec models.GrowthRecord) error {
	s.mu.Lock()
	cat, ok := s.cats[catID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("cat %s is not cached", catID)
	}
	found := false
	for i, r := range cat.GrowthRecords {
		if r.ID == rec.ID {
			cat.GrowthRecords[i] = rec
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("growth record %s not found", rec.ID)
	}
	s.cats[catID] = cat
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// DeleteGrowthRecord removes the cached record with the given id.
func (s *CatStore) DeleteGrowthRecord(catID, recordID string) error {
	s.mu.Lock()
	cat, ok := s.cats[catID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("cat %s is not cached", catID)
	}
	records := cat.GrowthRecords[:0:0]
	for _, r := range cat.GrowthRecords {
		if r.ID != recordID {
			records = append(records, r)
		}
	}
	cat.GrowthRecords = records
	s.cats[catID] = cat
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// Get returns the cached cat with the given id.
func (s *CatStore) Get(id string) (models.Cat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cats[id]
	return c, ok
}

// State returns a snapshot of the cache.
func (s *CatStore) State() CatState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change; the returned
// func unsubscribes.
func (s *CatStore) Subscribe(fn func(CatState)) func() {
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

func (s *CatStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

func (s *CatStore) fail(ctx context.Context, op string, err error) error {
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

func (s *CatStore) put(cat models.Cat) {
	s.mu.Lock()
	s.cats[cat.ID] = cat
	s.loading = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

func (s *CatStore) snapshotLocked() CatState {
	items := make(map[string]models.Cat, len(s.cats))
	for id, c := range s.cats {
		items[id] = c
	}
	return CatState{Cats: items, Loading: s.loading, Err: s.err}
}

func (s *CatStore) notify(state CatState) {
	s.mu.RLock()
	fns := make([]func(CatState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}
