// Package remotetest provides an in-memory implementation of remote.Client
// for tests: a tiny document store whose mutations synchronously re-evaluate
// live subscriptions and deliver computed change sets, the way the real store
// pushes snapshots.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]any
	denied      map[string]map[string]bool

	nextSubID int
	querySubs map[int]*querySub
	docSubs   map[int]*docSub

	getOnceFailures map[string]*failurePlan
}

type failurePlan struct {
	remaining int
	err       error
}

type querySub struct {
	id   int
	q    remote.Query
	fn   remote.SnapshotFunc
	last map[string]map[string]any
	dead bool
}

type docSub struct {
	id         int
	collection string
	docID      string
	fn         remote.DocFunc
	dead       bool
}

var _ remote.Client = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		collections:     map[string]map[string]map[string]any{},
		denied:          map[string]map[string]bool{},
		querySubs:       map[int]*querySub{},
		docSubs:         map[int]*docSub{},
		getOnceFailures: map[string]*failurePlan{},
	}
}

// normalize round-trips v through JSON so stored values have a single
// canonical representation (ints become float64, time.Time becomes RFC3339).
func normalize(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("remotetest: cannot marshal document: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Sprintf("remotetest: cannot unmarshal document: %v", err))
	}
	return out
}

func makeDoc(id string, fields map[string]any) remote.Document {
	// Capture a private copy so later mutations do not leak into the doc.
	b, _ := json.Marshal(fields)
	return remote.NewDocument(id, func(v any) error {
		return json.Unmarshal(b, v)
	})
}

// Set creates or fully replaces a document and notifies subscribers.
// v can be a struct or a map; it is JSON-normalized before storage.
func (s *Store) Set(collection, id string, v any) {
	s.mu.Lock()
	coll, ok := s.collections[collection]
	if !ok {
		coll = map[string]map[string]any{}
		s.collections[collection] = coll
	}
	coll[id] = normalize(v)
	deliveries := s.pendingDeliveriesLocked(collection, id)
	s.mu.Unlock()
	s.deliver(deliveries)
}

// Update merges the given fields into an existing document.
func (s *Store) Update(collection, id string, fields map[string]any) {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return
	}
	for k, v := range normalize(fields) {
		doc[k] = v
	}
	deliveries := s.pendingDeliveriesLocked(collection, id)
	s.mu.Unlock()
	s.deliver(deliveries)
}

// Delete removes a document and notifies subscribers.
func (s *Store) Delete(collection, id string) {
	s.mu.Lock()
	delete(s.collections[collection], id)
	deliveries := s.pendingDeliveriesLocked(collection, id)
	s.mu.Unlock()
	s.deliver(deliveries)
}

// Deny makes a document unreachable: query subscriptions observe it as
// removed, doc subscriptions and GetDoc report access denial.
func (s *Store) Deny(collection, id string) {
	s.mu.Lock()
	ids, ok := s.denied[collection]
	if !ok {
		ids = map[string]bool{}
		s.denied[collection] = ids
	}
	ids[id] = true
	deliveries := s.pendingDeliveriesLocked(collection, id)
	s.mu.Unlock()
	s.deliver(deliveries)
}

// FailQuerySubs delivers a fatal channel error to every live query
// subscription on the collection and closes them. Models the live channel
// itself failing, as opposed to a document-level denial.
func (s *Store) FailQuerySubs(collection string, err error) {
	s.mu.Lock()
	var fns []remote.SnapshotFunc
	for _, sub := range s.querySubs {
		if !sub.dead && sub.q.Collection == collection {
			sub.dead = true
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(remote.Snapshot{}, err)
	}
}

// FailGetOnce makes the next n GetOnce calls on the collection fail with err.
func (s *Store) FailGetOnce(collection string, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOnceFailures[collection] = &failurePlan{remaining: n, err: err}
}

// LiveQuerySubs returns the number of live query subscriptions on collection.
func (s *Store) LiveQuerySubs(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.querySubs {
		if !sub.dead && sub.q.Collection == collection {
			n++
		}
	}
	return n
}

// LiveDocSubs returns the number of live doc subscriptions on collection.
func (s *Store) LiveDocSubs(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.docSubs {
		if !sub.dead && sub.collection == collection {
			n++
		}
	}
	return n
}

// LiveDocSubIDs returns the ids of documents in collection with a live doc
// subscription, sorted.
func (s *Store) LiveDocSubIDs(collection string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, sub := range s.docSubs {
		if !sub.dead && sub.collection == collection {
			ids = append(ids, sub.docID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) isDeniedLocked(collection, id string) bool {
	return s.denied[collection][id]
}

func (s *Store) matchesLocked(q remote.Query, fields map[string]any) bool {
	for _, f := range q.Filters {
		if f.Op != "==" {
			panic(fmt.Sprintf("remotetest: unsupported filter op %q", f.Op))
		}
		want := normalizeScalar(f.Value)
		if !reflect.DeepEqual(fields[f.Field], want) {
			return false
		}
	}
	return true
}

func normalizeScalar(v any) any {
	b, _ := json.Marshal(v)
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

// visibleLocked returns docID -> fields for documents matching q that the
// principal can still reach.
func (s *Store) visibleLocked(q remote.Query) map[string]map[string]any {
	out := map[string]map[string]any{}
	for id, fields := range s.collections[q.Collection] {
		if s.isDeniedLocked(q.Collection, id) {
			continue
		}
		if s.matchesLocked(q, fields) {
			copied := map[string]any{}
			for k, v := range fields {
				copied[k] = v
			}
			out[id] = copied
		}
	}
	return out
}

type delivery func()

// pendingDeliveriesLocked computes callbacks owed after a mutation of
// (collection, id). Invoked with s.mu held; the returned closures are run
// after it is released so callbacks can call back into the store.
func (s *Store) pendingDeliveriesLocked(collection, id string) []delivery {
	var out []delivery

	for _, sub := range s.querySubs {
		if sub.dead || sub.q.Collection != collection {
			continue
		}
		current := s.visibleLocked(sub.q)
		snap, changed := diffSnapshot(sub.last, current)
		if !changed {
			continue
		}
		sub.last = current
		fn := sub.fn
		out = append(out, func() { fn(snap, nil) })
	}

	for _, sub := range s.docSubs {
		if sub.dead || sub.collection != collection || sub.docID != id {
			continue
		}
		fn := sub.fn
		if s.isDeniedLocked(collection, id) {
			out = append(out, func() { fn(remote.Document{}, false, common.ErrorAccessDenied) })
			continue
		}
		fields, exists := s.collections[collection][id]
		doc := remote.Document{}
		if exists {
			doc = makeDoc(id, fields)
		}
		out = append(out, func() { fn(doc, exists, nil) })
	}

	return out
}

func (s *Store) deliver(deliveries []delivery) {
	for _, d := range deliveries {
		d()
	}
}

// diffSnapshot builds the snapshot to deliver given the previously delivered
// state. changed is false when nothing differs (no delivery owed).
func diffSnapshot(last, current map[string]map[string]any) (remote.Snapshot, bool) {
	snap := remote.Snapshot{}
	changed := false

	ids := make([]string, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		snap.Docs = append(snap.Docs, makeDoc(id, current[id]))
		prev, had := last[id]
		switch {
		case !had:
			snap.Changes = append(snap.Changes, remote.Change{Kind: remote.DocAdded, Doc: makeDoc(id, current[id])})
			changed = true
		case !reflect.DeepEqual(prev, current[id]):
			snap.Changes = append(snap.Changes, remote.Change{Kind: remote.DocModified, Doc: makeDoc(id, current[id])})
			changed = true
		}
	}

	removed := make([]string, 0)
	for id := range last {
		if _, ok := current[id]; !ok {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	for _, id := range removed {
		snap.Changes = append(snap.Changes, remote.Change{Kind: remote.DocRemoved, Doc: makeDoc(id, last[id])})
		changed = true
	}

	return snap, changed
}

func (s *Store) Subscribe(ctx context.Context, q remote.Query, fn remote.SnapshotFunc) (remote.CancelFunc, error) {
	s.mu.Lock()
	s.nextSubID++
	sub := &querySub{id: s.nextSubID, q: q, fn: fn}
	s.querySubs[sub.id] = sub

	current := s.visibleLocked(q)
	initial, _ := diffSnapshot(nil, current)
	sub.last = current
	s.mu.Unlock()

	fn(initial, nil)

	return func() {
		s.mu.Lock()
		sub.dead = true
		s.mu.Unlock()
	}, nil
}

func (s *Store) SubscribeDoc(ctx context.Context, collection, id string, fn remote.DocFunc) (remote.CancelFunc, error) {
	s.mu.Lock()
	s.nextSubID++
	sub := &docSub{id: s.nextSubID, collection: collection, docID: id, fn: fn}
	s.docSubs[sub.id] = sub

	denied := s.isDeniedLocked(collection, id)
	fields, exists := s.collections[collection][id]
	s.mu.Unlock()

	if denied {
		fn(remote.Document{}, false, common.ErrorAccessDenied)
	} else if exists {
		fn(makeDoc(id, fields), true, nil)
	} else {
		fn(remote.Document{}, false, nil)
	}

	return func() {
		s.mu.Lock()
		sub.dead = true
		s.mu.Unlock()
	}, nil
}

func (s *Store) GetOnce(ctx context.Context, q remote.Query) ([]remote.Document, error) {
	s.mu.Lock()
	if plan := s.getOnceFailures[q.Collection]; plan != nil && plan.remaining > 0 {
		plan.remaining--
		err := plan.err
		s.mu.Unlock()
		return nil, err
	}
	current := s.visibleLocked(q)
	s.mu.Unlock()

	ids := make([]string, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]remote.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, makeDoc(id, current[id]))
	}
	return docs, nil
}

func (s *Store) GetDoc(ctx context.Context, collection, id string) (remote.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isDeniedLocked(collection, id) {
		return remote.Document{}, common.ErrorAccessDenied
	}
	fields, ok := s.collections[collection][id]
	if !ok {
		return remote.Document{}, common.ErrorNotFound
	}
	return makeDoc(id, fields), nil
}

func (s *Store) WriteDoc(ctx context.Context, collection, id string, data any) error {
	s.Set(collection, id, data)
	return nil
}

func (s *Store) UpdateDoc(ctx context.Context, collection, id string, updates []remote.Update) error {
	fields := map[string]any{}
	for _, u := range updates {
		fields[u.Field] = u.Value
	}
	s.mu.Lock()
	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()
		return common.ErrorNotFound
	}
	s.mu.Unlock()
	s.Update(collection, id, fields)
	return nil
}

func (s *Store) DeleteDoc(ctx context.Context, collection, id string) error {
	s.Delete(collection, id)
	return nil
}
