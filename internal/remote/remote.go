// Package remote defines the client-side abstraction over the managed
// document store: live subscriptions that deliver an initial snapshot plus a
// stream of change notifications, and one-shot request/response calls.
//
// The store delivers snapshots asynchronously with no ordering guarantee
// across different subscriptions. Ordering within a single subscription's
// stream is delivery order and is monotonic for that stream only.
package remote

import "context"

// Document is a single document read from the store. The payload is decoded
// lazily through DataTo so adapters can plug in their own decoding.
type Document struct {
	ID     string
	decode func(v any) error
}

// NewDocument builds a Document around a decode function. Adapters and test
// fakes use this; engine code only ever calls DataTo.
func NewDocument(id string, decode func(v any) error) Document {
	return Document{ID: id, decode: decode}
}

// DataTo unmarshals the document payload into v.
func (d Document) DataTo(v any) error {
	if d.decode == nil {
		return nil
	}
	return d.decode(v)
}

// ChangeKind classifies a single document change within a snapshot.
type ChangeKind int

const (
	DocAdded ChangeKind = iota
	DocModified
	DocRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case DocAdded:
		return "added"
	case DocModified:
		return "modified"
	case DocRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one document-level delta delivered by a subscription.
type Change struct {
	Kind ChangeKind
	Doc  Document
}

// Snapshot is the state delivered by a query subscription at a point in
// time: the full matching document set plus the deltas since the previous
// snapshot. The first snapshot reports every document as DocAdded.
type Snapshot struct {
	Docs    []Document
	Changes []Change
}

// SnapshotFunc receives query subscription updates. A non-nil err signals a
// failure of the channel itself (distinct from a document-level denial);
// after a fatal error no further snapshots are delivered.
type SnapshotFunc func(snap Snapshot, err error)

// DocFunc receives single-document subscription updates. exists reports
// whether the document currently exists; access denial arrives as err.
type DocFunc func(doc Document, exists bool, err error)

// CancelFunc tears down a subscription. Cancellation is synchronous: once it
// returns, the callback will not be invoked again. Calling it more than once
// is a no-op.
type CancelFunc func()

// Filter is a single field predicate. Op is a comparison operator in the
// store's syntax; the engine only ever uses "==".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Order is a sort directive applied by the store.
type Order struct {
	Field string
	Desc  bool
}

// Query addresses a collection with optional filters and ordering. Queries
// are immutable values; Where and OrderBy return extended copies.
type Query struct {
	Collection string
	Filters    []Filter
	Orders     []Order
}

func NewQuery(collection string) Query {
	return Query{Collection: collection}
}

func (q Query) Where(field, op string, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(field string, desc bool) Query {
	orders := make([]Order, len(q.Orders), len(q.Orders)+1)
	copy(orders, q.Orders)
	q.Orders = append(orders, Order{Field: field, Desc: desc})
	return q
}

// Update names one field to overwrite in an existing document.
type Update struct {
	Field string
	Value any
}

// Client is the document-store SDK surface consumed by the sync engine.
// Implementations must deliver subscription callbacks from at most one
// goroutine per subscription.
type Client interface {
	// Subscribe opens a live query subscription. The initial snapshot is
	// delivered through fn as the first invocation.
	Subscribe(ctx context.Context, q Query, fn SnapshotFunc) (CancelFunc, error)

	// SubscribeDoc opens a live subscription to a single document.
	SubscribeDoc(ctx context.Context, collection, id string, fn DocFunc) (CancelFunc, error)

	// GetOnce runs a query once, with no ongoing notifications.
	GetOnce(ctx context.Context, q Query) ([]Document, error)

	// GetDoc fetches a single document once. Returns common.ErrorNotFound
	// if it does not exist.
	GetDoc(ctx context.Context, collection, id string) (Document, error)

	// WriteDoc creates or fully replaces a document.
	WriteDoc(ctx context.Context, collection, id string, data any) error

	// UpdateDoc overwrites only the named fields of an existing document.
	UpdateDoc(ctx context.Context, collection, id string, updates []Update) error

	// DeleteDoc removes a document.
	DeleteDoc(ctx context.Context, collection, id string) error
}
