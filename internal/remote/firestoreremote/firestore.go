// Package firestoreremote adapts Cloud Firestore to the remote.Client
// interface. Firestore query snapshots already carry exactly the shape the
// engine consumes: the full matching document set plus added/removed/modified
// document changes since the previous snapshot.
package firestoreremote

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/logging"
	"github.com/dmitrijs2005/groupshare/internal/remote"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Client struct {
	fs  *firestore.Client
	log logging.Logger
}

var _ remote.Client = (*Client)(nil)

func New(fs *firestore.Client, log logging.Logger) *Client {
	return &Client{fs: fs, log: log}
}

func (c *Client) buildQuery(q remote.Query) firestore.Query {
	fq := c.fs.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	return fq
}

func wrapDoc(snap *firestore.DocumentSnapshot) remote.Document {
	return remote.NewDocument(snap.Ref.ID, snap.DataTo)
}

func convertSnapshot(qs *firestore.QuerySnapshot) (remote.Snapshot, error) {
	out := remote.Snapshot{}

	for {
		doc, err := qs.Documents.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return remote.Snapshot{}, fmt.Errorf("reading snapshot documents: %w", err)
		}
		out.Docs = append(out.Docs, wrapDoc(doc))
	}

	for _, ch := range qs.Changes {
		kind := remote.DocModified
		switch ch.Kind {
		case firestore.DocumentAdded:
			kind = remote.DocAdded
		case firestore.DocumentRemoved:
			kind = remote.DocRemoved
		}
		out.Changes = append(out.Changes, remote.Change{Kind: kind, Doc: wrapDoc(ch.Doc)})
	}

	return out, nil
}

// mapError translates Firestore status codes into the shared sentinels so
// the engine can classify failures without importing grpc.
func mapError(err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %w", common.ErrorAccessDenied, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	case codes.Canceled:
		return fmt.Errorf("%w: %w", common.ErrSubscriptionClosed, err)
	default:
		return err
	}
}

func (c *Client) Subscribe(ctx context.Context, q remote.Query, fn remote.SnapshotFunc) (remote.CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := c.buildQuery(q).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				mapped := mapError(err)
				if remote.IsCancelled(mapped) {
					return
				}
				c.log.Warn(ctx, "query subscription failed", "collection", q.Collection, "error", err)
				fn(remote.Snapshot{}, mapped)
				return
			}

			snap, err := convertSnapshot(qs)
			if err != nil {
				fn(remote.Snapshot{}, mapError(err))
				return
			}
			fn(snap, nil)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}, nil
}

func (c *Client) SubscribeDoc(ctx context.Context, collection, id string, fn remote.DocFunc) (remote.CancelFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	it := c.fs.Collection(collection).Doc(id).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				mapped := mapError(err)
				if remote.IsCancelled(mapped) {
					return
				}
				c.log.Warn(ctx, "doc subscription failed", "collection", collection, "id", id, "error", err)
				fn(remote.Document{}, false, mapped)
				return
			}
			fn(wrapDoc(snap), snap.Exists(), nil)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}, nil
}

func (c *Client) GetOnce(ctx context.Context, q remote.Query) ([]remote.Document, error) {
	it := c.buildQuery(q).Documents(ctx)
	defer it.Stop()

	var docs []remote.Document
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapError(err)
		}
		docs = append(docs, wrapDoc(doc))
	}
	return docs, nil
}

func (c *Client) GetDoc(ctx context.Context, collection, id string) (remote.Document, error) {
	snap, err := c.fs.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return remote.Document{}, mapError(err)
	}
	if !snap.Exists() {
		return remote.Document{}, common.ErrorNotFound
	}
	return wrapDoc(snap), nil
}

func (c *Client) WriteDoc(ctx context.Context, collection, id string, data any) error {
	if _, err := c.fs.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) UpdateDoc(ctx context.Context, collection, id string, updates []remote.Update) error {
	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: u.Field, Value: u.Value})
	}
	if _, err := c.fs.Collection(collection).Doc(id).Update(ctx, fsUpdates); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *Client) DeleteDoc(ctx context.Context, collection, id string) error {
	if _, err := c.fs.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return mapError(err)
	}
	return nil
}
