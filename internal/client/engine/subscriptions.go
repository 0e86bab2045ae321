package engine

import (
	"context"
	"time"

	"github.com/dmitrijs2005/groupshare/internal/remote"
)

const (
	keyMemberships = "memberships"
	keyRoster      = "roster"
	keyFiles       = "files"
)

func keyGroup(id string) string      { return "group/" + id }
func keyGroupFiles(id string) string { return "groupfiles/" + id }
func keyUploader(id string) string   { return "uploader/" + id }

// subscriptionSet maps logical subscription keys to their cancel handles.
// Every key carries a generation counter bumped on add and remove, so a
// callback captured against an older handle is recognized as stale and
// dropped by the loop.
type subscriptionSet struct {
	cancels map[string]remote.CancelFunc
	gens    map[string]int
}

func newSubscriptionSet() *subscriptionSet {
	return &subscriptionSet{
		cancels: map[string]remote.CancelFunc{},
		gens:    map[string]int{},
	}
}

func (s *subscriptionSet) has(key string) bool {
	_, ok := s.cancels[key]
	return ok
}

// begin reserves a new generation for key. Callbacks wired before add runs
// compare against this value.
func (s *subscriptionSet) begin(key string) int {
	s.gens[key]++
	return s.gens[key]
}

func (s *subscriptionSet) add(key string, cancel remote.CancelFunc) {
	if old, ok := s.cancels[key]; ok {
		old()
	}
	s.cancels[key] = cancel
}

func (s *subscriptionSet) current(key string, gen int) bool {
	return s.has(key) && s.gens[key] == gen
}

func (s *subscriptionSet) remove(key string) {
	if cancel, ok := s.cancels[key]; ok {
		cancel()
		delete(s.cancels, key)
	}
	s.gens[key]++
}

func (s *subscriptionSet) removeAll() {
	for key := range s.cancels {
		s.remove(key)
	}
}

// watch opens a live query subscription under key and routes every snapshot
// through the task loop into apply. If key already holds a live handle the
// call is a no-op, so a second redundant request cannot double-subscribe.
//
// A denied query is applied as an empty snapshot: the documents are no
// longer reachable and derived state must reflect that. Any other fatal
// channel error degrades the key to periodic polling; the data keeps
// flowing, just without push latency.
func (e *Engine) watch(key string, q remote.Query, apply func(remote.Snapshot)) {
	if e.subs.has(key) {
		return
	}

	gen := e.subs.begin(key)
	cancel, err := e.rc.Subscribe(e.ctx, q, func(snap remote.Snapshot, err error) {
		e.post(func() {
			if !e.subs.current(key, gen) {
				return
			}
			if err != nil {
				if remote.IsAccessDenied(err) {
					apply(remote.Snapshot{})
					return
				}
				e.log.Warn(e.ctx, "subscription channel failed, falling back to polling", "key", key, "error", err)
				e.startPolling(key, q, apply)
				return
			}
			apply(snap)
		})
	})
	if err != nil {
		e.log.Warn(e.ctx, "subscribe failed, falling back to polling", "key", key, "error", err)
		e.startPolling(key, q, apply)
		return
	}
	e.subs.add(key, cancel)
}

// startPolling replaces key's handle with a ticker that refetches the query
// at the configured interval. Poll results are delivered as doc-only
// snapshots; consumers treat a snapshot without changes as authoritative.
func (e *Engine) startPolling(key string, q remote.Query, apply func(remote.Snapshot)) {
	e.subs.remove(key)
	gen := e.subs.begin(key)

	ctx, cancel := context.WithCancel(e.ctx)
	e.subs.add(key, remote.CancelFunc(cancel))

	go func() {
		t := time.NewTicker(e.pollInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				docs, err := e.rc.GetOnce(ctx, q)
				if err != nil {
					e.log.Warn(ctx, "poll failed", "key", key, "error", err)
					continue
				}
				e.post(func() {
					if !e.subs.current(key, gen) {
						return
					}
					apply(remote.Snapshot{Docs: docs})
				})
			}
		}
	}()
}
