package engine

import (
	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

// watchMemberships opens the primary subscription: all membership records
// for the signed-in principal. Every other subscription in the engine is
// derived from the group-id set this query yields.
func (e *Engine) watchMemberships() {
	q := remote.NewQuery(common.CollectionMemberships).
		Where("principalId", "==", e.sess.PrincipalID())
	e.watch(keyMemberships, q, e.handleMemberships)
}

// handleMemberships diffs the pushed membership set against the tracked set
// and opens or tears down per-group resources accordingly. The handler is
// written to be re-runnable: applying the same snapshot twice converges to
// the same state.
func (e *Engine) handleMemberships(snap remote.Snapshot) {
	current := map[string]struct{}{}
	for _, doc := range snap.Docs {
		var m models.Membership
		if err := doc.DataTo(&m); err != nil {
			e.log.Warn(e.ctx, "skipping malformed membership", "id", doc.ID, "error", err)
			continue
		}
		if m.GroupID == "" {
			continue
		}
		current[m.GroupID] = struct{}{}
	}

	for id := range e.tracked {
		if _, ok := current[id]; !ok {
			e.evictGroup(id)
		}
	}
	for id := range current {
		if _, ok := e.tracked[id]; !ok {
			e.trackGroup(id)
		}
	}

	if len(current) == 0 && e.focus != "" {
		e.setFocus("")
	}
	e.notifyChange()
}

// trackGroup opens the per-group document subscription and the per-group
// file subscription that feeds the unseen counter.
func (e *Engine) trackGroup(id string) {
	e.tracked[id] = struct{}{}
	e.watchGroupDoc(id)
	e.watchGroupFiles(id)
}

// evictGroup is the single teardown path for a group leaving the tracked
// set. Membership removal and group-document loss both land here; whichever
// signal arrives second finds the group already gone and does nothing.
func (e *Engine) evictGroup(id string) {
	if _, ok := e.tracked[id]; !ok {
		return
	}
	delete(e.tracked, id)
	e.subs.remove(keyGroup(id))
	e.subs.remove(keyGroupFiles(id))
	delete(e.groups, id)
	delete(e.unseen, id)

	if e.focus == id {
		e.setFocus("")
	}
	e.notifyChange()
}

// watchGroupDoc keeps the cached group detail live. Each push replaces the
// cached record wholesale; merging fields across pushes could resurrect a
// value the server already cleared.
func (e *Engine) watchGroupDoc(id string) {
	key := keyGroup(id)
	if e.subs.has(key) {
		return
	}

	gen := e.subs.begin(key)
	cancel, err := e.rc.SubscribeDoc(e.ctx, common.CollectionGroups, id, func(doc remote.Document, exists bool, err error) {
		e.post(func() {
			if !e.subs.current(key, gen) {
				return
			}
			if err != nil {
				if remote.IsAccessDenied(err) {
					e.evictGroup(id)
					return
				}
				e.log.Warn(e.ctx, "group subscription error, keeping last known detail", "group", id, "error", err)
				return
			}
			if !exists {
				e.evictGroup(id)
				return
			}
			var g models.Group
			if err := doc.DataTo(&g); err != nil {
				e.log.Warn(e.ctx, "skipping malformed group detail", "group", id, "error", err)
				return
			}
			g.ID = id
			e.groups[id] = g
			e.notifyChange()
		})
	})
	if err != nil {
		e.log.Warn(e.ctx, "group subscribe failed", "group", id, "error", err)
		return
	}
	e.subs.add(key, cancel)
}
