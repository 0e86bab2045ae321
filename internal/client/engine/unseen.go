package engine

import (
	"time"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

// unseenState is the per-tracked-group badge state. The watermark is read
// from local storage when the group enters the tracked set and only ever
// advances from there.
type unseenState struct {
	watermark    time.Time
	count        int
	lastActivity time.Time
}

// watchGroupFiles opens the per-group file subscription that drives the
// unseen counter and the last-activity timestamp. It runs for every tracked
// group, focused or not.
func (e *Engine) watchGroupFiles(groupID string) {
	st := &unseenState{}
	ms, err := e.wm.Get(e.ctx, e.sess.PrincipalID(), groupID)
	if err != nil {
		e.log.Warn(e.ctx, "watermark read failed, counting from zero", "group", groupID, "error", err)
	} else if ms > 0 {
		st.watermark = time.UnixMilli(ms)
	}
	e.unseen[groupID] = st

	e.watch(keyGroupFiles(groupID), filesQuery(groupID), func(snap remote.Snapshot) {
		e.recountUnseen(groupID, snap)
	})
}

// recountUnseen recomputes the badge from a full snapshot. Focus is read
// live at execution time: a push queued for a group the user has since
// opened must not resurrect a cleared badge, so a focused group's watermark
// advances on every push and its count stays pinned at zero.
func (e *Engine) recountUnseen(groupID string, snap remote.Snapshot) {
	st := e.unseen[groupID]
	if st == nil {
		return
	}

	focused := e.focus == groupID
	if focused {
		st.watermark = e.now()
		st.count = 0
		e.persistWatermark(groupID, st.watermark)
	}

	self := e.sess.PrincipalID()
	count := 0
	var last time.Time
	for _, doc := range snap.Docs {
		var f models.FileRecord
		if err := doc.DataTo(&f); err != nil {
			continue
		}
		if f.UploadedAt.After(last) {
			last = f.UploadedAt
		}
		if focused {
			continue
		}
		// own and unattributed uploads never count as unseen
		if f.UploaderID == "" || f.UploaderID == self {
			continue
		}
		if f.UploadedAt.After(st.watermark) {
			count++
		}
	}

	if !focused {
		st.count = count
	}
	if last.After(st.lastActivity) {
		st.lastActivity = last
	}
	e.notifyChange()
}

// AckGroup marks a group's current activity as seen without focusing it:
// the watermark advances to now and the badge clears immediately.
func (e *Engine) AckGroup(groupID string) {
	e.call(func() { e.advanceWatermark(groupID) })
}

// advanceWatermark moves the pair's watermark to now, zeroes the badge and
// persists the new value. Failures to persist degrade to a stale badge
// after restart, never to a wrong in-session one.
func (e *Engine) advanceWatermark(groupID string) {
	now := e.now()
	if st := e.unseen[groupID]; st != nil {
		st.watermark = now
		st.count = 0
	}
	e.persistWatermark(groupID, now)
	e.notifyChange()
}

func (e *Engine) persistWatermark(groupID string, at time.Time) {
	if err := e.wm.Set(e.ctx, e.sess.PrincipalID(), groupID, at.UnixMilli()); err != nil {
		e.log.Warn(e.ctx, "watermark write failed", "group", groupID, "error", err)
	}
}

// Unseen returns the badge count for a tracked group; untracked ids report
// zero.
func (e *Engine) Unseen(groupID string) int {
	var out int
	e.call(func() {
		if st := e.unseen[groupID]; st != nil {
			out = st.count
		}
	})
	return out
}

// LastActivity returns the newest upload time observed in the group, used
// to order group lists by recency. Zero when nothing has been seen.
func (e *Engine) LastActivity(groupID string) time.Time {
	var out time.Time
	e.call(func() {
		if st := e.unseen[groupID]; st != nil {
			out = st.lastActivity
		}
	})
	return out
}
