package engine

import (
	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

// reconcileUploaders diffs the distinct uploader ids in the cached file
// list against the live profile subscriptions. It runs only when the list
// shape changes; in-place file patches never alter the uploader set, so
// they skip this entirely.
func (e *Engine) reconcileUploaders() {
	want := map[string]struct{}{}
	for _, f := range e.files {
		if f.UploaderID != "" {
			want[f.UploaderID] = struct{}{}
		}
	}

	for id := range e.uploaderIDs {
		if _, ok := want[id]; !ok {
			e.subs.remove(keyUploader(id))
			delete(e.uploaderIDs, id)
			delete(e.uploaders, id)
		}
	}
	for id := range want {
		if _, ok := e.uploaderIDs[id]; !ok {
			e.uploaderIDs[id] = struct{}{}
			e.watchUploader(id)
		}
	}
}

// watchUploader keeps one uploader's profile live. Profiles are shared
// across all files referencing the uploader; a display-name change lands on
// every row at once.
func (e *Engine) watchUploader(id string) {
	key := keyUploader(id)
	if e.subs.has(key) {
		return
	}

	gen := e.subs.begin(key)
	cancel, err := e.rc.SubscribeDoc(e.ctx, common.CollectionUsers, id, func(doc remote.Document, exists bool, err error) {
		e.post(func() {
			if !e.subs.current(key, gen) {
				return
			}
			if err != nil {
				if !remote.IsCancelled(err) {
					e.log.Warn(e.ctx, "uploader profile subscription error", "principal", id, "error", err)
				}
				return
			}
			if !exists {
				delete(e.uploaders, id)
				e.notifyChange()
				return
			}
			var p models.Principal
			if err := doc.DataTo(&p); err != nil {
				e.log.Warn(e.ctx, "skipping malformed uploader profile", "principal", id, "error", err)
				return
			}
			e.uploaders[id] = models.UploaderProfile{
				DisplayName: p.DisplayName,
				Tag:         p.Tag,
				AvatarRef:   p.AvatarRef,
			}
			e.notifyChange()
		})
	})
	if err != nil {
		e.log.Warn(e.ctx, "uploader profile subscribe failed", "principal", id, "error", err)
		return
	}
	e.subs.add(key, cancel)
}
