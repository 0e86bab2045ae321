package engine

import (
	"context"
	"sort"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

func filesQuery(groupID string) remote.Query {
	return remote.NewQuery(common.CollectionFiles).
		Where("groupId", "==", groupID)
}

// watchFocusedFiles opens the delta subscription for the focused group's
// file list. The subscription is a change detector, not the source of
// truth: structural changes trigger an authoritative refetch while
// in-place modifications are patched into the cached list directly.
func (e *Engine) watchFocusedFiles(groupID string) {
	e.watch(keyFiles, filesQuery(groupID), func(snap remote.Snapshot) {
		e.handleFileDeltas(groupID, snap)
	})
}

func (e *Engine) handleFileDeltas(groupID string, snap remote.Snapshot) {
	if e.focus != groupID {
		return
	}

	// A snapshot without change records comes from the polling fallback
	// and is authoritative by construction.
	if len(snap.Changes) == 0 {
		e.applyFileList(groupID, decodeFiles(e, snap.Docs))
		return
	}

	structural := false
	for _, ch := range snap.Changes {
		switch ch.Kind {
		case remote.DocAdded, remote.DocRemoved:
			structural = true
		case remote.DocModified:
			e.patchFile(ch.Doc)
		}
	}
	if structural {
		e.refetchFiles(groupID)
	}
}

// refetchFiles fetches the full ordered file list off the loop, retrying
// transient failures a bounded number of times with exponential backoff.
// If every attempt fails the cached list stays visible; the next delta
// will trigger another refetch.
func (e *Engine) refetchFiles(groupID string) {
	e.filesGen++
	gen := e.filesGen
	ctx := e.ctx

	q := filesQuery(groupID).OrderBy("uploadedAt", false)

	attempts := e.refetchAttempts
	if attempts < 1 {
		attempts = 1
	}

	go func() {
		var docs []remote.Document
		b := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(e.refetchBaseDelay))
		err := retry.Do(ctx, b, func(ctx context.Context) error {
			var err error
			docs, err = e.rc.GetOnce(ctx, q)
			if err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			if !remote.IsCancelled(err) {
				e.log.Error(ctx, "file refetch failed, keeping last known list", "group", groupID, "error", err)
			}
			return
		}

		files := decodeFiles(e, docs)
		e.post(func() {
			if e.filesGen != gen || e.focus != groupID {
				return
			}
			e.applyFileList(groupID, files)
		})
	}()
}

// applyFileList replaces the cached list and reconciles the uploader
// profile subscriptions against the new uploader set.
func (e *Engine) applyFileList(groupID string, files []models.FileRecord) {
	sortFiles(files)
	e.files = files
	e.reconcileUploaders()
	e.notifyChange()
}

// patchFile applies an in-place modification to the matching cached record,
// touching only the mutable fields. List position and identity are left
// alone, so applying the same delta twice is a no-op. A delta for an id not
// yet in the cache is dropped; the in-flight refetch will carry it.
func (e *Engine) patchFile(doc remote.Document) {
	var in models.FileRecord
	if err := doc.DataTo(&in); err != nil {
		e.log.Warn(e.ctx, "skipping malformed file delta", "id", doc.ID, "error", err)
		return
	}

	for i := range e.files {
		if e.files[i].ID != doc.ID {
			continue
		}
		f := &e.files[i]
		f.Name = in.Name
		f.SizeBytes = in.SizeBytes
		f.MimeCategory = in.MimeCategory
		f.DownloadCount = in.DownloadCount
		f.VersionCount = in.VersionCount
		f.TagIDs = in.TagIDs
		f.URL = in.URL
		e.notifyChange()
		return
	}
}

func decodeFiles(e *Engine, docs []remote.Document) []models.FileRecord {
	files := make([]models.FileRecord, 0, len(docs))
	for _, doc := range docs {
		var f models.FileRecord
		if err := doc.DataTo(&f); err != nil {
			e.log.Warn(e.ctx, "skipping malformed file record", "id", doc.ID, "error", err)
			continue
		}
		f.ID = doc.ID
		files = append(files, f)
	}
	return files
}

// sortFiles orders by upload time ascending. The refetch query already
// orders, but the polling fallback does not, so the engine sorts either
// way.
func sortFiles(files []models.FileRecord) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].UploadedAt.Equal(files[j].UploadedAt) {
			return files[i].UploadedAt.Before(files[j].UploadedAt)
		}
		return files[i].ID < files[j].ID
	})
}
