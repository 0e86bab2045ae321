// Package services implements the write-side operations of the client:
// uploading, replacing, renaming and deleting shared files, and managing
// tags. Reads go through the sync engine; these services only talk to the
// remote store and the blob backend.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/groupshare/internal/client/blob"
	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/client/session"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/filex"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

type FileService interface {
	Upload(ctx context.Context, groupID string, path string) (*models.FileRecord, error)
	Replace(ctx context.Context, fileID string, path string) error
	Rename(ctx context.Context, fileID string, name string) error
	Delete(ctx context.Context, fileID string) error
	RecordDownload(ctx context.Context, fileID string) error
}

type fileService struct {
	rc    remote.Client
	blobs blob.Store
	sess  *session.Session
	now   func() time.Time
}

func NewFileService(rc remote.Client, blobs blob.Store, sess *session.Session) FileService {
	return &fileService{rc: rc, blobs: blobs, sess: sess, now: time.Now}
}

// Upload stores the file bytes in the blob backend and publishes a new
// FileRecord. The uploader's display name is embedded as a snapshot for
// cheap rendering; live profiles come from the uploader cache.
func (s *fileService) Upload(ctx context.Context, groupID string, path string) (*models.FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("error reading file info: %w", err)
	}

	key := blob.RandomStorageKey(groupID)
	url, err := s.blobs.Put(ctx, key, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("error uploading file content: %w", err)
	}

	name := filepath.Base(path)
	record := models.FileRecord{
		ID:           uuid.NewString(),
		GroupID:      groupID,
		Name:         name,
		SizeBytes:    info.Size(),
		MimeCategory: filex.MimeCategory(name),
		UploaderID:   s.sess.PrincipalID(),
		UploaderName: s.sess.Profile().Get().DisplayName,
		UploadedAt:   s.now(),
		VersionCount: 1,
		URL:          url,
		StorageKey:   key,
	}

	if err := s.rc.WriteDoc(ctx, common.CollectionFiles, record.ID, record); err != nil {
		return nil, fmt.Errorf("error publishing file record: %w", err)
	}
	return &record, nil
}

// Replace swaps the file content while keeping the record id stable: the
// version count is bumped and the blob key rotated, so stale presigned URLs
// die with the old object.
func (s *fileService) Replace(ctx context.Context, fileID string, path string) error {
	record, err := s.getRecord(ctx, fileID)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("error reading file info: %w", err)
	}

	key := blob.RandomStorageKey(record.GroupID)
	url, err := s.blobs.Put(ctx, key, f, info.Size())
	if err != nil {
		return fmt.Errorf("error uploading file content: %w", err)
	}

	err = s.rc.UpdateDoc(ctx, common.CollectionFiles, fileID, []remote.Update{
		{Field: "sizeBytes", Value: info.Size()},
		{Field: "versionCount", Value: record.VersionCount + 1},
		{Field: "url", Value: url},
		{Field: "storageKey", Value: key},
	})
	if err != nil {
		return fmt.Errorf("error updating file record: %w", err)
	}

	if record.StorageKey != "" {
		if err := s.blobs.Remove(ctx, record.StorageKey); err != nil {
			return fmt.Errorf("error removing old file content: %w", err)
		}
	}
	return nil
}

func (s *fileService) Rename(ctx context.Context, fileID string, name string) error {
	err := s.rc.UpdateDoc(ctx, common.CollectionFiles, fileID, []remote.Update{
		{Field: "name", Value: name},
		{Field: "mimeCategory", Value: filex.MimeCategory(name)},
	})
	if err != nil {
		return fmt.Errorf("error renaming file: %w", err)
	}
	return nil
}

// Delete removes the record first so subscribers converge even if the blob
// removal fails; an orphaned blob is invisible to clients.
func (s *fileService) Delete(ctx context.Context, fileID string) error {
	record, err := s.getRecord(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.rc.DeleteDoc(ctx, common.CollectionFiles, fileID); err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if record.StorageKey != "" {
		if err := s.blobs.Remove(ctx, record.StorageKey); err != nil {
			return fmt.Errorf("error removing file content: %w", err)
		}
	}
	return nil
}

// RecordDownload bumps the download counter. Concurrent bumps may lose an
// increment; the counter is informational.
func (s *fileService) RecordDownload(ctx context.Context, fileID string) error {
	record, err := s.getRecord(ctx, fileID)
	if err != nil {
		return err
	}

	err = s.rc.UpdateDoc(ctx, common.CollectionFiles, fileID, []remote.Update{
		{Field: "downloadCount", Value: record.DownloadCount + 1},
	})
	if err != nil {
		return fmt.Errorf("error recording download: %w", err)
	}
	return nil
}

func (s *fileService) getRecord(ctx context.Context, fileID string) (*models.FileRecord, error) {
	doc, err := s.rc.GetDoc(ctx, common.CollectionFiles, fileID)
	if err != nil {
		return nil, fmt.Errorf("error fetching file record: %w", err)
	}
	var record models.FileRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, fmt.Errorf("error decoding file record: %w", err)
	}
	record.ID = fileID
	return &record, nil
}
