package models

import "time"

// FileRecord describes one shared file. The id is stable across edits:
// replacing the bytes bumps VersionCount, never the id. Within a group,
// files are totally ordered by UploadedAt ascending.
type FileRecord struct {
	ID            string    `firestore:"-" json:"-"`
	GroupID       string    `firestore:"groupId" json:"groupId"`
	Name          string    `firestore:"name" json:"name"`
	SizeBytes     int64     `firestore:"sizeBytes" json:"sizeBytes"`
	MimeCategory  string    `firestore:"mimeCategory" json:"mimeCategory"`
	UploaderID    string    `firestore:"uploaderId" json:"uploaderId"`
	UploaderName  string    `firestore:"uploaderName" json:"uploaderName"`
	UploadedAt    time.Time `firestore:"uploadedAt" json:"uploadedAt"`
	DownloadCount int64     `firestore:"downloadCount" json:"downloadCount"`
	VersionCount  int64     `firestore:"versionCount" json:"versionCount"`
	TagIDs        []string  `firestore:"tagIds" json:"tagIds"`
	URL           string    `firestore:"url" json:"url"`
	StorageKey    string    `firestore:"storageKey" json:"storageKey"`
}
