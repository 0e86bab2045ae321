// Package models defines the client-side projections of remote documents:
// principals, groups, memberships, file records and tags. Local copies are
// caches; the remote store owns their lifecycle.
package models

// Principal is a user profile. Mutated only by the remote profile document;
// local holders are read-mostly projections refreshed on every push.
type Principal struct {
	ID          string `firestore:"-" json:"-"`
	DisplayName string `firestore:"displayName" json:"displayName"`
	Tag         string `firestore:"tag" json:"tag"`
	AvatarRef   string `firestore:"avatarRef" json:"avatarRef"`
	Email       string `firestore:"email" json:"email"`
}

// UploaderProfile is the subset of Principal kept fresh by the uploader
// profile cache for file-list display.
type UploaderProfile struct {
	DisplayName string
	Tag         string
	AvatarRef   string
}
