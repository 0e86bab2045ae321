package models

import "time"

// Group is a shared space. Identity is the document id. A Group with no
// corresponding Membership for the principal must not be retained locally.
type Group struct {
	ID              string    `firestore:"-" json:"-"`
	Name            string    `firestore:"name" json:"name"`
	PhotoRef        string    `firestore:"photoRef" json:"photoRef"`
	CreatorID       string    `firestore:"creatorId" json:"creatorId"`
	RequireApproval bool      `firestore:"requireApproval" json:"requireApproval"`
	CreatedAt       time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Membership joins a principal to a group. Exactly one document per
// (principalId, groupId); its existence is the sole authority for "is this
// group in my set".
type Membership struct {
	ID          string    `firestore:"-" json:"-"`
	PrincipalID string    `firestore:"principalId" json:"principalId"`
	GroupID     string    `firestore:"groupId" json:"groupId"`
	Role        string    `firestore:"role" json:"role"`
	JoinedAt    time.Time `firestore:"joinedAt" json:"joinedAt"`
}

// GroupMember is a Membership enriched with Principal fields for roster
// display. Derived, never persisted.
type GroupMember struct {
	Membership
	DisplayName string
	Tag         string
	AvatarRef   string
	Email       string
}
