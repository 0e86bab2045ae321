package common

// Collection names in the remote store. All layers refer to collections
// through these constants so a rename stays a one-line change.
const (
	CollectionUsers       = "users"
	CollectionGroups      = "groups"
	CollectionMemberships = "memberships"
	CollectionFiles       = "files"
	CollectionTags        = "tags"
)

// Membership roles. The remote store only ever contains these two values.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
