package models

// Tag labels files within a group. FileRecord.TagIDs references tags by id
// only (weak reference): deleting a tag never dangles a FileRecord, the file
// simply loses the label at render time.
type Tag struct {
	ID      string `firestore:"-" json:"-"`
	GroupID string `firestore:"groupId" json:"groupId"`
	Name    string `firestore:"name" json:"name"`
	Color   string `firestore:"color" json:"color"`
}
