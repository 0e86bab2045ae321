package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

type TagService interface {
	Create(ctx context.Context, groupID string, name string, color string) (*models.Tag, error)
	Delete(ctx context.Context, tagID string) error
	List(ctx context.Context, groupID string) ([]models.Tag, error)
	Assign(ctx context.Context, fileID string, tagID string) error
	Unassign(ctx context.Context, fileID string, tagID string) error
}

type tagService struct {
	rc remote.Client
}

func NewTagService(rc remote.Client) TagService {
	return &tagService{rc: rc}
}

func (s *tagService) Create(ctx context.Context, groupID string, name string, color string) (*models.Tag, error) {
	tag := models.Tag{
		ID:      uuid.NewString(),
		GroupID: groupID,
		Name:    name,
		Color:   color,
	}
	if err := s.rc.WriteDoc(ctx, common.CollectionTags, tag.ID, tag); err != nil {
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return &tag, nil
}

// Delete removes the tag and strips its id from every file referencing it.
// References are weak, so a file whose cleanup write is lost merely carries
// a dangling id that renderers ignore.
func (s *tagService) Delete(ctx context.Context, tagID string) error {
	doc, err := s.rc.GetDoc(ctx, common.CollectionTags, tagID)
	if err != nil {
		return fmt.Errorf("error fetching tag: %w", err)
	}
	var tag models.Tag
	if err := doc.DataTo(&tag); err != nil {
		return fmt.Errorf("error decoding tag: %w", err)
	}

	if err := s.rc.DeleteDoc(ctx, common.CollectionTags, tagID); err != nil {
		return fmt.Errorf("error deleting tag: %w", err)
	}

	q := remote.NewQuery(common.CollectionFiles).Where("groupId", "==", tag.GroupID)
	docs, err := s.rc.GetOnce(ctx, q)
	if err != nil {
		return fmt.Errorf("error listing files for tag cleanup: %w", err)
	}

	for _, d := range docs {
		var f models.FileRecord
		if err := d.DataTo(&f); err != nil {
			continue
		}
		stripped, found := removeID(f.TagIDs, tagID)
		if !found {
			continue
		}
		err := s.rc.UpdateDoc(ctx, common.CollectionFiles, d.ID, []remote.Update{
			{Field: "tagIds", Value: stripped},
		})
		if err != nil {
			return fmt.Errorf("error detaching tag from file: %w", err)
		}
	}
	return nil
}

func (s *tagService) List(ctx context.Context, groupID string) ([]models.Tag, error) {
	q := remote.NewQuery(common.CollectionTags).Where("groupId", "==", groupID)
	docs, err := s.rc.GetOnce(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}

	tags := make([]models.Tag, 0, len(docs))
	for _, d := range docs {
		var tag models.Tag
		if err := d.DataTo(&tag); err != nil {
			continue
		}
		tag.ID = d.ID
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *tagService) Assign(ctx context.Context, fileID string, tagID string) error {
	doc, err := s.rc.GetDoc(ctx, common.CollectionFiles, fileID)
	if err != nil {
		return fmt.Errorf("error fetching file record: %w", err)
	}
	var f models.FileRecord
	if err := doc.DataTo(&f); err != nil {
		return fmt.Errorf("error decoding file record: %w", err)
	}
	for _, id := range f.TagIDs {
		if id == tagID {
			return nil
		}
	}
	err = s.rc.UpdateDoc(ctx, common.CollectionFiles, fileID, []remote.Update{
		{Field: "tagIds", Value: append(f.TagIDs, tagID)},
	})
	if err != nil {
		return fmt.Errorf("error assigning tag: %w", err)
	}
	return nil
}

func (s *tagService) Unassign(ctx context.Context, fileID string, tagID string) error {
	doc, err := s.rc.GetDoc(ctx, common.CollectionFiles, fileID)
	if err != nil {
		return fmt.Errorf("error fetching file record: %w", err)
	}
	var f models.FileRecord
	if err := doc.DataTo(&f); err != nil {
		return fmt.Errorf("error decoding file record: %w", err)
	}
	stripped, found := removeID(f.TagIDs, tagID)
	if !found {
		return nil
	}
	err = s.rc.UpdateDoc(ctx, common.CollectionFiles, fileID, []remote.Update{
		{Field: "tagIds", Value: stripped},
	})
	if err != nil {
		return fmt.Errorf("error unassigning tag: %w", err)
	}
	return nil
}

func removeID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	return out, found
}
