package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/groupshare/internal/client/models"
	"github.com/dmitrijs2005/groupshare/internal/common"
	"github.com/dmitrijs2005/groupshare/internal/remote"
)

// rosterLookupLimit caps concurrent profile lookups during roster assembly.
const rosterLookupLimit = 8

// placeholderName is shown for a member whose profile document cannot be
// resolved; the roster row still renders with role and join date.
const placeholderName = "Unknown User"

// watchRoster subscribes to the focused group's membership records. Each
// push re-resolves every member's profile off the loop and swaps in the
// assembled roster when done.
func (e *Engine) watchRoster(groupID string) {
	q := remote.NewQuery(common.CollectionMemberships).
		Where("groupId", "==", groupID)
	e.watch(keyRoster, q, func(snap remote.Snapshot) {
		e.assembleRoster(groupID, snap)
	})
}

func (e *Engine) assembleRoster(groupID string, snap remote.Snapshot) {
	if e.focus != groupID {
		return
	}

	memberships := make([]models.Membership, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		var m models.Membership
		if err := doc.DataTo(&m); err != nil {
			e.log.Warn(e.ctx, "skipping malformed membership in roster", "id", doc.ID, "error", err)
			continue
		}
		m.ID = doc.ID
		memberships = append(memberships, m)
	}

	e.rosterGen++
	gen := e.rosterGen
	ctx := e.ctx

	go func() {
		members := make([]models.GroupMember, len(memberships))
		var g errgroup.Group
		g.SetLimit(rosterLookupLimit)
		for i, m := range memberships {
			g.Go(func() error {
				members[i] = e.resolveMember(ctx, m)
				return nil
			})
		}
		// lookups never return errors: an unresolvable profile yields a placeholder row
		_ = g.Wait()
		sortRoster(members)

		e.post(func() {
			if e.rosterGen != gen || e.focus != groupID {
				return
			}
			e.members = members
			e.notifyChange()
		})
	}()
}

// resolveMember joins a membership record with its principal profile. A
// missing or unreadable profile yields a placeholder row rather than a hole
// in the roster.
func (e *Engine) resolveMember(ctx context.Context, m models.Membership) models.GroupMember {
	member := models.GroupMember{Membership: m, DisplayName: placeholderName}

	doc, err := e.rc.GetDoc(ctx, common.CollectionUsers, m.PrincipalID)
	if err != nil {
		if !remote.IsNotFound(err) && !remote.IsCancelled(err) {
			e.log.Warn(ctx, "profile lookup failed", "principal", m.PrincipalID, "error", err)
		}
		return member
	}

	var p models.Principal
	if err := doc.DataTo(&p); err != nil {
		e.log.Warn(ctx, "skipping malformed profile", "principal", m.PrincipalID, "error", err)
		return member
	}
	member.DisplayName = p.DisplayName
	member.Tag = p.Tag
	member.AvatarRef = p.AvatarRef
	member.Email = p.Email
	return member
}

// sortRoster orders admins first, then by join date ascending within each
// role, with the membership id as a stable tiebreaker.
func sortRoster(members []models.GroupMember) {
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if (a.Role == common.RoleAdmin) != (b.Role == common.RoleAdmin) {
			return a.Role == common.RoleAdmin
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
}
