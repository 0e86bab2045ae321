package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/groupshare/internal/common"
)

func (a *App) whoami(_ context.Context) {
	p := a.sess.Profile().Get()
	name := p.DisplayName
	if name == "" {
		name = a.sess.PrincipalID()
	}
	fmt.Fprintf(a.out, "%s (%s) %s\n", name, a.sess.PrincipalID(), p.Email)
}

func (a *App) listGroups(_ context.Context) {
	groups := a.eng.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No groups")
		return
	}
	for _, g := range groups {
		badge := ""
		if n := a.eng.Unseen(g.ID); n > 0 {
			badge = fmt.Sprintf(" [%d new]", n)
		}
		last := ""
		if t := a.eng.LastActivity(g.ID); !t.IsZero() {
			last = "  last activity " + t.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%s  %s%s%s\n", g.ID, g.Name, badge, last)
	}
}

func (a *App) focus(_ context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: focus <group-id|->")
		return
	}
	id := args[0]
	if id == "-" {
		id = ""
	}
	if err := a.eng.SetFocus(id); err != nil {
		fmt.Fprintf(a.out, "Could not focus %s: %v\n", args[0], err)
		return
	}
	if id == "" {
		fmt.Fprintln(a.out, "Focus cleared")
	}
}

func (a *App) listMembers(_ context.Context) {
	if a.eng.Focus() == "" {
		fmt.Fprintln(a.out, "No group focused, use 'focus <id>'")
		return
	}
	members := a.eng.Members()
	if len(members) == 0 {
		fmt.Fprintln(a.out, "No members yet")
		return
	}
	for _, m := range members {
		marker := " "
		if m.Role == common.RoleAdmin {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-20s joined %s\n", marker, m.DisplayName, m.JoinedAt.Local().Format("2006-01-02"))
	}
}

func (a *App) listBadges(_ context.Context) {
	for _, g := range a.eng.Groups() {
		fmt.Fprintf(a.out, "%-20s %d\n", g.Name, a.eng.Unseen(g.ID))
	}
}

func (a *App) ack(_ context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: ack <group-id>")
		return
	}
	a.eng.AckGroup(args[0])
}
