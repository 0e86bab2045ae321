package cli

import (
	"context"
	"fmt"
)

func (a *App) listTags(ctx context.Context) {
	groupID := a.eng.Focus()
	if groupID == "" {
		fmt.Fprintln(a.out, "No group focused, use 'focus <id>'")
		return
	}
	tags, err := a.tagService.List(ctx, groupID)
	if err != nil {
		fmt.Fprintf(a.out, "Could not list tags: %v\n", err)
		return
	}
	if len(tags) == 0 {
		fmt.Fprintln(a.out, "No tags yet")
		return
	}
	for _, t := range tags {
		fmt.Fprintf(a.out, "%s  %-15s %s\n", t.ID, t.Name, t.Color)
	}
}

func (a *App) tagAdd(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: tagadd <name> <color>")
		return
	}
	groupID := a.eng.Focus()
	if groupID == "" {
		fmt.Fprintln(a.out, "No group focused, use 'focus <id>'")
		return
	}
	tag, err := a.tagService.Create(ctx, groupID, args[0], args[1])
	if err != nil {
		fmt.Fprintf(a.out, "Could not create tag: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Created tag %s (%s)\n", tag.Name, tag.ID)
}

func (a *App) tagDel(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: tagdel <tag-id>")
		return
	}
	if err := a.tagService.Delete(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Could not delete tag: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Deleted")
}

func (a *App) tagAssign(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: tag <file-id> <tag-id>")
		return
	}
	if err := a.tagService.Assign(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(a.out, "Could not assign tag: %v\n", err)
	}
}

func (a *App) tagUnassign(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: untag <file-id> <tag-id>")
		return
	}
	if err := a.tagService.Unassign(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(a.out, "Could not unassign tag: %v\n", err)
	}
}
