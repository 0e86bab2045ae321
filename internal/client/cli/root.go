package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.sess == nil {
		return ""
	}
	s := a.sess.PrincipalID()
	if focus := a.eng.Focus(); focus != "" {
		s = s + " @" + focus
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to GroupShare CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.Login(ctx)

	for {
		fmt.Fprintf(a.out, "gsh %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if !a.isLoggedIn() && cmd != "login" && cmd != "help" && cmd != "exit" && cmd != "quit" {
			fmt.Fprintln(a.out, "Not signed in, use 'login'")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: groups, focus <id|->, members, files, badges, ack <group>,")
				fmt.Fprintln(a.out, "  upload <path>, replace <file> <path>, rename <file> <name>, rm <file>,")
				fmt.Fprintln(a.out, "  download <file>, tags, tagadd <name> <color>, tagdel <id>,")
				fmt.Fprintln(a.out, "  tag <file> <tag>, untag <file> <tag>, whoami, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, exit")
			}
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.whoami(ctx)
		case "groups":
			a.listGroups(ctx)
		case "focus":
			a.focus(ctx, args)
		case "members":
			a.listMembers(ctx)
		case "files":
			a.listFiles(ctx)
		case "badges":
			a.listBadges(ctx)
		case "ack":
			a.ack(ctx, args)
		case "upload":
			a.upload(ctx, args)
		case "replace":
			a.replace(ctx, args)
		case "rename":
			a.rename(ctx, args)
		case "rm":
			a.remove(ctx, args)
		case "download":
			a.download(ctx, args)
		case "tags":
			a.listTags(ctx)
		case "tagadd":
			a.tagAdd(ctx, args)
		case "tagdel":
			a.tagDel(ctx, args)
		case "tag":
			a.tagAssign(ctx, args)
		case "untag":
			a.tagUnassign(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
