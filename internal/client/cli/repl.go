package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests substitute a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListCats(ctx context.Context) error
	ShowCat(ctx context.Context, id string) error
	AddCat(ctx context.Context) error
	DeleteCat(ctx context.Context, id string) error
	AddGrowth(ctx context.Context, catID string) error
	ListPosts(ctx context.Context) error
	ShowPost(ctx context.Context, id string) error
	AddPost(ctx context.Context) error
	DeletePost(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID string) error
	DeleteComment(ctx context.Context, postID, commentID string) error
}

const (
	helpAnonymous = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: cats, cat <id>, addcat, delcat <id>, growth <cat-id>, " +
		"posts, post <id>, addpost, delpost <id>, comment <post-id>, delcomment <post-id> <comment-id>, " +
		"whoami, logout, exit"
)

// runREPL reads commands line by line and dispatches them. Handlers report
// their own failures; the loop stays alive until EOF or exit/quit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, out io.Writer) {
	for {
		fmt.Fprintf(out, "catclub %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)

		case "cats":
			_ = a.ListCats(ctx)
		case "cat":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: cat <id>")
				continue
			}
			_ = a.ShowCat(ctx, args[0])
		case "addcat":
			_ = a.AddCat(ctx)
		case "delcat":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: delcat <id>")
				continue
			}
			_ = a.DeleteCat(ctx, args[0])
		case "growth":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: growth <cat-id>")
				continue
			}
			_ = a.AddGrowth(ctx, args[0])

		case "posts":
			_ = a.ListPosts(ctx)
		case "post":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: post <id>")
				continue
			}
			_ = a.ShowPost(ctx, args[0])
		case "addpost":
			_ = a.AddPost(ctx)
		case "delpost":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: delpost <id>")
				continue
			}
			_ = a.DeletePost(ctx, args[0])
		case "comment":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: comment <post-id>")
				continue
			}
			_ = a.AddComment(ctx, args[0])
		case "delcomment":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: delcomment <post-id> <comment-id>")
				continue
			}
			_ = a.DeleteComment(ctx, args[0], args[1])

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
