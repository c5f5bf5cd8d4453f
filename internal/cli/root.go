package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Resume(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	CreatePost(ctx context.Context) error
	DeletePost(ctx context.Context, id string) error
	Feed(ctx context.Context) error
	Latest(ctx context.Context) error
	SearchPosts(ctx context.Context, term string) error
	MyPosts(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the Aora CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Aora CLI (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("aora %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: create, delete <id>, feed, latest, search <term>, myposts, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, resume, feed, latest, search <term>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "resume":
			_ = a.Resume(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "create":
			_ = a.CreatePost(ctx)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <post-id>")
				continue
			}
			_ = a.DeletePost(ctx, args[0])

		case "feed":
			_ = a.Feed(ctx)

		case "latest":
			_ = a.Latest(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <term>")
				continue
			}
			_ = a.SearchPosts(ctx, strings.Join(args, " "))

		case "myposts":
			_ = a.MyPosts(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
