package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
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
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Prefs(ctx context.Context) error
	List(ctx context.Context, search string) error
	Mine(ctx context.Context) error
	Favorites(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Favorite(ctx context.Context, id string) error
	Rate(ctx context.Context, id, score string) error
	Delete(ctx context.Context, id string) error
	Swap(ctx context.Context, id, ingredient string) error
	Generate(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, list [search], show <id>, swap <id> <ingredient>, generate, exit"
	helpSignedIn  = "Available commands: whoami, prefs, list [search], mine, favorites, show <id>, fav <id>, " +
		"rate <id> <1-5>, delete <id>, swap <id> <ingredient>, generate, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the recipe CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Unknown commands and missing arguments are
// reported back to the user. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Every error returned by a handler is turned into a message with
// describeError; the loop itself never stops on a failed command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("recipes %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "prefs":
			cmdErr = a.Prefs(ctx)

		case "l", "list":
			cmdErr = a.List(ctx, strings.Join(args, " "))
		case "mine":
			cmdErr = a.Mine(ctx)
		case "favorites":
			cmdErr = a.Favorites(ctx)

		case "show", "fav", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				cmdErr = a.Show(ctx, args[0])
			case "fav":
				cmdErr = a.Favorite(ctx, args[0])
			case "delete":
				cmdErr = a.Delete(ctx, args[0])
			}

		case "rate":
			if len(args) != 2 {
				printlnFn("Usage: rate <id> <1-5>")
				continue
			}
			cmdErr = a.Rate(ctx, args[0], args[1])

		case "swap":
			if len(args) < 2 {
				printlnFn("Usage: swap <id> <ingredient>")
				continue
			}
			cmdErr = a.Swap(ctx, args[0], strings.Join(args[1:], " "))

		case "generate":
			cmdErr = a.Generate(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}

		if err != nil {
			return
		}
	}
}
