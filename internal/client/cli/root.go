package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.session.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.email)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to authcore CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("authcore %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, refresh, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, ping, exit")
			}

		case "register":
			a.runCommand(ctx, a.Register)
		case "login":
			a.runCommand(ctx, a.Login)
		case "refresh":
			a.runCommand(ctx, a.Refresh)
		case "whoami":
			a.runCommand(ctx, a.Whoami)
		case "ping":
			a.runCommand(ctx, a.Ping)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}

// runCommand executes a command and reports its error on stdout instead
// of aborting the loop.
func (a *App) runCommand(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		fmt.Println(err.Error())
	}
}

// Ping reports whether the server is reachable.
func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	fmt.Println("OK")
	return nil
}
