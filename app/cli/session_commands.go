package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// LoginCommand signs a user in.
type LoginCommand struct {
	app *App
}

// NewLoginCommand creates a login command handler.
func NewLoginCommand(app *App) *LoginCommand {
	return &LoginCommand{app: app}
}

// Execute signs username in and stores the session. An empty password is
// read from the first line of the app's input.
func (c *LoginCommand) Execute(ctx context.Context, username, password string) error {
	if c.app.provider == nil {
		fmt.Fprintln(c.app.out, "Development mode: sign-in is not required")
		return nil
	}

	if password == "" {
		fmt.Fprint(c.app.out, "Password: ")
		line, err := bufio.NewReader(c.app.in).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(c.app.out)
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	session, err := c.app.provider.SignIn(ctx, username, password)
	if err != nil {
		return err
	}
	if err := c.app.sessions.Save(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.app.invalidate()

	fmt.Fprintf(c.app.out, "Signed in as %s\n", username)
	return nil
}

// LogoutCommand forgets the stored session.
type LogoutCommand struct {
	app *App
}

// NewLogoutCommand creates a logout command handler.
func NewLogoutCommand(app *App) *LogoutCommand {
	return &LogoutCommand{app: app}
}

// Execute clears the session and any credentials derived from it.
func (c *LogoutCommand) Execute() error {
	if err := c.app.sessions.Clear(); err != nil {
		return err
	}
	c.app.invalidate()
	fmt.Fprintln(c.app.out, "Signed out")
	return nil
}
