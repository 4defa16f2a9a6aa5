package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/avoronkov/authcore/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, display name and password and creates
// an account. The returned tokens are stored in the session, so a
// successful registration leaves the user logged in.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	displayName, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pair, err := a.client.Register(ctx, email, password, displayName)
	if err != nil {
		return err
	}

	a.session = session{email: email, accessToken: pair.AccessToken, refreshToken: pair.RefreshToken}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials, authenticates against the server and
// stores the issued tokens in the session.
//
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	pair, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session = session{email: email, accessToken: pair.AccessToken, refreshToken: pair.RefreshToken}

	fmt.Println("Success!")
	return nil
}

// Refresh rotates the session's token pair.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrUnauthorized
	}

	pair, err := a.client.Refresh(ctx, a.session.refreshToken)
	if err != nil {
		return err
	}

	a.session.accessToken = pair.AccessToken
	a.session.refreshToken = pair.RefreshToken

	fmt.Println("Tokens rotated")
	return nil
}

// Whoami asks the server for the authenticated identity. When the
// server renews an expired access token the session picks up the new
// token transparently.
func (a *App) Whoami(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrUnauthorized
	}

	email, renewed, err := a.client.Me(ctx, a.session.accessToken, a.session.refreshToken)
	if err != nil {
		return err
	}

	if renewed != "" {
		a.session.accessToken = renewed
	}

	fmt.Println(email)
	return nil
}

// Logout drops the session tokens.
func (a *App) Logout(ctx context.Context) {
	a.session = session{}
	fmt.Println("Logged out")
}
