package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aoralabs/aora/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	if email == "" || username == "" {
		fmt.Fprintln(a.out, "Email and username are required")
		return common.ErrValidation
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Register(ctx, email, password, username)
	if err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "Welcome back, %s!\n", user.Username)
	return nil
}

// Resume restores the session saved by a previous login on this machine.
func (a *App) Resume(ctx context.Context) error {
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Resume(ctx, password)
	if err != nil {
		if errors.Is(err, common.ErrNoSavedSession) {
			fmt.Fprintln(a.out, "No saved session on this machine, please log in")
		} else {
			fmt.Fprintln(a.out, "Resume failed:", err)
		}
		return err
	}
	a.user = user
	fmt.Fprintf(a.out, "Session restored, welcome back, %s!\n", user.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	a.user = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if a.user == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s)\n", a.user.Username, a.user.Email, a.user.ID)
	return nil
}
