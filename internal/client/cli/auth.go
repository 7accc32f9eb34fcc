package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/catclub/catclub/internal/client/session"
)

func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, username, email, password); err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Account created, you can log in now.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}

	s := a.session.Current()
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.Username)
	if exp, ok := session.TokenExpiry(s.Token); ok {
		fmt.Fprintf(a.out, "Session valid until %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Current()
	if !s.Authenticated || s.User == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s)\n", s.User.Username, s.User.Email, s.User.ID)
	if exp, ok := session.TokenExpiry(s.Token); ok {
		fmt.Fprintf(a.out, "Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
