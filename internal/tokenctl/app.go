// Package tokenctl implements the operator command line tool. It works
// against the configured store directly, without a running server.
//
// Usage:
//
//	tokenctl <command> [flags]
//
// Commands:
//
//	add-user -email E [-name N] [-role R]   create a user, print its id
//	issue -user ID                          issue a token pair for a user
//	refresh -token T                        rotate a refresh token
//	revoke -token T                         revoke a refresh token
//	verify -access T [-unverified]          print the claims of an access token
//
// Server configuration flags (-store, -d, -redis, -s, ...) and the -c config
// file are accepted alongside any command. Refresh tokens are base64url and
// may start with '-'; pass them as -token=T.
package tokenctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophsession/internal/flagx"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

// ErrUsage is returned for an unknown command or missing arguments.
var ErrUsage = errors.New("usage: tokenctl <add-user|issue|refresh|revoke|verify> [flags]")

type App struct {
	users  *services.UserService
	tokens *services.TokenService
	out    io.Writer
}

func NewApp(us *services.UserService, ts *services.TokenService, out io.Writer) *App {
	return &App{users: us, tokens: ts, out: out}
}

// Run executes the command named by args[0] with the remaining args.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "add-user":
		return a.addUser(ctx, rest)
	case "issue":
		return a.issue(ctx, rest)
	case "refresh":
		return a.refresh(ctx, rest)
	case "revoke":
		return a.revoke(ctx, rest)
	case "verify":
		return a.verify(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) addUser(ctx context.Context, args []string) error {
	var email, name, role string

	fs := newFlagSet("add-user")
	fs.StringVar(&email, "email", "", "user email")
	fs.StringVar(&name, "name", "", "display name")
	fs.StringVar(&role, "role", "", "role claim")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name", "-role"})); err != nil {
		return err
	}

	u, err := a.users.Register(ctx, email, name, role)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, u.ID)
	return nil
}

func (a *App) issue(ctx context.Context, args []string) error {
	var userID string

	fs := newFlagSet("issue")
	fs.StringVar(&userID, "user", "", "user id")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-user"})); err != nil {
		return err
	}
	if userID == "" {
		return fmt.Errorf("%w: -user is required", ErrUsage)
	}

	u, err := a.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}

	pair, err := a.tokens.IssueTokenPair(ctx, u)
	if err != nil {
		return err
	}

	a.printPair(pair)
	return nil
}

func (a *App) refresh(ctx context.Context, args []string) error {
	token, err := parseToken("refresh", args)
	if err != nil {
		return err
	}

	pair, err := a.tokens.Refresh(ctx, token)
	if err != nil {
		return err
	}

	a.printPair(pair)
	return nil
}

func (a *App) revoke(ctx context.Context, args []string) error {
	token, err := parseToken("revoke", args)
	if err != nil {
		return err
	}

	if err := a.tokens.Revoke(ctx, token); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "revoked")
	return nil
}

func (a *App) verify(args []string) error {
	var (
		access     string
		unverified bool
	)

	fs := newFlagSet("verify")
	fs.StringVar(&access, "access", "", "access token")
	fs.BoolVar(&unverified, "unverified", false, "decode without checking signature or expiry")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-access", "-unverified"})); err != nil {
		return err
	}
	if access == "" {
		return fmt.Errorf("%w: -access is required", ErrUsage)
	}

	var (
		claims *auth.Claims
		err    error
	)
	if unverified {
		claims, err = auth.ParseUnverified(access)
	} else {
		claims, err = a.tokens.Verify(access)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "sub: %s\n", claims.Subject)
	fmt.Fprintf(a.out, "email: %s\n", claims.Email)
	fmt.Fprintf(a.out, "role: %s\n", claims.Role)
	fmt.Fprintf(a.out, "name: %s\n", claims.Name)
	fmt.Fprintf(a.out, "iss: %s\n", claims.Issuer)
	fmt.Fprintf(a.out, "aud: %s\n", strings.Join(claims.Audience, ","))
	if claims.ExpiresAt != nil {
		fmt.Fprintf(a.out, "exp: %s\n", claims.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

func (a *App) printPair(pair *models.TokenPair) {
	fmt.Fprintf(a.out, "access_token: %s\n", pair.AccessToken)
	fmt.Fprintf(a.out, "refresh_token: %s\n", pair.RefreshToken)
}

func parseToken(name string, args []string) (string, error) {
	var token string

	fs := newFlagSet(name)
	fs.StringVar(&token, "token", "", "refresh token")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-token"})); err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("%w: -token is required", ErrUsage)
	}
	return token, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
