package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

// Admin is the part of the admin service the operator commands need.
type Admin interface {
	CreateAdmin(ctx context.Context, username, password string, level int) (*models.User, error)
	ResetPassword(ctx context.Context, login, password string) error
	SetBlocked(ctx context.Context, login string, blocked bool) error
}

// Importer runs the attendance sheet import.
type Importer interface {
	Run(ctx context.Context) (*services.ImportResult, error)
}

var ErrUsage = errors.New("usage error")

type App struct {
	admin    Admin
	importer Importer
	in       *bufio.Reader
	out      io.Writer
}

func NewApp(admin Admin, importer Importer, in io.Reader, out io.Writer) *App {
	return &App{admin: admin, importer: importer, in: bufio.NewReader(in), out: out}
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"create-admin":   {"create-admin <username> [level]", (*App).createAdmin},
	"reset-password": {"reset-password <username|email>", (*App).resetPassword},
	"block":          {"block <username|email>", (*App).block},
	"unblock":        {"unblock <username|email>", (*App).unblock},
	"import-sheet":   {"import-sheet", (*App).importSheet},
}

// Usage prints the command list.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: ukdctl <command> [args]")
	for _, name := range []string{"create-admin", "reset-password", "block", "unblock", "import-sheet"} {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

// Run executes one command. args[0] is the command name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrUsage, what)
	}
	return strings.TrimSpace(args[0]), nil
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: create-admin <username> [level]", ErrUsage)
	}
	level := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: level must be a positive number", ErrUsage)
		}
		level = n
	}

	password, err := GetNewPassword(a.in, a.out)
	if err != nil {
		return err
	}
	user, err := a.admin.CreateAdmin(ctx, args[0], password, level)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "admin %s created (id %d)\n", user.Username, user.ID)
	return nil
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	login, err := oneArg(args, "login")
	if err != nil {
		return err
	}
	password, err := GetNewPassword(a.in, a.out)
	if err != nil {
		return err
	}
	if err := a.admin.ResetPassword(ctx, login, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password for %s updated\n", login)
	return nil
}

func (a *App) block(ctx context.Context, args []string) error {
	return a.setBlocked(ctx, args, true)
}

func (a *App) unblock(ctx context.Context, args []string) error {
	return a.setBlocked(ctx, args, false)
}

func (a *App) setBlocked(ctx context.Context, args []string, blocked bool) error {
	login, err := oneArg(args, "login")
	if err != nil {
		return err
	}
	if err := a.admin.SetBlocked(ctx, login, blocked); err != nil {
		return err
	}
	state := "unblocked"
	if blocked {
		state = "blocked"
	}
	fmt.Fprintf(a.out, "%s %s\n", login, state)
	return nil
}

func (a *App) importSheet(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: import-sheet takes no arguments", ErrUsage)
	}
	res, err := a.importer.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Message)
	if !res.Success {
		return errors.New("import failed")
	}
	return nil
}
