// Command harborlight-admin is the operator CLI: migrations, dev
// seeding, staff account management, and an end-to-end login check.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harborlight-collective/harborlight/config"
	"github.com/harborlight-collective/harborlight/internal/adapters/pwauth"
	"github.com/harborlight-collective/harborlight/internal/bootstrap"
	"github.com/harborlight-collective/harborlight/internal/devseed"
	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/domain/model"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/session"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"user-list": {
			name:        "user-list",
			description: "List staff accounts",
			run:         runUserList,
		},
		"user-create": {
			name:        "user-create",
			description: "Create a staff account",
			run:         runUserCreate,
		},
		"user-update": {
			name:        "user-update",
			description: "Update a staff account's name, role, or password",
			run:         runUserUpdate,
		},
		"user-delete": {
			name:        "user-delete",
			description: "Delete a staff account and revoke its sessions",
			run:         runUserDelete,
		},
		"login-check": {
			name:        "login-check",
			description: "Sign in with credentials and verify the session lifecycle end to end",
			run:         runLoginCheck,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stderr, "usage: harborlight-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		if err := writef(tw, "  %s\t%s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// withApp builds the full dependency graph, runs fn, and tears down.
func withApp(cmdCtx *commandContext, fn func(*bootstrap.App) error) error {
	app, err := bootstrap.BuildApp(&cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func runMigrate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()
	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	seed := fs.Bool("seed", false, "seed development data after migrating")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*yes {
		ok, err := confirm(fmt.Sprintf("drop schema on %s/%s and start over", cmdCtx.Config.Postgres.Host, cmdCtx.Config.Postgres.Name))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		if err := devseed.ResetSchema(cmdCtx.Ctx, app.DB); err != nil {
			return err
		}
		if err := bootstrap.RunMigrations(cmdCtx.Ctx, app.DB, cmdCtx.Logger); err != nil {
			return err
		}
		if *seed {
			return devseed.Run(cmdCtx.Ctx, seedDeps(app), cmdCtx.Logger)
		}
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, _ []string) error {
	return withApp(cmdCtx, func(app *bootstrap.App) error {
		if err := bootstrap.RunMigrations(cmdCtx.Ctx, app.DB, cmdCtx.Logger); err != nil {
			return err
		}
		return devseed.Run(cmdCtx.Ctx, seedDeps(app), cmdCtx.Logger)
	})
}

func seedDeps(app *bootstrap.App) devseed.Deps {
	return devseed.Deps{
		DB:       app.DB,
		Users:    app.Auth,
		Profiles: app.Repos.Profiles,
		Sections: app.Repos.Sections,
		Team:     app.Repos.Team,
		Services: app.Repos.Services,
		Programs: app.Repos.Programs,
		Blog:     app.Repos.Blog,
		FAQ:      app.Repos.FAQ,
		Legal:    app.Repos.Legal,
		Settings: app.Repos.Settings,
	}
}

func runUserList(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("user-list", flag.ContinueOnError)
	roleFlag := fs.String("role", "", "filter by role (EDITOR, ADMIN, SUPER_ADMIN)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := model.ProfilesListOptions{}
	if *roleFlag != "" {
		role, err := domainauth.ParseRole(*roleFlag)
		if err != nil {
			return err
		}
		opts.Role = &role
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		profiles, err := app.Repos.Profiles.List(cmdCtx.Ctx, opts)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if err := writef(tw, "ID\tEMAIL\tNAME\tROLE\tCREATED\n"); err != nil {
			return err
		}
		for _, p := range profiles {
			if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Email, p.FullName, p.Role, p.CreatedAt.Format(time.RFC3339)); err != nil {
				return err
			}
		}
		return tw.Flush()
	})
}

func runUserCreate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("user-create", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	name := fs.String("name", "", "full name (required)")
	roleFlag := fs.String("role", string(domainauth.RoleEditor), "role (EDITOR, ADMIN, SUPER_ADMIN)")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		return errors.New("-email and -name are required")
	}

	role, err := domainauth.ParseRole(*roleFlag)
	if err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		pw, err = promptPassword()
		if err != nil {
			return err
		}
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		id, createErr := app.Auth.CreateUser(cmdCtx.Ctx, ports.NewUser{
			Email:    *email,
			Password: pw,
			FullName: *name,
			Role:     role,
		})
		if createErr != nil {
			return createErr
		}
		cmdCtx.Logger.Info("user created", "id", id.ID, "email", id.Email, "role", id.Role)
		return nil
	})
}

func runUserUpdate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("user-update", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	name := fs.String("name", "", "new full name")
	roleFlag := fs.String("role", "", "new role (EDITOR, ADMIN, SUPER_ADMIN)")
	resetPassword := fs.Bool("reset-password", false, "prompt for a new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	update := ports.UserUpdate{}
	if *name != "" {
		update.FullName = name
	}
	if *roleFlag != "" {
		role, err := domainauth.ParseRole(*roleFlag)
		if err != nil {
			return err
		}
		update.Role = &role
	}
	if *resetPassword {
		pw, err := promptPassword()
		if err != nil {
			return err
		}
		update.Password = &pw
	}
	if update.FullName == nil && update.Role == nil && update.Password == nil {
		return errors.New("nothing to update: pass -name, -role, or -reset-password")
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		profile, err := app.Repos.Profiles.GetByEmail(cmdCtx.Ctx, *email)
		if err != nil {
			return err
		}
		update.UserID = profile.ID

		id, err := app.Auth.UpdateUser(cmdCtx.Ctx, update)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("user updated", "id", id.ID, "email", id.Email, "role", id.Role)
		return nil
	})
}

func runUserDelete(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("user-delete", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	if !*yes {
		ok, err := confirm(fmt.Sprintf("delete account %s and revoke its sessions", *email))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		profile, err := app.Repos.Profiles.GetByEmail(cmdCtx.Ctx, *email)
		if err != nil {
			return err
		}
		if err := app.Auth.DeleteUser(cmdCtx.Ctx, profile.ID); err != nil {
			return err
		}
		cmdCtx.Logger.Info("user deleted", "email", *email)
		return nil
	})
}

// runLoginCheck drives the full session lifecycle against live
// infrastructure: resolve (no session), sign in, observe the session
// feed reach the authenticated state, then sign out.
func runLoginCheck(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login-check", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	pw := *password
	if pw == "" {
		var err error
		pw, err = promptPassword()
		if err != nil {
			return err
		}
	}

	return withApp(cmdCtx, func(app *bootstrap.App) error {
		source := pwauth.NewSource(app.Auth, "")
		svc := session.New(source)
		defer svc.Close()

		events, cancel := svc.Subscribe()
		defer cancel()

		svc.Start(cmdCtx.Ctx)
		if err := waitForState(events, session.StateUnauthenticated); err != nil {
			return fmt.Errorf("initial resolution: %w", err)
		}

		id, err := svc.SignIn(cmdCtx.Ctx, *email, pw)
		if err != nil {
			if domainauth.IsInvalidCredentials(err) {
				return errors.New("sign-in rejected: invalid credentials")
			}
			return err
		}
		cmdCtx.Logger.Info("signed in", "id", id.ID, "email", id.Email, "role", id.Role)

		if snap := svc.Current(); snap.State != session.StateAuthenticated {
			return fmt.Errorf("session state after sign-in is %s, want authenticated", snap.State)
		}

		if err := svc.SignOut(cmdCtx.Ctx); err != nil {
			return err
		}
		if snap := svc.Current(); snap.State != session.StateUnauthenticated {
			return fmt.Errorf("session state after sign-out is %s, want unauthenticated", snap.State)
		}

		cmdCtx.Logger.Info("login check passed", "email", *email)
		return nil
	})
}

func waitForState(events <-chan session.Snapshot, want session.State) error {
	timer := time.NewTimer(10 * time.Second)
	defer timer.Stop()
	for {
		select {
		case snap, ok := <-events:
			if !ok {
				return errors.New("session feed closed")
			}
			if snap.State == want {
				return nil
			}
		case <-timer.C:
			return fmt.Errorf("timed out waiting for session state %s", want)
		}
	}
}

func promptPassword() (string, error) {
	if err := writef(os.Stderr, "password: "); err != nil {
		return "", err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}

func confirm(action string) (bool, error) {
	if err := writef(os.Stderr, "about to %s. type 'yes' to continue: ", action); err != nil {
		return false, err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.TrimSpace(line) == "yes", nil
}
