// Package admincli implements bvadmin, the operator tool that runs next to
// the server: bootstrap admin accounts, apply migrations, purge expired
// sessions and dump listings to a local CSV file.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/janusipm/brandvigilante/internal/filex"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/services"
	"github.com/janusipm/brandvigilante/internal/server/session"
	"github.com/janusipm/brandvigilante/internal/server/validation"
	"github.com/janusipm/brandvigilante/internal/timex"
)

var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	config *config.Config
	db     *sql.DB
	repos  repomanager.RepositoryManager
	clock  timex.Clock
	log    logging.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the admin CLI reading prompts from in and writing to out.
func NewApp(cfg *config.Config, db *sql.DB, m repomanager.RepositoryManager, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop{}
	}
	return &App{
		config: cfg,
		db:     db,
		repos:  m,
		clock:  timex.SystemClock{},
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"create-admin":    {"create-admin -email E -first F -last L -phone P", (*App).createAdmin},
	"migrate":         {"migrate", (*App).migrate},
	"sweep-sessions":  {"sweep-sessions", (*App).sweepSessions},
	"export-listings": {"export-listings [-dir exports] [-search S] [-marketplace ID]", (*App).exportListings},
}

// Run dispatches args[0] to the matching command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.help()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.help()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) help() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// ask returns v, prompting for it when empty.
func (a *App) ask(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) createAdmin(ctx context.Context, args []string) error {
	fs := a.flagSet("create-admin")
	in := &validation.NewUserInput{Role: models.RoleAdmin}
	fs.StringVar(&in.Email, "email", "", "admin email")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	for _, f := range []struct {
		dst    *string
		prompt string
	}{
		{&in.Email, "Email"},
		{&in.FirstName, "First name"},
		{&in.LastName, "Last name"},
		{&in.Phone, "Phone"},
	} {
		if *f.dst, err = a.ask(*f.dst, f.prompt); err != nil {
			return err
		}
	}
	if in.Password, err = GetNewPassword(a.out); err != nil {
		return err
	}

	activity := services.NewActivityService(a.db, a.repos, a.log)
	admin := services.NewAdminService(a.db, a.repos, a.clock, activity, a.log)
	u, err := admin.CreateUser(ctx, 0, in)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, msgs := range verrs {
			fmt.Fprintf(a.out, "%s: %s\n", field, strings.Join(msgs, "; "))
		}
		return errors.New("invalid input")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created admin %s (id %d)\n", u.Email, u.ID)
	return nil
}

func (a *App) migrate(ctx context.Context, _ []string) error {
	if err := a.repos.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) sweepSessions(ctx context.Context, _ []string) error {
	m := session.NewManager(a.repos.Sessions(a.db), a.repos.Users(a.db), session.Config{
		CookieName: a.config.SessionCookieName,
		TTL:        a.config.SessionTTL,
	}, a.clock, a.log)
	n, err := m.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "removed %d expired sessions\n", n)
	return nil
}

func (a *App) exportListings(ctx context.Context, args []string) error {
	fs := a.flagSet("export-listings")
	dirName := fs.String("dir", "exports", "output directory, relative to the working directory")
	var filter models.ListingFilter
	fs.StringVar(&filter.Search, "search", "", "match url, product title or external id")
	fs.Int64Var(&filter.MarketplaceID, "marketplace", 0, "marketplace id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	export := services.NewExportService(a.db, a.repos, a.config, nil, a.clock, a.log)
	body, rows, err := export.RenderCSV(ctx, filter)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureSubdDir(*dirName)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "listings-"+a.clock.Now().UTC().Format("20060102-150405")+".csv")
	if err := filex.WriteFileAtomic(path, body, 0o640); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "wrote %d listings to %s\n", rows, path)
	return nil
}

// GlobalFlags are the config flags bvadmin shares with the server.
var GlobalFlags = []string{"-a", "-d", "-s", "-u", "-r", "-l", "-m", "-c", "-config", "-env"}

// CommandArgs drops leading global flags (and their values) and returns the
// command with its own arguments.
func CommandArgs(args []string) []string {
	global := make(map[string]struct{}, len(GlobalFlags))
	for _, f := range GlobalFlags {
		global[f] = struct{}{}
	}
	for i := 0; i < len(args); i++ {
		name, _, hasValue := strings.Cut(args[i], "=")
		if _, ok := global[name]; !ok {
			return args[i:]
		}
		if !hasValue {
			i++
		}
	}
	return nil
}
