package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"golang.org/x/term"

	"github.com/justcom/justcom-admin/internal/config"
	"github.com/justcom/justcom-admin/internal/logging"
	"github.com/justcom/justcom-admin/internal/tui"
	"github.com/justcom/justcom-admin/pkg/client"
	"github.com/justcom/justcom-admin/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("justcom-admin " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	log, closeLog, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	c := client.New(cfg.APIURL, store,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log),
	)

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "login":
			var email string
			if len(os.Args) > 2 {
				email = os.Args[2]
			}
			if err := runLogin(ctx, c, email, os.Stdin, os.Stdout); err != nil {
				return err
			}
			if interactive {
				return runTUI(c, cfg)
			}
			return nil
		case "logout":
			return runLogout(ctx, c, os.Stdout)
		case "whoami":
			return runWhoami(ctx, c, os.Stdout)
		default:
			printHelp(os.Stderr)
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	if !c.IsAuthenticated(ctx) {
		printGreeting(os.Stdout)
		return nil
	}
	if !interactive {
		return runWhoami(ctx, c, os.Stdout)
	}
	return runTUI(c, cfg)
}

// openStore builds the session store selected by the configuration. The
// returned close function releases backend connections.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryStore(), noop, nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close() //nolint:errcheck
			return nil, nil, fmt.Errorf("connect session redis at %s: %w", cfg.Redis.Addr, err)
		}
		return session.NewRedisStore(rdb, cfg.Redis.Prefix, cfg.Redis.SessionTTL), rdb.Close, nil
	default:
		return session.NewFileStore(cfg.SessionFile), noop, nil
	}
}

func runTUI(c *client.Client, cfg *config.Config) error {
	app := tui.NewApp(c, tui.Options{Version: version, SessionBackend: cfg.SessionBackend})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func runLogin(ctx context.Context, c *client.Client, email string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return errors.New("email is required")
	}

	password, err := readPassword(in, reader, out)
	if err != nil {
		return err
	}

	resp, err := c.Login(ctx, email, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("login failed: %s", apiErr.Message)
		}
		return err
	}
	fmt.Fprintf(out, "Signed in as %s <%s>\n", resp.User.DisplayName(), resp.User.Email)
	return nil
}

// readPassword takes JUSTCOM_PASSWORD when set, prompts without echo on a
// terminal, and otherwise reads one line from in.
func readPassword(in io.Reader, reader *bufio.Reader, out io.Writer) (string, error) {
	if pw := os.Getenv("JUSTCOM_PASSWORD"); pw != "" {
		return pw, nil
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

func runLogout(ctx context.Context, c *client.Client, out io.Writer) error {
	if !c.IsAuthenticated(ctx) {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := c.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, c *client.Client, out io.Writer) error {
	sess := c.Session(ctx)
	if sess == nil {
		fmt.Fprintln(out, "Not logged in. Run: justcom-admin login")
		return nil
	}
	u := sess.User
	fmt.Fprintf(out, "%s <%s>\n", u.DisplayName(), u.Email)
	if u.Role != "" {
		fmt.Fprintf(out, "role:    %s\n", u.Role)
	}
	fmt.Fprintf(out, "api:     %s\n", c.BaseURL())
	if exp, ok := session.AccessTokenExpiry(sess.AccessToken); ok {
		fmt.Fprintf(out, "token:   expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
