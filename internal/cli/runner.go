// Package cli routes subcommands to the API and the dashboard TUI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/config"
	"github.com/idilsaglam/taskdeck/internal/session"
	"github.com/idilsaglam/taskdeck/internal/store/credstore"
	"github.com/idilsaglam/taskdeck/internal/tui"
)

// Options tune behavior from root flags.
type Options struct {
	Endpoint string // override the configured API base URL
	Config   string // override the config file path
	Debug    bool   // log Bubble Tea + API traffic to a debug file
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func ok(msg string) {
	fmt.Println(successStyle.Render("✔ " + msg))
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+msg))
}

// ---------------------------------------------------
// CLI router
// ---------------------------------------------------

func Run(args []string, opt Options) int {
	env, code := setup(opt)
	if code != 0 {
		return code
	}

	if len(args) == 0 {
		return env.doDash()
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "dash":
		return env.doDash()

	case "login":
		return env.doLogin()

	case "register":
		return env.doRegister()

	case "auth":
		if len(a) == 0 {
			fail("usage: taskdeck auth <status|logout|whoami>")
			return 2
		}
		switch a[0] {
		case "status":
			return env.doAuthStatus()
		case "logout":
			return env.doAuthLogout()
		case "whoami":
			return env.doAuthWhoAmI()
		default:
			fail("usage: taskdeck auth <status|logout|whoami>")
			return 2
		}
	}

	fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskdeck - a terminal client for your todo server

Usage:
  taskdeck [flags] <subcommand> [args]

Subcommands:
  dash               Open the dashboard TUI (default when no subcommand)
  login              Sign in and store the access token
  register           Create an account
  auth status        Show the stored credential
  auth logout        Forget the stored credential
  auth whoami        Introspect the stored token locally

Flags:
  -endpoint <url>    Override the configured API base URL
  -config <path>     Use an alternate config file
  -debug             Write a debug log to the working directory

Examples:
  taskdeck register
  taskdeck login
  taskdeck
`)
}

// ---------------------------------------------------
// Shared wiring
// ---------------------------------------------------

type cmdEnv struct {
	cfg    config.Config
	store  *credstore.Store
	client *api.Client
	debug  bool
}

func setup(opt Options) (*cmdEnv, int) {
	path := opt.Config
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			fail("config dir: " + err.Error())
			return nil, 1
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fail("config: " + err.Error())
		return nil, 1
	}
	if opt.Endpoint != "" {
		cfg.Endpoint = opt.Endpoint
	}

	store, err := credstore.New()
	if err != nil {
		fail("credentials: " + err.Error())
		return nil, 1
	}

	// the token is read from the store at call time, so a login in one
	// command is picked up by the next without restart
	client := api.NewClient(cfg.Endpoint, store.Read)
	return &cmdEnv{cfg: cfg, store: store, client: client, debug: opt.Debug}, 0
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ---------------------------------------------------
// Subcommands
// ---------------------------------------------------

func (e *cmdEnv) doDash() int {
	if e.debug {
		f, err := tea.LogToFile("taskdeck-debug.log", "debug")
		if err != nil {
			fail("debug log: " + err.Error())
			return 1
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	sess := session.New(e.store)
	if err := tui.Run(e.cfg, sess, e.client); err != nil {
		fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (e *cmdEnv) doLogin() int {
	email, err := readLine("Email: ")
	if err != nil {
		fail("read email: " + err.Error())
		return 1
	}
	password, err := readLine("Password: ")
	if err != nil {
		fail("read password: " + err.Error())
		return 1
	}

	token, err := e.client.Login(context.Background(), email, password)
	if err != nil {
		fail("login: " + err.Error())
		return 1
	}
	if err := e.store.Save(token); err != nil {
		fail("save token: " + err.Error())
		return 1
	}
	ok("logged in")
	return 0
}

func (e *cmdEnv) doRegister() int {
	name, err := readLine("Name: ")
	if err != nil {
		fail("read name: " + err.Error())
		return 1
	}
	email, err := readLine("Email: ")
	if err != nil {
		fail("read email: " + err.Error())
		return 1
	}
	password, err := readLine("Password: ")
	if err != nil {
		fail("read password: " + err.Error())
		return 1
	}

	if err := e.client.Register(context.Background(), name, email, password); err != nil {
		fail("register: " + err.Error())
		return 1
	}
	ok("registered. Run `taskdeck login` to sign in")
	return 0
}

func (e *cmdEnv) doAuthStatus() int {
	ti, err := e.store.Info()
	if err != nil {
		fail("credentials: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Println(mutedStyle.Render("not logged in"))
		fmt.Println("Run: taskdeck login")
		return 0
	}
	fmt.Printf("source: %s\n", ti.Source)
	if !ti.CreatedAt.IsZero() {
		fmt.Printf("saved: %s\n", ti.CreatedAt.UTC().Format(time.RFC3339))
	}
	if exp, found := tokenExpiry(ti.Token); found {
		fmt.Printf("expires: %s\n", exp.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: TASKDECK_TOKEN")
	return 0
}

func (e *cmdEnv) doAuthLogout() int {
	ti, _ := e.store.Info()
	if ti != nil && ti.Source == "env" {
		ok("token is provided by TASKDECK_TOKEN env var (nothing to delete)")
		return 0
	}
	if err := e.store.Clear(); err != nil {
		fail("logout: " + err.Error())
		return 1
	}
	ok("logged out")
	return 0
}

// whoami decodes JWT claims locally without verifying the signature;
// opaque tokens print basic info.
func (e *cmdEnv) doAuthWhoAmI() int {
	ti, _ := e.store.Info()
	if ti == nil || ti.Token == "" {
		fail("not logged in. Run: taskdeck login")
		return 2
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(ti.Token, claims); err != nil {
		fmt.Println("Opaque token (cannot introspect locally).")
		fmt.Println("source:", ti.Source)
		return 0
	}
	for _, k := range []string{"sub", "email", "name"} {
		if v, found := claims[k]; found {
			fmt.Printf("%s: %v\n", k, v)
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Printf("exp: %s\n", exp.UTC().Format(time.RFC3339))
	}
	fmt.Println("source:", ti.Source)
	return 0
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
