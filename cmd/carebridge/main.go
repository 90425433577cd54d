// ABOUTME: Entry point for the carebridge health dashboard client
// ABOUTME: Subcommands for auth, patient views, goal tracking, and provider views

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/client"
	"github.com/openhealth/carebridge/internal/config"
	"github.com/openhealth/carebridge/internal/guard"
	"github.com/openhealth/carebridge/internal/kvstore"
	"github.com/openhealth/carebridge/internal/mutation"
	"github.com/openhealth/carebridge/internal/session"
)

// Version is set by goreleaser at build time.
var version = "dev"

func usage() {
	fmt.Println("Usage: carebridge <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init                                       Create a starter config file")
	fmt.Println("  login <email> <password>                   Sign in")
	fmt.Println("  register <name> <email> <password> <role>  Create an account (role: patient|provider)")
	fmt.Println("  logout                                     Sign out")
	fmt.Println("  whoami                                     Show the current session")
	fmt.Println("  dashboard                                  Patient dashboard")
	fmt.Println("  goals                                      Goal history")
	fmt.Println("  set-goals <steps> <water> <sleep>          Update today's goals")
	fmt.Println("  profile                                    Show profile")
	fmt.Println("  set-profile <name> <age> <allergies> <medications>")
	fmt.Println("  patients                                   Provider: patient roster")
	fmt.Println("  patient <id>                               Provider: patient details")
	fmt.Println("  version                                    Print version")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit()
	case "version":
		fmt.Println("carebridge", version)
	case "help", "-h", "--help":
		usage()
	default:
		err = runCommand(ctx, os.Args[1], os.Args[2:])
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runCommand wires the client from config and dispatches one subcommand.
func runCommand(ctx context.Context, command string, args []string) error {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return fmt.Errorf("loading config (run 'carebridge init' first?): %w", err)
	}
	setupLogging(cfg.Logging)

	kv, err := kvstore.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening local state: %w", err)
	}
	defer kv.Close()

	sessions := session.NewStore(kv)
	sessions.Restore()

	apiClient := api.NewClient(cfg.Server.BaseURL, func() string {
		return sessions.Current().Token
	})
	issuer := session.NewTokenIssuer([]byte(cfg.Auth.TokenSecret))
	app := client.New(apiClient, sessions, issuer, cfg.Cache.StaleAfter)

	switch command {
	case "login":
		return runLogin(ctx, app, args)
	case "register":
		return runRegister(ctx, app, args)
	case "logout":
		return app.Logout()
	case "whoami":
		return runWhoami(app)
	case "dashboard":
		return runDashboard(ctx, app)
	case "goals":
		return runGoals(ctx, app)
	case "set-goals":
		return runSetGoals(ctx, app, args)
	case "profile":
		return runProfile(ctx, app)
	case "set-profile":
		return runSetProfile(ctx, app, args)
	case "patients":
		return runPatients(ctx, app)
	case "patient":
		return runPatientDetails(ctx, app, args)
	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// setupLogging configures the process-wide slog default.
func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// authorize renders a guard decision. Denials print the route the user
// belongs on; they are redirects, not failures.
func authorize(app *client.Client, required session.Role) bool {
	decision := app.Authorize(required)
	if decision.Allow {
		return true
	}
	if decision.RedirectTo == guard.LoginPath {
		color.Yellow("You are not signed in. Run: carebridge login <email> <password>")
	} else {
		color.Yellow("This view belongs to the %s role. Your dashboard: %s", required, decision.RedirectTo)
	}
	return false
}

func runLogin(ctx context.Context, app *client.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: carebridge login <email> <password>")
	}
	sess, err := app.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	color.Green("Signed in as %s (%s)", sess.User.Name, sess.Role)
	return nil
}

func runRegister(ctx context.Context, app *client.Client, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: carebridge register <name> <email> <password> <role>")
	}
	sess, err := app.Register(ctx, args[0], args[1], args[2], session.Role(args[3]))
	if err != nil {
		return err
	}
	color.Green("Welcome, %s! You are signed in as a %s.", sess.User.Name, sess.Role)
	return nil
}

func runWhoami(app *client.Client) error {
	sess := app.Session()
	if !sess.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", sess.User.Name, sess.User.Email)
	fmt.Printf("Role: %s\n", sess.Role)
	return nil
}

func runDashboard(ctx context.Context, app *client.Client) error {
	if !authorize(app, session.RolePatient) {
		return nil
	}
	dashboard, err := app.Dashboard(ctx)
	if err != nil {
		return err
	}

	color.Cyan("Today's goals")
	fmt.Printf("  Steps: %d   Water: %.1f L   Sleep: %.1f h\n", dashboard.Goals.Steps, dashboard.Goals.Water, dashboard.Goals.Sleep)
	if len(dashboard.Reminders) > 0 {
		color.Cyan("Reminders")
		for _, r := range dashboard.Reminders {
			fmt.Printf("  %s  %s\n", r.Date, r.Title)
		}
	}
	if dashboard.HealthTip != "" {
		color.Cyan("Health tip")
		fmt.Printf("  %s\n", dashboard.HealthTip)
	}
	return nil
}

func runGoals(ctx context.Context, app *client.Client) error {
	if !authorize(app, session.RolePatient) {
		return nil
	}
	goals, err := app.Goals(ctx)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("No goals tracked yet.")
		return nil
	}
	for _, g := range goals {
		fmt.Printf("%s  steps=%d  water=%.1f  sleep=%.1f\n", g.Date, g.Steps, g.Water, g.Sleep)
	}
	return nil
}

func runSetGoals(ctx context.Context, app *client.Client, args []string) error {
	if !authorize(app, session.RolePatient) {
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: carebridge set-goals <steps> <water> <sleep>")
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("steps must be a whole number: %w", err)
	}
	water, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("water must be a number: %w", err)
	}
	sleep, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("sleep must be a number: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	result, err := app.SetGoals(ctx, today, mutation.GoalMetrics{Steps: steps, Water: water, Sleep: sleep})
	if err != nil {
		return err
	}
	color.Green("Goals for %s saved (%s).", today, result.Status)
	return nil
}

func runProfile(ctx context.Context, app *client.Client) error {
	if !authorize(app, session.RolePatient) {
		return nil
	}
	profile, err := app.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Name:        %s\n", profile.Name)
	fmt.Printf("Age:         %d\n", profile.Age)
	fmt.Printf("Allergies:   %s\n", profile.Allergies)
	fmt.Printf("Medications: %s\n", profile.Medications)
	return nil
}

func runSetProfile(ctx context.Context, app *client.Client, args []string) error {
	if !authorize(app, session.RolePatient) {
		return nil
	}
	if len(args) != 4 {
		return fmt.Errorf("usage: carebridge set-profile <name> <age> <allergies> <medications>")
	}
	age, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("age must be a whole number: %w", err)
	}

	result, err := app.SetProfile(ctx, mutation.ProfilePatch{
		Name:        args[0],
		Age:         age,
		Allergies:   args[2],
		Medications: args[3],
	})
	if err != nil {
		return err
	}
	color.Green("Profile saved (%s).", result.Status)
	return nil
}

func runPatients(ctx context.Context, app *client.Client) error {
	if !authorize(app, session.RoleProvider) {
		return nil
	}
	patients, err := app.ProviderPatients(ctx)
	if err != nil {
		return err
	}
	for _, p := range patients {
		fmt.Printf("%4d  %-24s %s\n", p.ID, p.Name, p.Status)
	}
	return nil
}

func runPatientDetails(ctx context.Context, app *client.Client, args []string) error {
	if !authorize(app, session.RoleProvider) {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: carebridge patient <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("patient id must be a number: %w", err)
	}

	record, err := app.PatientDetails(ctx, id)
	if err != nil {
		return err
	}

	color.Cyan("%s (age %d)", record.Profile.Name, record.Profile.Age)
	fmt.Printf("Allergies: %s   Medications: %s\n", record.Profile.Allergies, record.Profile.Medications)
	fmt.Printf("Current goals: steps=%d water=%.1f sleep=%.1f\n",
		record.Dashboard.Goals.Steps, record.Dashboard.Goals.Water, record.Dashboard.Goals.Sleep)
	for _, g := range record.Goals {
		fmt.Printf("  %s  steps=%d  water=%.1f  sleep=%.1f\n", g.Date, g.Steps, g.Water, g.Sleep)
	}
	return nil
}
