package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/analytics"
	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/store"
	"github.com/claude/liftlog/internal/syncer"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	dataDir := flag.String("data", "", "data directory (default ~/.liftlog)")
	serverURL := flag.String("server", "", "sync server URL (e.g. https://liftlog.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "sync server API key")
	ownerFlag := flag.String("owner", "", "owner identity on the sync server (default: this device's generated id)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cmd := flag.Arg(0)
	if cmd == "" {
		usage()
		os.Exit(1)
	}

	dir := *dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(home, ".liftlog")
	}

	stateDB, err := store.OpenStateDB(dir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer stateDB.Close()

	st := store.New(stateDB, log)
	if snap, err := stateDB.Load(); err != nil {
		log.Error("failed to load state", "error", err)
		os.Exit(1)
	} else if snap != nil {
		st.Restore(*snap)
	}

	ctx := context.Background()

	switch cmd {
	case "sync":
		runSync(ctx, st, dir, *serverURL, *apiKey, *ownerFlag, log, false)
	case "pull":
		runSync(ctx, st, dir, *serverURL, *apiKey, *ownerFlag, log, true)
	case "export":
		runExport(st, flag.Arg(1), log)
	case "import":
		runImport(st, flag.Arg(1), log)
	case "stats":
		runStats(st)
	case "mcp":
		ds := &liftmcp.StoreSource{Store: st}
		if err := server.ServeStdio(liftmcp.New(ds, Version, log)); err != nil {
			log.Error("mcp server error", "error", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func runSync(ctx context.Context, st *store.Store, dir, serverURL, apiKey, owner string, log *slog.Logger, pull bool) {
	if serverURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -server is required for sync/pull")
		os.Exit(1)
	}

	if owner == "" {
		var err error
		owner, err = deviceOwner(dir)
		if err != nil {
			log.Error("failed to resolve device identity", "error", err)
			os.Exit(1)
		}
	}

	client := syncer.NewClient(strings.TrimRight(serverURL, "/"), apiKey)
	rec := syncer.New(st, client, owner, log)

	if pull {
		if err := rec.Pull(ctx); err != nil {
			log.Error("pull failed", "error", err)
			os.Exit(1)
		}
		log.Info("pulled remote state", "programs", len(st.Programs()), "workouts", len(st.WorkoutLogs()))
		return
	}

	rec.Start(ctx)
	defer rec.Stop()
	if !rec.Enabled() {
		log.Error("sync server unavailable", "server", serverURL)
		os.Exit(1)
	}
	log.Info("sync complete", "status", string(rec.Status()),
		"programs", len(st.Programs()), "workouts", len(st.WorkoutLogs()))
}

func runExport(st *store.Store, path string, log *slog.Logger) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: liftlog export <file>")
		os.Exit(1)
	}
	data, err := st.Export()
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error("writing export file", "error", err)
		os.Exit(1)
	}
	log.Info("exported", "path", path, "bytes", len(data))
}

func runImport(st *store.Store, path string, log *slog.Logger) {
	if path == "" {
		fmt.Fprintln(os.Stderr, "Usage: liftlog import <file>")
		os.Exit(1)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("reading import file", "error", err)
		os.Exit(1)
	}
	if err := st.Import(data); err != nil {
		log.Error("import rejected", "error", err)
		os.Exit(1)
	}
	log.Info("imported", "programs", len(st.Programs()), "workouts", len(st.WorkoutLogs()))
}

func runStats(st *store.Store) {
	logs := st.WorkoutLogs()
	stats := analytics.Compute(logs, time.Now())

	fmt.Printf("Workouts:      %d total, %d this week\n", stats.TotalWorkouts, stats.WeeklyCount)
	fmt.Printf("Streak:        %d day(s)\n", stats.CurrentStreak)
	fmt.Printf("Total volume:  %.0f\n", stats.TotalVolume)

	records := analytics.PersonalRecords(logs)
	if len(records) > 0 {
		fmt.Println("\nPersonal records:")
		for _, pr := range records {
			fmt.Printf("  %-30s %.1f x %d  (%s)\n",
				pr.ExerciseName, pr.Weight, pr.Reps, pr.Date.Format("2006-01-02"))
		}
	}
}

// deviceOwner returns the opaque per-device identity used to address the
// sync server, generating and persisting one on first use.
func deviceOwner(dir string) (string, error) {
	path := filepath.Join(dir, "device_id")
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing device id: %w", err)
	}
	return id, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: liftlog [flags] <command>

Commands:
  sync            reconcile local state with the sync server
  pull            overwrite local state with the server's snapshot
  export <file>   write a backup snapshot
  import <file>   restore from a backup snapshot (replaces local state)
  stats           print streak, volume, and personal records
  mcp             serve workout data over MCP on stdio

Flags:
`)
	flag.PrintDefaults()
}
