// Command spectra-report serves the spectra catalog API and provides load
// and migration subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/beamline-data/spectra.report/internal/api"
	"github.com/beamline-data/spectra.report/internal/config"
	"github.com/beamline-data/spectra.report/internal/db"
	"github.com/beamline-data/spectra.report/internal/fsutil"
	"github.com/beamline-data/spectra.report/internal/loader"
	"github.com/beamline-data/spectra.report/internal/timeutil"
	"github.com/beamline-data/spectra.report/internal/version"
)

const defaultDBFile = "spectra.db"

func main() {
	// Subcommand dispatch happens before flag parsing so each subcommand
	// can define its own flag set.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			dbPath := defaultDBFile
			if p := os.Getenv("SPECTRA_DB"); p != "" {
				dbPath = p
			}
			db.RunMigrateCommand(os.Args[2:], dbPath)
			return
		case "load":
			runLoad(os.Args[2:])
			return
		case "version":
			fmt.Printf("spectra-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
			return
		case "serve":
			runServe(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			return
		}
	}

	runServe(os.Args[1:])
}

func printUsage() {
	fmt.Println("Usage: spectra-report [command] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve      Run the HTTP server (default)")
	fmt.Println("  load       Load a directory of SES files and print a report")
	fmt.Println("  migrate    Manage the database schema")
	fmt.Println("  version    Print version information")
}

func loadConfig(path string) *config.TuningConfig {
	if path == "" {
		return config.EmptyTuningConfig()
	}
	cfg, err := config.LoadTuningConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	listen := fs.String("listen", ":8080", "Listen address")
	dbPath := fs.String("db-path", defaultDBFile, "Path to the sqlite database")
	configPath := fs.String("config", "", "Path to a tuning config JSON file")
	dataDirs := fs.String("data-dir", "", "Comma-separated list of allowed data directories")
	devMode := fs.Bool("dev", false, "Run in dev mode (auto-apply pending migrations)")
	fs.Parse(args)

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := loadConfig(*configPath)
	if *dataDirs != "" {
		cfg.DataDirs = strings.Split(*dataDirs, ",")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// refuse to serve against an out-of-date schema; in dev mode apply the
	// outstanding migrations instead of stopping
	if *devMode {
		if err := database.MigrateUp(db.EmbeddedMigrations()); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else if needed, err := database.CheckAndPromptMigrations(db.EmbeddedMigrations()); needed || err != nil {
		log.Fatalf("Migration check failed: %v", err)
	}

	server := api.NewServer(database, loader.New(fsutil.OSFileSystem{}, cfg), cfg, timeutil.RealClock{})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// sweep expired cubes in the background
	wg.Add(1)
	go func() {
		defer wg.Done()
		server.Cubes().RunJanitor(ctx, time.Minute)
		log.Print("cache janitor terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes
		database.AttachAdminRoutes(mux)

		apiMux := server.ServeMux()
		mux.Handle("/", apiMux)

		httpServer := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", *listen)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Println("shutdown complete")
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a tuning config JSON file")
	dirFlag := fs.String("dir", "", "Directory of SES files to load")
	pattern := fs.String("pattern", "", "Glob pattern (defaults to the configured pattern)")
	fs.Parse(args)

	dir := *dirFlag
	if dir == "" && fs.NArg() == 1 {
		dir = fs.Arg(0)
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Usage: spectra-report load -dir <directory> [-pattern <glob>]")
		os.Exit(2)
	}

	cfg := loadConfig(*configPath)
	l := loader.New(fsutil.OSFileSystem{}, cfg)

	c, report, err := l.LoadDirectory(dir, *pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	nE, nX, nY := c.Dims()
	fmt.Printf("Loaded %d file(s) from %s (%d skipped) in %v\n",
		report.Loaded, report.Directory, report.Skipped, report.Elapsed.Round(time.Millisecond))
	fmt.Printf("Cube: %d energies x %d angles x %d pixels\n", nE, nX, nY)
	energyMin, energyMax := c.Energy[0], c.Energy[nE-1]
	fmt.Printf("Energy range: %.4f .. %.4f eV\n", energyMin, energyMax)
	for _, f := range report.Files {
		switch f.Status {
		case loader.StatusLoaded:
			fmt.Printf("  %-30s angle=%8.4f  %dx%d\n", f.Name, f.Angle, f.Rows, f.Cols)
		default:
			fmt.Printf("  %-30s %s\n", f.Name, f.Status)
		}
	}
}
