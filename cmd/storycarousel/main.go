package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/storycarousel"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		loadEnv()
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	case "render":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: storycarousel render <block-id>")
			os.Exit(1)
		}
		loadEnv()
		if err := runRender(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("storycarousel %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadEnv reads .env outside production. Its values override the process
// environment so a checked-out project behaves the same everywhere.
func loadEnv() {
	if os.Getenv("ENV") == "production" {
		return
	}
	if err := godotenv.Overload(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}
}

func runServe() error {
	cfg, err := storycarousel.LoadConfig()
	if err != nil {
		return err
	}
	app := storycarousel.New(cfg)
	defer app.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(ctx)
}

func runRender(id string) error {
	cfg, err := storycarousel.LoadConfig()
	if err != nil {
		return err
	}
	// render never serves requests; placeholders satisfy the login checks.
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "unused"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "unused"
	}
	app := storycarousel.New(cfg)
	app.Echo.Logger.SetOutput(os.Stderr)
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()

	html, err := app.RenderBlock(context.Background(), id)
	if err != nil {
		return fmt.Errorf("render block %s: %w", id, err)
	}
	fmt.Println(html)
	return nil
}

func printUsage() {
	fmt.Println(`storycarousel - story carousel blocks built with Go, Echo, and templ

Usage:
  storycarousel <command> [arguments]

Commands:
  serve              Start the HTTP server
  render <block-id>  Print the published markup of a block
  version            Print the storycarousel version
  help               Show this help message

Configuration is read from the environment (and .env outside production):
  SITE_NAME, SITE_URL, ADDR, DATABASE_PATH, ADMIN_PASSWORD,
  ADMIN_SESSION_SECRET, COOKIE_SECURE, CONTENT_SOURCE, WORDPRESS_URL,
  WORDPRESS_USER, WORDPRESS_APP_PASSWORD, FETCH_TIMEOUT, PRESET_CACHE_TTL`)
}
