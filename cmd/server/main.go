package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"dogstory/internal/api"
	"dogstory/internal/app"
	"dogstory/internal/config"
	"dogstory/internal/leaderboard"
	"dogstory/internal/worldmap"
)

func main() {
	loadDotEnv()

	cmd := &cli.Command{
		Name:  "dogstory",
		Usage: "multiplayer dog game server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-file", Required: true, Usage: "path to the map catalog JSON file"},
			&cli.StringFlag{Name: "www-root", Required: true, Usage: "static file root (unused by this API-only build)"},
			&cli.IntFlag{Name: "tick-period", Usage: "wall-clock tick period in ms; if set, disables the administrative tick endpoint"},
			&cli.BoolFlag{Name: "randomize-spawn-points", Usage: "spawn new dogs at a random road point"},
			&cli.StringFlag{Name: "state-file", Usage: "path to the snapshot file"},
			&cli.IntFlag{Name: "save-state-period", Usage: "milliseconds between automatic snapshot saves"},
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "HTTP listen address"},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply leaderboard schema migrations and exit",
				Action: runMigrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("dogstory: %v", err)
	}
}

func loadDotEnv() {
	if err := godotenv.Load("../.env"); err == nil {
		log.Println("loaded environment from ../.env")
		return
	}
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded environment from .env")
		return
	}
	log.Println("no .env file found, using process environment only")
}

func leaderboardURL() (string, error) {
	url := os.Getenv("GAME_DB_URL")
	if url == "" {
		return "", fmt.Errorf("GAME_DB_URL is required")
	}
	return url, nil
}

func runMigrate(ctx context.Context, cmd *cli.Command) error {
	url, err := leaderboardURL()
	if err != nil {
		return err
	}
	store, err := leaderboard.Open(url)
	if err != nil {
		return fmt.Errorf("opening leaderboard store: %w", err)
	}
	defer store.Close()
	log.Println("leaderboard migrations applied")
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config-file")
	catalog, err := worldmap.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading map catalog: %w", err)
	}
	log.Printf("loaded %d maps from %s", len(catalog.All()), configPath)

	url, err := leaderboardURL()
	if err != nil {
		return err
	}
	store, err := leaderboard.Open(url)
	if err != nil {
		return fmt.Errorf("opening leaderboard store: %w", err)
	}
	defer store.Close()

	persistence := config.PersistenceFromEnv()
	stateFile := persistence.StateFilePath
	if v := cmd.String("state-file"); v != "" {
		stateFile = v
	}

	randomizeSpawn := cmd.Bool("randomize-spawn-points")
	application := app.New(catalog, randomizeSpawn, rand.New(rand.NewSource(time.Now().UnixNano())), store)

	if err := application.Restore(stateFile); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}
	log.Printf("state restored from %s", stateFile)

	tickPeriodMs := cmd.Int("tick-period")
	srv := api.NewServer(application, tickPeriodMs == 0)

	var stopTick chan struct{}
	if tickPeriodMs > 0 {
		stopTick = startTickLoop(application, time.Duration(tickPeriodMs)*time.Millisecond)
	}

	saveStatePeriod := persistence.SaveStatePeriod
	if v := cmd.Int("save-state-period"); v > 0 {
		saveStatePeriod = v
	}
	var stopSnapshots chan struct{}
	if saveStatePeriod > 0 {
		stopSnapshots = startSnapshotLoop(application, stateFile, time.Duration(saveStatePeriod)*time.Millisecond)
	}

	addr := cmd.String("addr")
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serving HTTP: %w", err)
	case <-quit:
		log.Println("shutting down")
	}

	if stopTick != nil {
		close(stopTick)
	}
	if stopSnapshots != nil {
		close(stopSnapshots)
	}
	if err := srv.Shutdown(5 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := application.Snapshot(stateFile); err != nil {
		log.Printf("final snapshot failed: %v", err)
	} else {
		log.Printf("final snapshot written to %s", stateFile)
	}
	return nil
}

func startTickLoop(application *app.Application, period time.Duration) chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				deltaMs := now.Sub(last).Milliseconds()
				last = now
				start := time.Now()
				application.Tick(deltaMs)
				api.RecordTick(time.Since(start))
				sessions, players, loots := application.Stats()
				api.UpdateWorldGauges(sessions, players, loots)
			}
		}
	}()
	return stop
}

func startSnapshotLoop(application *app.Application, path string, period time.Duration) chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := application.Snapshot(path); err != nil {
					log.Printf("periodic snapshot failed: %v", err)
				}
			}
		}
	}()
	return stop
}
