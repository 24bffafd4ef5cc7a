package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nshetty/vidlens/internal/api"
	"github.com/nshetty/vidlens/internal/player"
	"github.com/nshetty/vidlens/internal/store"
	"github.com/nshetty/vidlens/internal/tui"
)

func main() {
	_ = godotenv.Load()

	apiURL := flag.String("api", envOr("VIDLENS_API_URL", "http://localhost:8000"), "analysis backend base URL")
	statePath := flag.String("state", envOr("VIDLENS_STATE_FILE", filepath.Join(".", store.DefaultFileName)), "path to the persisted session state file")
	playerPath := flag.String("player", envOr("VIDLENS_PLAYER", ""), "mpv binary to use for video playback")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	checkHealth := flag.Bool("check-health", false, "ping the backend health endpoint and exit")
	flag.Parse()

	client := api.NewClient(*apiURL, nil)

	if *checkHealth {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		status, err := client.Health(ctx)
		if err != nil {
			fmt.Println("backend unreachable:", err)
			os.Exit(1)
		}
		fmt.Println("backend status:", status)
		return
	}

	absState, err := filepath.Abs(*statePath)
	if err != nil {
		fmt.Println("failed to resolve state path:", err)
		os.Exit(1)
	}

	restore, err := store.Load(absState)
	if err != nil {
		fmt.Println("ignoring saved session:", err)
		restore = store.State{}
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			API:       client,
			Player:    &player.MPVLoader{Path: *playerPath},
			StatePath: absState,
			Restore:   restore,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
