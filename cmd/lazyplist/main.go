package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyplist/internal/app"
	"github.com/rebeliceyang/lazyplist/internal/config"
	"github.com/rebeliceyang/lazyplist/internal/history"
	"github.com/rebeliceyang/lazyplist/internal/session"
)

func main() {
	if os.Getenv("LAZYPLIST_DEBUG") != "" {
		f, err := tea.LogToFile("lazyplist-debug.log", "debug")
		if err != nil {
			fmt.Printf("Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
	} else {
		// the terminal belongs to the UI
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	zone.NewGlobal()

	svc, closeServices := openServices()
	defer closeServices()

	a := app.New(cfg, svc)
	if len(os.Args) > 1 {
		a.Open(os.Args[1])
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		closeServices()
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// openServices opens the session and history stores in the config
// directory. A store that fails to open is left out.
func openServices() (app.Services, func()) {
	var svc app.Services
	dir, err := config.GetConfigPath()
	if err != nil {
		log.Printf("Warning: No config directory: %v", err)
		return svc, func() {}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create %s: %v", dir, err)
		return svc, func() {}
	}

	if m, err := session.NewManager(dir); err != nil {
		log.Printf("Warning: Could not load sessions: %v", err)
	} else {
		svc.Sessions = m
	}

	if h, err := history.NewStore(filepath.Join(dir, "history.db")); err != nil {
		log.Printf("Warning: Could not open history: %v", err)
	} else {
		svc.History = h
	}

	closed := false
	return svc, func() {
		if closed || svc.History == nil {
			return
		}
		closed = true
		if err := svc.History.Close(); err != nil {
			log.Printf("Warning: Could not close history: %v", err)
		}
	}
}
