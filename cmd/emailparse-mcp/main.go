// Command emailparse-mcp exposes the email import pipeline as MCP tools over
// stdio, backed by a local SQLite database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/config"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/emailimport"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/platform"
	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/repository/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout carries the protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	user, err := uuid.Parse(cfg.LocalUserID)
	if err != nil {
		return fmt.Errorf("LOCAL_USER_ID: %w", err)
	}
	registry := platform.Default
	if cfg.PlatformsFile != "" {
		registry = func() (*platform.Registry, error) { return platform.LoadFile(cfg.PlatformsFile) }
	}
	reg, err := registry()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := emailimport.NewService(reg, sqlite.NewJobRepository(db), sqlite.NewPendingImportRepository(db),
		emailimport.WithLogger(log))

	s := server.NewMCPServer("jobtrack-emailparse", "1.0.0")
	t := &tools{svc: svc, user: user}
	t.register(s)

	return server.ServeStdio(s)
}
