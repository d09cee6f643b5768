// Command rorbot joins Rigs of Rods game servers as a chat bot: it manages
// server registrations and relays chat between the terminal and every
// registered server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zentro/RoRServerBot/internal/config"
	"github.com/Zentro/RoRServerBot/internal/store"
)

var configPath string

var mainCommand = &cobra.Command{
	Use:           "rorbot",
	Short:         "Rigs of Rods game-server chat bot",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	mainCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file path")
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rorbot:", err)
		os.Exit(1)
	}
}

// loadConfig returns the defaults when no --config was given.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// newLogger builds the process logger from the config: text handler at the
// configured level, to the configured file or stderr.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	out := os.Stderr
	if cfg.LogFilePath != "" {
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(cfg.DatabasePath)
}
