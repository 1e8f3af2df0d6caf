// Command tenere runs the fueling log: the HTTP service, its database
// migrations, and a one-shot parser for trying out message texts.
// Its sole responsibility is wiring dependencies together; no business
// logic belongs here.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tenere",
	Short: "Fueling log fed by chat messages",
	Long: `tenere extracts litres, kilometres, euros and the date from free-form
refueling messages such as "1.1.2023 10L 1000km 15€" and keeps them in a log.

Configuration comes from environment variables (PORT, DATABASE_URL,
STORE_DRIVER, ...) and an optional YAML file named by CONFIG_FILE.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(parseCmd)
}

// newLogger builds the JSON logger used by every command.
// Unknown levels fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
