package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tenere/fuellog/internal/extract"
	"github.com/tenere/fuellog/internal/handler"
)

var (
	parseAt       string
	parseTimezone string
)

func init() {
	parseCmd.Flags().StringVar(&parseAt, "at", "", "receipt time (RFC3339) used when the text has no date; defaults to now")
	parseCmd.Flags().StringVar(&parseTimezone, "timezone", "Europe/Helsinki", "IANA zone dates in the text are written in")
}

var parseCmd = &cobra.Command{
	Use:   "parse TEXT...",
	Short: "Extract a fueling from a message and print it as JSON",
	Long: `Extract a fueling from a message and print it as JSON, together with
whether it would be stored and the reply the chat would get. Nothing is
stored and no configuration is read.

Examples:
  tenere parse "1.1.2023 10L 1000km 15€"
  tenere parse --at 2023-07-01T08:00:00Z 45,2 l 61,90e`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

// parseOutput is what "tenere parse" prints.
type parseOutput struct {
	Fueling handler.FuelingResponse `json:"fueling"`
	Reply   string                  `json:"reply,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	loc, err := time.LoadLocation(parseTimezone)
	if err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}

	fallback := time.Now()
	if parseAt != "" {
		fallback, err = time.Parse(time.RFC3339, parseAt)
		if err != nil {
			return fmt.Errorf("--at must be RFC3339: %w", err)
		}
	}

	f := extract.NewParser(loc).Parse(strings.Join(args, " "), fallback.In(loc))

	out := parseOutput{Fueling: handler.NewFuelingResponse(f)}
	if f.Valid() {
		out.Reply = f.Summary()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
