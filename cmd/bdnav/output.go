package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"bdnav/internal/bdmv"
)

const (
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func heading(writer io.Writer, text string) string {
	if shouldColorize(writer) {
		return ansiBold + text + ansiReset
	}
	return text
}

// formatTicks renders a 90 kHz tick count as h:mm:ss.mmm.
func formatTicks(ticks uint64) string {
	ms := ticks * 1000 / bdmv.TicksPerSecond
	return fmt.Sprintf("%d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

func formatBytes(n uint64) string {
	return humanize.IBytes(n)
}
