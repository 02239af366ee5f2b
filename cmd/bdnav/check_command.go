package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bdnav/internal/preflight"
)

const (
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"

	checkLabelWidth = 20
)

type checkView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [disc...]",
		Short: "Verify directories, the settings database and disc folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, path := range args {
				results = append(results, preflight.CheckDisc(cmd.Context(), path))
			}

			if ctx.jsonOutput() {
				views := make([]checkView, 0, len(results))
				for _, r := range results {
					views = append(views, checkView{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
				}
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, r := range results {
					fmt.Fprintln(out, renderCheckLine(r, colorize))
				}
			}
			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}

func renderCheckLine(r preflight.Result, colorize bool) string {
	status, color := "OK", ansiGreen
	if !r.Passed {
		status, color = "ERROR", ansiRed
	}
	line := fmt.Sprintf("  %-*s [%s] %s", checkLabelWidth, r.Name+":", status, r.Detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}
