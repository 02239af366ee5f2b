package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bdnav/internal/settings"
)

type settingView struct {
	Name  string `json:"name"`
	Code  uint32 `json:"code"`
	Value string `json:"value"`
	Set   bool   `json:"set"`
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change persistent player settings",
	}
	settingsCmd.AddCommand(newSettingsGetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	settingsCmd.AddCommand(newSettingsListCommand(ctx))
	return settingsCmd
}

func newSettingsGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <setting>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := settings.Parse(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openSettings(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			value, ok, err := store.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			view := settingView{Name: key.String(), Code: key.Code(), Value: value, Set: ok}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			if !ok {
				return fmt.Errorf("%s is not set", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <setting> <value>",
		Short: "Store one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := settings.Parse(args[0])
			if err != nil {
				return err
			}
			value, err := settings.Normalize(key, args[1])
			if err != nil {
				return err
			}
			store, err := ctx.openSettings(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Set(cmd.Context(), key, value); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, settingView{Name: key.String(), Code: key.Code(), Value: value, Set: true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	}
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openSettings(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			values := make(map[settings.Setting]string, len(entries))
			for _, entry := range entries {
				values[entry.Key] = entry.Value
			}

			views := make([]settingView, 0, len(settings.All()))
			for _, key := range settings.All() {
				value, ok := values[key]
				views = append(views, settingView{Name: key.String(), Code: key.Code(), Value: value, Set: ok})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				value := v.Value
				if !v.Set {
					value = "-"
				}
				rows = append(rows, []string{v.Name, fmt.Sprintf("0x%03x", v.Code), value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tableView{
				Headers: []string{"Setting", "Code", "Value"},
				Aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
				Rows:    rows,
			}.Render())
			return nil
		},
	}
}
