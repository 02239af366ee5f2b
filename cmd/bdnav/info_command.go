package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bdnav/internal/discsource"
)

type discInfoView struct {
	Label        string `json:"label"`
	DiscName     string `json:"disc_name"`
	VolumeID     string `json:"volume_id"`
	DiscID       string `json:"disc_id"`
	Fingerprint  string `json:"fingerprint"`
	Version      string `json:"version"`
	Titles       int    `json:"titles"`
	HDMVTitles   int    `json:"hdmv_titles"`
	BDJTitles    int    `json:"bdj_titles"`
	Unsupported  int    `json:"unsupported_titles"`
	MainTitle    int    `json:"main_title"`
	FirstPlay    bool   `json:"first_play"`
	TopMenu      bool   `json:"top_menu"`
	HasMenus     bool   `json:"has_menus"`
	BDJ          bool   `json:"bdj"`
	AACS         bool   `json:"aacs"`
	BDPlus       bool   `json:"bd_plus"`
	Stereoscopic bool   `json:"stereoscopic"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <disc>",
		Short: "Show disc identity and capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := ctx.openDisc(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			catalog := h.session.Catalog()
			view := discInfoView{
				Label:        discsource.DisplayLabel(catalog.DiscName, catalog.VolumeID, filepath.Base(h.folder.Root())),
				DiscName:     catalog.DiscName,
				VolumeID:     catalog.VolumeID,
				DiscID:       catalog.DiscIDHex(),
				Fingerprint:  h.fingerprint,
				Version:      catalog.Version,
				Titles:       catalog.TitleCount(),
				HDMVTitles:   catalog.HDMVTitleCount,
				BDJTitles:    catalog.BDJTitleCount,
				Unsupported:  catalog.UnsupportedTitleCount,
				MainTitle:    -1,
				FirstPlay:    catalog.FirstPlaySupported,
				TopMenu:      catalog.TopMenuSupported,
				HasMenus:     catalog.HasMenus,
				BDJ:          catalog.BDJDetected,
				AACS:         catalog.AACSDetected,
				BDPlus:       catalog.BDPlusDetected,
				Stereoscopic: catalog.Content3D,
			}
			if idx, err := catalog.MainTitle(); err == nil {
				view.MainTitle = idx
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(out, view.Label))
			rows := [][]string{
				{"Disc ID", view.DiscID},
				{"Fingerprint", view.Fingerprint},
				{"Volume", view.VolumeID},
				{"Version", view.Version},
				{"Titles", fmt.Sprintf("%d (HDMV %d, BD-J %d, unsupported %d)", view.Titles, view.HDMVTitles, view.BDJTitles, view.Unsupported)},
				{"Main title", fmt.Sprintf("%d", view.MainTitle)},
				{"First play", yesNo(view.FirstPlay)},
				{"Top menu", yesNo(view.TopMenu)},
				{"Menus", yesNo(view.HasMenus)},
				{"BD-J", yesNo(view.BDJ)},
				{"AACS", yesNo(view.AACS)},
				{"BD+", yesNo(view.BDPlus)},
				{"3D", yesNo(view.Stereoscopic)},
			}
			fmt.Fprintln(out, tableView{Headers: []string{"Field", "Value"}, Rows: rows}.Render())
			return nil
		},
	}
}
