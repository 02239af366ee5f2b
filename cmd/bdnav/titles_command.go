package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bdnav/internal/bdmv"
	"bdnav/internal/language"
)

type titleView struct {
	Index      int    `json:"index"`
	PlaylistID uint32 `json:"playlist_id"`
	Kind       string `json:"kind"`
	Duration   string `json:"duration"`
	Ticks      uint64 `json:"duration_ticks"`
	SizeBytes  uint64 `json:"size_bytes"`
	Clips      int    `json:"clips"`
	Chapters   int    `json:"chapters"`
	Angles     int    `json:"angles"`
	Marks      int    `json:"marks"`
	Main       bool   `json:"main"`
}

type chapterView struct {
	Index      int    `json:"index"`
	Start      string `json:"start"`
	StartTicks uint64 `json:"start_ticks"`
	Duration   string `json:"duration"`
	ByteOffset uint64 `json:"byte_offset"`
	Clip       int    `json:"clip"`
}

type clipView struct {
	Index     int      `json:"index"`
	ClipID    string   `json:"clip_id"`
	Angles    []string `json:"angles,omitempty"`
	Start     string   `json:"start"`
	Duration  string   `json:"duration"`
	SizeBytes uint64   `json:"size_bytes"`
	Still     string   `json:"still"`
	Audio     []string `json:"audio,omitempty"`
	Subtitles []string `json:"subtitles,omitempty"`
}

type titleDetailView struct {
	titleView
	Chapters []chapterView `json:"chapter_list"`
	Clips    []clipView    `json:"clip_list"`
}

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var showAll bool
	var minSeconds int
	var titleIdx int

	cmd := &cobra.Command{
		Use:   "titles <disc>",
		Short: "List the disc's titles, or one title's chapters and clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			h, err := ctx.openDisc(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer h.Close()
			catalog := h.session.Catalog()
			mainIdx, _ := catalog.MainTitle()

			if cmd.Flags().Changed("title") {
				detail, err := h.session.TitleInfo(titleIdx)
				if err != nil {
					return err
				}
				return renderTitleDetail(ctx, cmd, detail, detail.Index == mainIdx)
			}

			filter := cfg.TitleFilterFlags()
			if !cmd.Flags().Changed("min-seconds") {
				minSeconds = cfg.Player.MinTitleSeconds
			}
			if showAll {
				filter, minSeconds = bdmv.FilterAll, 0
			}
			summaries := catalog.FilterTitles(filter, uint32(max(minSeconds, 0)))

			views := make([]titleView, 0, len(summaries))
			for _, s := range summaries {
				views = append(views, newTitleView(s, s.Index == mainIdx))
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			var totalBytes uint64
			for _, v := range views {
				totalBytes += v.SizeBytes
				marker := ""
				if v.Main {
					marker = "*"
				}
				rows = append(rows, []string{
					strconv.Itoa(v.Index) + marker,
					fmt.Sprintf("%05d", v.PlaylistID),
					v.Kind,
					v.Duration,
					formatBytes(v.SizeBytes),
					strconv.Itoa(v.Clips),
					strconv.Itoa(v.Chapters),
					strconv.Itoa(v.Angles),
				})
			}
			footer := []string{fmt.Sprintf("%d shown", len(views)), "", "", "", formatBytes(totalBytes)}
			headers := []string{"Title", "Playlist", "Kind", "Duration", "Size", "Clips", "Chapters", "Angles"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), tableView{Headers: headers, Aligns: aligns, Rows: rows, Footer: footer}.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Show every title, ignoring duplicate and length filters")
	cmd.Flags().IntVar(&minSeconds, "min-seconds", 0, "Hide titles shorter than this many seconds")
	cmd.Flags().IntVarP(&titleIdx, "title", "t", 0, "Show chapters and clips of one title")
	return cmd
}

func newTitleView(s bdmv.TitleSummary, main bool) titleView {
	return titleView{
		Index:      s.Index,
		PlaylistID: s.PlaylistID,
		Kind:       s.Kind.String(),
		Duration:   formatTicks(s.Duration),
		Ticks:      s.Duration,
		SizeBytes:  s.SizeBytes,
		Clips:      s.ClipCount,
		Chapters:   s.ChapterCount,
		Angles:     s.AngleCount,
		Marks:      s.MarkCount,
		Main:       main,
	}
}

func renderTitleDetail(ctx *commandContext, cmd *cobra.Command, detail bdmv.TitleDetail, main bool) error {
	view := titleDetailView{titleView: newTitleView(detail.TitleSummary, main)}
	for _, ch := range detail.Chapters {
		view.Chapters = append(view.Chapters, chapterView{
			Index:      ch.Index,
			Start:      formatTicks(ch.StartTick),
			StartTicks: ch.StartTick,
			Duration:   formatTicks(ch.DurationTicks),
			ByteOffset: ch.ByteOffset,
			Clip:       ch.ClipRef,
		})
	}
	for i, clip := range detail.Clips {
		cv := clipView{
			Index:     i,
			ClipID:    clip.ClipID,
			Start:     formatTicks(clip.StartTime),
			Duration:  formatTicks(clip.Duration()),
			SizeBytes: clip.SizeBytes(),
			Still:     clip.StillMode.String(),
		}
		if len(clip.AngleClipIDs) > 1 {
			cv.Angles = clip.AngleClipIDs[1:]
		}
		for _, stream := range clip.Streams {
			switch stream.Kind {
			case bdmv.StreamAudio:
				cv.Audio = append(cv.Audio, language.DisplayName(stream.Language))
			case bdmv.StreamPG:
				cv.Subtitles = append(cv.Subtitles, language.DisplayName(stream.Language))
			}
		}
		view.Clips = append(view.Clips, cv)
	}

	if ctx.jsonOutput() {
		return writeJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, heading(out, fmt.Sprintf("Title %d · playlist %05d · %s · %s",
		view.Index, view.PlaylistID, view.Duration, formatBytes(view.SizeBytes))))

	chapterRows := make([][]string, 0, len(view.Chapters))
	for _, ch := range view.Chapters {
		chapterRows = append(chapterRows, []string{
			strconv.Itoa(ch.Index), ch.Start, ch.Duration, strconv.FormatUint(ch.ByteOffset, 10), strconv.Itoa(ch.Clip),
		})
	}
	fmt.Fprintln(out, tableView{
		Title:   "Chapters",
		Headers: []string{"#", "Start", "Duration", "Offset", "Clip"},
		Aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
		Rows:    chapterRows,
	}.Render())

	clipRows := make([][]string, 0, len(view.Clips))
	for _, cv := range view.Clips {
		clipRows = append(clipRows, []string{
			strconv.Itoa(cv.Index), cv.ClipID, cv.Start, cv.Duration, formatBytes(cv.SizeBytes), cv.Still,
			strings.Join(cv.Audio, ", "), strings.Join(cv.Subtitles, ", "),
		})
	}
	fmt.Fprintln(out, tableView{
		Title:   "Clips",
		Headers: []string{"#", "Clip", "Start", "Duration", "Size", "Still", "Audio", "Subtitles"},
		Aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
		Rows:    clipRows,
	}.Render())
	return nil
}
