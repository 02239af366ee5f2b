package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bdnav/internal/events"
	"bdnav/internal/nav"
	"bdnav/internal/playback"
)

type eventLine struct {
	Event    string `json:"event"`
	Code     uint32 `json:"code"`
	Param    uint64 `json:"param"`
	Title    int    `json:"title"`
	Position uint64 `json:"byte_position"`
	Time     string `json:"time"`
}

type playSummary struct {
	Title     int    `json:"title"`
	Bytes     uint64 `json:"bytes"`
	Events    int    `json:"events"`
	Completed bool   `json:"completed"`
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var titleIdx int
	var playlistID uint32
	var chapterIdx int
	var angle int
	var outputPath string
	var chunkBytes int
	var maxBytes int64

	cmd := &cobra.Command{
		Use:   "play <disc>",
		Short: "Play a title, writing its stream and printing navigation events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, err := ctx.openDisc(runCtx, args[0])
			if err != nil {
				return err
			}
			defer h.Close()
			session := h.session

			switch {
			case cmd.Flags().Changed("playlist"):
				err = session.SelectPlaylist(runCtx, playlistID)
			case cmd.Flags().Changed("title"):
				err = session.SelectTitle(runCtx, titleIdx)
			}
			if err != nil {
				return err
			}
			if err := session.Play(runCtx); err != nil {
				return err
			}
			if cmd.Flags().Changed("chapter") {
				if _, err := session.SeekChapter(chapterIdx); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("angle") {
				if err := session.SelectAngle(angle); err != nil {
					return err
				}
			}

			var sink io.Writer = io.Discard
			report := cmd.OutOrStdout()
			switch outputPath {
			case "":
			case "-":
				sink = cmd.OutOrStdout()
				report = cmd.ErrOrStderr()
			default:
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				sink = file
			}

			if !cmd.Flags().Changed("chunk") {
				chunkBytes = cfg.Player.ReadChunkBytes
			}
			if chunkBytes < 192 {
				return fmt.Errorf("--chunk must be at least 192 bytes")
			}

			summary, err := runPlayback(runCtx, session, sink, report, ctx.jsonOutput(), chunkBytes, maxBytes, cfg.Player.ChainTitles)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				enc := json.NewEncoder(report)
				return enc.Encode(summary)
			}
			status := "stopped"
			if summary.Completed {
				status = "completed"
			}
			fmt.Fprintf(report, "Title %d %s: %s delivered, %d events\n",
				summary.Title, status, formatBytes(summary.Bytes), summary.Events)
			return nil
		},
	}

	cmd.Flags().IntVarP(&titleIdx, "title", "t", 0, "Title index to play (default: main title)")
	cmd.Flags().Uint32VarP(&playlistID, "playlist", "p", 0, "Playlist id to play")
	cmd.Flags().IntVar(&chapterIdx, "chapter", 0, "Start at this chapter")
	cmd.Flags().IntVar(&angle, "angle", 0, "Angle to present")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the stream to this file (- for stdout)")
	cmd.Flags().IntVar(&chunkBytes, "chunk", 0, "Read size in bytes (default: player.read_chunk_bytes)")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "Stop after this many bytes (0 = whole title)")
	return cmd
}

// runPlayback reads the selected title until it ends, the byte limit is
// reached or ctx is cancelled. Stills are skipped.
func runPlayback(ctx context.Context, session *playback.Session, sink, report io.Writer, asJSON bool, chunk int, limit int64, chain bool) (playSummary, error) {
	var summary playSummary
	summary.Title, _ = session.CurrentTitle()
	buf := make([]byte, chunk)

	emit := func(ev events.Event) error {
		summary.Events++
		line := eventLine{
			Event:    ev.Type.String(),
			Code:     ev.Code(),
			Param:    ev.Param,
			Position: session.Tell(),
			Time:     formatTicks(session.TellTime()),
		}
		line.Title, _ = session.CurrentTitle()
		if asJSON {
			return json.NewEncoder(report).Encode(line)
		}
		_, err := fmt.Fprintf(report, "%s  %-16s %d\n", line.Time, line.Event, line.Param)
		return err
	}

	for {
		n, ev, err := session.ReadContext(ctx, buf)
		if err != nil {
			return summary, err
		}
		if n > 0 {
			if _, err := sink.Write(buf[:n]); err != nil {
				return summary, fmt.Errorf("write stream: %w", err)
			}
			summary.Bytes += uint64(n)
		}

		pending := []events.Event{}
		if !ev.IsZero() {
			pending = append(pending, ev)
		}
		for {
			queued, ok := session.Pop()
			if !ok {
				break
			}
			pending = append(pending, queued)
		}
		for _, e := range pending {
			if err := emit(e); err != nil {
				return summary, err
			}
			switch e.Type {
			case events.Error, events.ReadError:
				return summary, fmt.Errorf("%s at byte %d of title %d", e.Type, session.Tell(), summary.Title)
			case events.Still, events.StillTime:
				if err := session.SkipStill(); err != nil {
					return summary, err
				}
			}
		}

		if limit > 0 && summary.Bytes >= uint64(limit) {
			return summary, nil
		}
		if session.State() == nav.EndOfTitle {
			cur, _ := session.CurrentTitle()
			if !chain || cur+1 >= session.Catalog().TitleCount() {
				summary.Completed = true
				return summary, nil
			}
		}
	}
}
