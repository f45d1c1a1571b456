package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rook-computer/sketchpad/internal/app"
	"github.com/rook-computer/sketchpad/internal/sketch"
)

func newReplayCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Replay a recorded session and export the result as PNG",
		Long: `Replay reads a JSON session script ("-" for stdin), applies it to a fresh
pad and writes the surface as a PNG image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", sketch.ExportFilename, "output PNG file (\"-\" for stdout)")
	return cmd
}

func runReplay(cmd *cobra.Command, scriptPath, output string) error {
	logger := app.LoggerFrom(cmd.Context())

	var in io.Reader = cmd.InOrStdin()
	if scriptPath != "-" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	sc, err := sketch.ReadScript(in)
	if err != nil {
		return err
	}
	pad, err := sc.NewPad(sketch.DefaultOptions())
	if err != nil {
		return err
	}
	if err := sc.Replay(pad); err != nil {
		return err
	}

	if output == "-" {
		return pad.ExportPNG(cmd.OutOrStdout())
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := pad.ExportPNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	info := pad.Info()
	logger.Infof("replay", "%d steps -> %s (%dx%d)", len(sc.Steps), output, info.PixelWidth, info.PixelHeight)
	return nil
}
