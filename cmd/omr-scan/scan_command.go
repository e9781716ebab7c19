package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-tools/internal/config"
	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/imaging"
	"github.com/ironsheep/omr-tools/internal/metrics"
	"github.com/ironsheep/omr-tools/internal/omr"
	"github.com/ironsheep/omr-tools/internal/vision"
)

type scanOutput struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Option    int          `json:"option"`
	Choices   []scanChoice `json:"choices"`
	Highlight string       `json:"highlight,omitempty"`
}

type scanChoice struct {
	Question int  `json:"question"`
	Value    *int `json:"value"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var highlightFile string
	var noHighlight bool

	cmd := &cobra.Command{
		Use:   "scan <file|->",
		Short: "Recognize the marked answers on a sheet",
		Long: `Recognize the marked answers on a photographed answer sheet.

The argument is an image file (PNG, JPEG or GIF), a data URI, or "-" to read
a data URI or raw image bytes from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger(cfg)
			if err != nil {
				return err
			}

			img, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			recorder := metrics.NewRecorder()
			pipeline, err := buildPipeline(cfg, log, recorder, !noHighlight)
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			if timeout := cfg.Timeout(); timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, timeout)
				defer cancel()
			}

			result, runErr := pipeline.Run(runCtx, img)
			if cfg.Metrics.Textfile != "" {
				if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					log.WithError(err).Warn("metrics export failed")
				}
			}
			if runErr != nil {
				return runErr
			}

			out := toScanOutput(result)
			if highlightFile != "" && out.Highlight != "" {
				if err := os.WriteFile(highlightFile, []byte(out.Highlight), 0o644); err != nil {
					return fmt.Errorf("write highlight: %w", err)
				}
			}

			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, out)
			}
			return printScan(cmd, out, highlightFile)
		},
	}

	cmd.Flags().StringVar(&highlightFile, "highlight-file", "", "Write the highlight data URI to this file")
	cmd.Flags().BoolVar(&noHighlight, "no-highlight", false, "Skip rendering the highlight image")
	return cmd
}

// buildPipeline wires the configured collaborators into a scan pipeline.
func buildPipeline(cfg *config.Config, log logrus.FieldLogger, observer omr.Observer, highlights bool) (*omr.Pipeline, error) {
	markers, err := vision.NewArucoSource()
	if err != nil {
		return nil, fmt.Errorf("marker detection: %w", err)
	}

	finder, err := newCircleFinder(cfg.Pipeline.CircleFinder)
	if err != nil {
		return nil, err
	}

	renderer, err := omr.NewHighlightRenderer(cfg.Pipeline.HighlightHeight)
	if err != nil {
		return nil, err
	}

	opts := []omr.Option{
		omr.WithMode(cfg.PipelineMode()),
		omr.WithCircleParams(cfg.CircleParams()),
		omr.WithMargin(cfg.Pipeline.Margin),
		omr.WithHighlights(highlights && cfg.Pipeline.Highlights),
		omr.WithRenderer(renderer),
		omr.WithLogger(log),
		omr.WithObserver(observer),
	}
	if cfg.PipelineMode() == omr.ModeRaw {
		opts = append(opts, omr.WithRawMetadata(cfg.RawMetadata()))
	}

	return omr.NewPipeline(markers, omr.NewQRReader(), finder, opts...)
}

func newCircleFinder(name string) (detection.CircleFinder, error) {
	switch name {
	case "opencv":
		f, err := vision.NewCircleFinder()
		if err != nil {
			return nil, fmt.Errorf("circle finder %q: %w (set pipeline.circle_finder = \"native\")", name, err)
		}
		return f, nil
	case "native":
		return detection.NewHoughFinder(), nil
	}
	return nil, fmt.Errorf("unknown circle finder %q", name)
}

// readInput loads an image from a path, a data URI, or stdin when src is "-".
func readInput(src string, stdin io.Reader) (image.Image, error) {
	if src != "-" {
		return imaging.LoadSource(src)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("data:")) {
		return imaging.DecodeDataURI(string(trimmed))
	}
	return imaging.Decode(bytes.NewReader(data))
}

func toScanOutput(r *omr.Result) scanOutput {
	out := scanOutput{
		ID:        r.ID,
		Name:      r.Metadata.ScaleName,
		Option:    r.Metadata.OptionCount,
		Choices:   make([]scanChoice, len(r.Choices)),
		Highlight: r.Highlight,
	}
	for i, c := range r.Choices {
		out.Choices[i] = scanChoice{Question: c.QuestionIndex, Value: c.Value}
	}
	return out
}

func printScan(cmd *cobra.Command, out scanOutput, highlightFile string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Scan %s\n", out.ID)
	fmt.Fprintf(w, "Scale: %s (%d options)\n", out.Name, out.Option)

	rows := make([][]string, len(out.Choices))
	for i, c := range out.Choices {
		answer := "-"
		if c.Value != nil {
			answer = strconv.Itoa(*c.Value)
		}
		rows[i] = []string{strconv.Itoa(c.Question), answer}
	}
	fmt.Fprintln(w, renderTable([]string{"Question", "Answer"}, rows, []columnAlignment{alignRight, alignRight}))

	switch {
	case out.Highlight == "":
	case highlightFile != "":
		fmt.Fprintf(w, "Highlight written to %s\n", highlightFile)
	default:
		fmt.Fprintln(w, "Highlight rendered; use --highlight-file or --json to save it")
	}
	return nil
}
