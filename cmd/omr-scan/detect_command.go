package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-tools/internal/inference"
)

type detectOutput struct {
	ID      string             `json:"id"`
	Objects []inference.Object `json:"objects"`
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string

	cmd := &cobra.Command{
		Use:   "detect <file|->",
		Short: "Run the object detector on an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.logger(cfg)
			if err != nil {
				return err
			}

			opts, err := cfg.InferenceOptions()
			if err != nil {
				return err
			}
			if urlFlag != "" {
				opts.BaseURL = urlFlag
			}
			if opts.BaseURL == "" {
				return fmt.Errorf("inference url is not set (use --url, OMR_INFERENCE_URL or inference.url)")
			}

			client, err := inference.NewClient(opts, log)
			if err != nil {
				return err
			}

			img, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			objects, err := client.Detect(runCtx, img)
			if err != nil {
				return fmt.Errorf("detect: %w", err)
			}

			out := detectOutput{ID: uuid.NewString(), Objects: objects}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, out)
			}

			rows := make([][]string, len(objects))
			for i, o := range objects {
				rows[i] = []string{
					o.Category,
					strconv.FormatFloat(o.Confidence, 'f', 3, 64),
					formatCoords(o.Box),
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Detection %s\n", out.ID)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Confidence", "Box (cx, cy, w, h)"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Model server base URL (overrides inference.url)")
	return cmd
}

func formatCoords(c [4]float64) string {
	return fmt.Sprintf("%.4f, %.4f, %.4f, %.4f", c[0], c[1], c[2], c[3])
}
