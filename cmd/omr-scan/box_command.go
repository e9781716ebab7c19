package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-tools/internal/geometry"
)

func newBoxCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Bounding box utilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newBoxConvertCommand(ctx))
	return cmd
}

func newBoxConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		fromFlag, toFlag      string
		fromNorm, toNorm      bool
		widthFlag, heightFlag float64
	)

	cmd := &cobra.Command{
		Use:   "convert <a> <b> <c> <d>",
		Short: "Convert a box between CCWH, XYWH and XYXY forms",
		Long: `Convert a bounding box between formats.

  ccwh  center x, center y, width, height
  xywh  left, top, width, height
  xyxy  left, top, right, bottom

--from-normalized and --to-normalized treat coordinates as fractions of
--width and --height.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := geometry.ParseBoxFormat(fromFlag)
			if err != nil {
				return err
			}
			to, err := geometry.ParseBoxFormat(toFlag)
			if err != nil {
				return err
			}

			var coords [4]float64
			for i, a := range args {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("coordinate %d: %w", i+1, err)
				}
				coords[i] = v
			}

			dim := geometry.Dimensions{Width: widthFlag, Height: heightFlag}
			out, err := geometry.ConvertChecked(coords, dim, from, fromNorm, to, toNorm)
			if err != nil {
				return err
			}

			box := geometry.Box{Coords: out, Format: to, Normalized: toNorm}
			if ctx.wantJSON(cmd) {
				return writeJSON(cmd, box)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", to, formatCoords(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "ccwh", "Input format")
	cmd.Flags().StringVar(&toFlag, "to", "ccwh", "Output format")
	cmd.Flags().BoolVar(&fromNorm, "from-normalized", false, "Input is normalized")
	cmd.Flags().BoolVar(&toNorm, "to-normalized", false, "Normalize the output")
	cmd.Flags().Float64Var(&widthFlag, "width", 0, "Image width in pixels")
	cmd.Flags().Float64Var(&heightFlag, "height", 0, "Image height in pixels")
	return cmd
}
