package main

import (
	"fmt"

	"github.com/setanarut/bmpkit"
	"github.com/spf13/cobra"
)

// inPlace adapts an in-place transform to the load → apply → save flow.
func inPlace(fn func(*bmpkit.PixelBuffer) error) func(*bmpkit.PixelBuffer) (*bmpkit.PixelBuffer, error) {
	return func(b *bmpkit.PixelBuffer) (*bmpkit.PixelBuffer, error) {
		if err := fn(b); err != nil {
			return nil, err
		}
		return b, nil
	}
}

func newTransformCmd(use, short string, apply func(*bmpkit.PixelBuffer) (*bmpkit.PixelBuffer, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			outputPath, _ := cmd.Flags().GetString("output")

			buf, err := bmpkit.LoadFromPath(inputPath)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			out, err := apply(buf)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			if err := bmpkit.SaveToPath(outputPath, out); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			fmt.Printf("%s %dx%d: %s → %s\n", use, out.Width, out.Height, inputPath, outputPath)
			return nil
		},
	}
	addIOFlags(cmd)
	return cmd
}

func addIOFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Input 24-bit BMP file")
	cmd.Flags().StringP("output", "o", "", "Output BMP file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
}

func init() {
	rootCmd.AddCommand(
		newTransformCmd("equalize", "Per-channel histogram equalization", inPlace(bmpkit.Equalize)),
		newTransformCmd("sharpen", "3x3 Laplacian sharpening", bmpkit.Sharpen),
		newTransformCmd("hue", "Hue-band segmentation", inPlace(bmpkit.HueSegment)),
		newTransformCmd("gray", "Convert to grayscale", inPlace(bmpkit.Grayscale)),
	)
}
