package main

import (
	"fmt"

	"github.com/setanarut/bmpkit"
	"github.com/setanarut/bmpkit/utils"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a scaled PNG preview of a BMP",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringP("input", "i", "", "Input 24-bit BMP file")
	previewCmd.Flags().StringP("output", "o", "", "Output PNG file")
	previewCmd.Flags().Int("width", 640, "Maximum preview width")
	previewCmd.Flags().Int("height", 480, "Maximum preview height")
	previewCmd.Flags().Bool("stretch", false, "Fill the box exactly instead of keeping the aspect ratio")
	previewCmd.MarkFlagRequired("input")
	previewCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	stretch, _ := cmd.Flags().GetBool("stretch")

	buf, err := bmpkit.LoadFromPath(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	render := bmpkit.RenderFit
	if stretch {
		render = bmpkit.RenderScaled
	}
	img, err := render(buf, width, height)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if err := utils.SaveImage(img, outputPath); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	b := img.Bounds()
	fmt.Printf("Preview %dx%d → %dx%d: %s\n", buf.Width, buf.Height, b.Dx(), b.Dy(), outputPath)
	return nil
}
