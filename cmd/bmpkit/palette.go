package main

import (
	"fmt"

	"github.com/setanarut/bmpkit"
	"github.com/setanarut/bmpkit/utils"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Extract a color palette as a PNG swatch strip",
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().StringP("input", "i", "", "Input image (BMP, PNG or JPEG)")
	paletteCmd.Flags().StringP("output", "o", "", "Output PNG swatch file")
	paletteCmd.Flags().Int("k", 6, "Number of colors")
	paletteCmd.Flags().String("method", "dominantcolor", "Palette method (dominantcolor, kmeans, segment)")
	paletteCmd.Flags().Bool("sort", true, "Sort colors from dark to bright")
	paletteCmd.MarkFlagRequired("input")
	paletteCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	k, _ := cmd.Flags().GetInt("k")
	methodStr, _ := cmd.Flags().GetString("method")
	sortColors, _ := cmd.Flags().GetBool("sort")

	method, err := utils.ParsePaletteMethod(methodStr)
	if err != nil {
		return err
	}
	if k < 1 {
		return fmt.Errorf("%w: k = %d", bmpkit.ErrInvalidParameter, k)
	}
	buf, err := utils.ImportImage(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	palette := utils.ExtractPalette(buf, k, method)
	if sortColors {
		utils.SortPaletteByBrightness(palette)
	}
	if err := utils.SavePalette(palette, 64, outputPath); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Extracted %d colors with %s → %s\n", len(palette), method, outputPath)
	for _, c := range palette {
		fmt.Printf("  %s\n", c.Hex())
	}
	return nil
}
