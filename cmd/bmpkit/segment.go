package main

import (
	"fmt"
	"log"
	"os"

	"github.com/setanarut/bmpkit"
	"github.com/setanarut/bmpkit/utils"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "K-means color segmentation",
	RunE:  runSegment,
}

func init() {
	def := bmpkit.DefaultSegmentOptions()
	addIOFlags(segmentCmd)
	segmentCmd.Flags().Int("k", 4, "Number of clusters")
	segmentCmd.Flags().Uint64("seed", def.Seed, "Seed for initial center selection")
	segmentCmd.Flags().Int("max-iter", def.MaxIterations, "Iteration cap")
	segmentCmd.Flags().String("palette", "", "Optional PNG swatch of the final centers")
	segmentCmd.Flags().BoolP("verbose", "v", false, "Log iteration progress")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	palettePath, _ := cmd.Flags().GetString("palette")
	verbose, _ := cmd.Flags().GetBool("verbose")

	opt := bmpkit.DefaultSegmentOptions()
	opt.K, _ = cmd.Flags().GetInt("k")
	opt.Seed, _ = cmd.Flags().GetUint64("seed")
	opt.MaxIterations, _ = cmd.Flags().GetInt("max-iter")
	if verbose {
		opt.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	buf, err := bmpkit.LoadFromPath(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	seg, err := bmpkit.SegmentWithOptions(buf, opt)
	if err != nil {
		return fmt.Errorf("segment: %w", err)
	}
	if err := bmpkit.SaveToPath(outputPath, buf); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Printf("Segmented %dx%d into %d clusters (%d iterations, converged=%t)\n",
		buf.Width, buf.Height, opt.K, seg.Iterations, seg.Converged)
	for i, c := range seg.Centers {
		fmt.Printf("  %2d: (%3d, %3d, %3d)\n", i, c.R, c.G, c.B)
	}
	if palettePath != "" {
		if err := utils.SavePalette(utils.CentersPalette(seg.Centers), 64, palettePath); err != nil {
			return fmt.Errorf("writing palette: %w", err)
		}
		fmt.Printf("Palette: %s\n", palettePath)
	}
	return nil
}
