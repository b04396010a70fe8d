package main

import (
	"fmt"

	"github.com/setanarut/bmpkit"
	"github.com/setanarut/bmpkit/utils"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a PNG, JPEG or other BMP variant to 24-bit BMP",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringP("input", "i", "", "Input image")
	importCmd.Flags().StringP("output", "o", "", "Output 24-bit BMP file")
	importCmd.MarkFlagRequired("input")
	importCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	buf, err := utils.ImportImage(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if err := bmpkit.SaveToPath(outputPath, buf); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Imported %dx%d: %s → %s\n", buf.Width, buf.Height, inputPath, outputPath)
	return nil
}
