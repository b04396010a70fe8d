package main

import (
	"fmt"
	"os"

	"github.com/setanarut/bmpkit"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Inspect BMP headers and channel statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().Bool("dump", false, "Print every pixel as (r, g, b)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	dump, _ := cmd.Flags().GetBool("dump")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	h, err := bmpkit.DecodeHeader(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	buf, err := bmpkit.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	st, err := bmpkit.Stats(buf)
	if err != nil {
		return err
	}

	fmt.Printf("File:        %s (%d bytes, header says %d)\n", path, len(data), h.File.Size)
	fmt.Printf("Dimensions:  %d x %d\n", h.Info.Width, h.Info.Height)
	fmt.Printf("Bit depth:   %d\n", h.Info.BitsPerPixel)
	fmt.Printf("Row stride:  %d bytes\n", buf.Stride)
	fmt.Printf("Data offset: %d\n", h.File.Offset)
	for i, name := range []string{"R", "G", "B"} {
		fmt.Printf("  %s mean %6.2f  stddev %6.2f\n", name, st.Mean[i], st.StdDev[i])
	}
	if dump {
		return bmpkit.Dump(os.Stdout, buf)
	}
	return nil
}
