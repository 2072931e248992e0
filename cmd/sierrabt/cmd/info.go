package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/scid"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.scid>",
	Short: "Print header and range information for a SCID file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := scid.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Printf("File:    %s\n", r.Path())
	fmt.Printf("Records: %d\n", r.Count())

	if r.Count() > 0 {
		first, err := r.At(0)
		if err != nil {
			return err
		}
		last, err := r.At(r.Count() - 1)
		if err != nil {
			return err
		}
		fmt.Printf("First:   %s  price=%g\n", time.UnixMicro(first.TimeUS).UTC().Format(time.RFC3339Nano), first.Price)
		fmt.Printf("Last:    %s  price=%g\n", time.UnixMicro(last.TimeUS).UTC().Format(time.RFC3339Nano), last.Price)
	}
	return nil
}
