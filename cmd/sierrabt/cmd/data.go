package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/sierrabt/scid"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Dataset utilities",
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <file.scid.xz> [file.scid.xz...]",
	Short: "Decompress downloaded .scid.xz archives in place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, src := range args {
			dst, err := scid.UnpackXZ(src, "")
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", src, dst)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(unpackCmd)
}
