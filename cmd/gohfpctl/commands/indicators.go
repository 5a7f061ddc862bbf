package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func indicatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "Print the configured AG indicator and generic status indicator templates",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if outputFormat == "json" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.HFP)
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMIN\tMAX\tMANDATORY")
			for _, ind := range cfg.HFP.AGIndicators {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%v\n", ind.Name, ind.MinRange, ind.MaxRange, ind.Mandatory)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Println("\ngeneric status indicator UUIDs:")
			for _, uuid := range cfg.HFP.GenericStatusIndicatorUUIDs {
				fmt.Printf("  0x%04x\n", uuid)
			}
			return nil
		},
	}
}
