package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hfpstack/gohfp/internal/hfp"
	"github.com/hfpstack/gohfp/internal/transport"
)

func sessionCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Drive a demo SLC establishment against an in-memory loopback transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := parseAddr(addrFlag)
			if err != nil {
				return err
			}

			events, finalState, err := transport.RunDemoSLC(cmd.Context(), addr, hfp.ServiceClassHandsfreeAudioGW, cfg.SDP.ChannelNr)
			if err != nil {
				return fmt.Errorf("run demo slc: %w", err)
			}

			for _, change := range events {
				fmt.Printf("event: peer=%s subtype=%s status=%d\n", change.Addr, change.Subtype, change.Status)
			}
			fmt.Printf("final state: %s\n", finalState)
			return nil
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "00:11:22:33:44:55", "peer Bluetooth device address")
	return cmd
}

func parseAddr(s string) (hfp.Addr, error) {
	var a hfp.Addr
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x", &a[0], &a[1], &a[2], &a[3], &a[4], &a[5])
	if err != nil || n != 6 {
		return hfp.Addr{}, fmt.Errorf("invalid address %q: expected AA:BB:CC:DD:EE:FF", s)
	}
	return a, nil
}
