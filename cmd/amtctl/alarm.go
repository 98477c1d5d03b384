package main

import (
	"errors"
	"fmt"
	"strconv"

	client "github.com/caarlos0/isecmobile"
	"github.com/spf13/cobra"
)

var (
	armPartition    string
	armStay         bool
	disarmPartition string
)

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Arm the panel or a single partition",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(_ Config, sup *client.Supervisor) error {
			var err error
			switch {
			case armStay && armPartition != "":
				return errors.New("stay mode arms the whole panel, drop --partition")
			case armStay:
				err = sup.ArmStay(cmd.Context())
			case armPartition != "":
				err = sup.ArmPartition(cmd.Context(), armPartition)
			default:
				err = sup.Arm(cmd.Context())
			}
			if errors.Is(err, client.ErrOpenZones) {
				log.Warn("panel refused to arm with open zones, try 'amtctl bypass' first")
			}
			return err
		})
	},
}

var stayCmd = &cobra.Command{
	Use:   "stay",
	Short: "Arm the panel in stay mode",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(_ Config, sup *client.Supervisor) error {
			return sup.ArmStay(cmd.Context())
		})
	},
}

var disarmCmd = &cobra.Command{
	Use:   "disarm",
	Short: "Disarm the panel or a single partition",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(_ Config, sup *client.Supervisor) error {
			if disarmPartition != "" {
				return sup.DisarmPartition(cmd.Context(), disarmPartition)
			}
			return sup.Disarm(cmd.Context())
		})
	},
}

var pgmCmd = &cobra.Command{
	Use:   "pgm <number> <on|off>",
	Short: "Switch a programmable output",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("not a pgm number: %q", args[0])
		}
		var activate bool
		switch args[1] {
		case "on":
			activate = true
		case "off":
		default:
			return fmt.Errorf("expected on or off, got %q", args[1])
		}
		return withSupervisor(func(_ Config, sup *client.Supervisor) error {
			return sup.SetPGM(cmd.Context(), number, activate)
		})
	},
}

var bypassCmd = &cobra.Command{
	Use:   "bypass",
	Short: "Bypass every zone currently open",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSupervisor(func(_ Config, sup *client.Supervisor) error {
			return sup.BypassOpenZones(cmd.Context())
		})
	},
}

func init() {
	armCmd.Flags().StringVarP(&armPartition, "partition", "p", "", "partition letter (A-D)")
	armCmd.Flags().BoolVar(&armStay, "stay", false, "arm in stay mode")
	disarmCmd.Flags().StringVarP(&disarmPartition, "partition", "p", "", "partition letter (A-D)")
}
