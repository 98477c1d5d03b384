// Amtctl controls Intelbras AMT alarm panels over the TCP protocol their
// mobile apps use.
//
// The panel connection is configured through AMT_* environment variables;
// see 'amtctl --help' for the available commands.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	client "github.com/caarlos0/isecmobile"
	logp "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var log = logp.NewWithOptions(os.Stderr, logp.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "amtctl",
})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "amtctl",
	Short: "Control Intelbras AMT alarm panels",
	Long: `Amtctl talks to Intelbras AMT alarm panels (AMT 1016, AMT 2018,
AMT 4010 SMART) over the TCP protocol their mobile apps use.

The panel address and passwords come from AMT_* environment variables:

  AMT_HOST           panel address (required)
  AMT_PORT           panel port (default 9015)
  AMT_PASSWORD       master password, 6 digits (required)
  AMT_PASSWORD_A..D  per-partition passwords
  AMT_ZONES          zones to report (default all)
  AMT_ZONE_NAMES     friendly zone names
  AMT_SCAN_INTERVAL  watch poll interval (default 1s)
  AMT_TIMEOUT        panel response timeout (default 5s)
  AMT_MQTT_URL       publish state changes to this MQTT broker
  AMT_MQTT_TOPIC     MQTT topic root (default amt)
  AMT_LISTEN         prometheus metrics address for watch (default :9016)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(
		statusCmd,
		armCmd,
		stayCmd,
		disarmCmd,
		pgmCmd,
		bypassCmd,
		watchCmd,
		versionCmd,
	)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("amtctl %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "AMT_"}); err != nil {
		return cfg, fmt.Errorf(
			"could not parse env: %s",
			strings.TrimPrefix(err.Error(), "env: "),
		)
	}
	return cfg, nil
}

// withSupervisor runs fn against a freshly supervised panel session and
// closes it when fn returns.
func withSupervisor(fn func(cfg Config, sup *client.Supervisor) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sup, err := client.Supervise(cfg.panelConfig())
	if err != nil {
		return err
	}
	defer func() { _ = sup.Close() }()
	return fn(cfg, sup)
}
