package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adbsweep/adbsweep/internal/config"
	"github.com/adbsweep/adbsweep/internal/export"
	"github.com/adbsweep/adbsweep/internal/sweep"
)

// Progress lines are refreshed at most once per this many scanned targets.
const progressStep = 10

var (
	scanStartIP    string
	scanEndIP      string
	scanPorts      string
	scanThreads    int
	scanTimeout    float64
	scanProfile    string
	scanSkipPing   bool
	scanNoADB      bool
	scanNoSSH      bool
	scanNoTelnet   bool
	scanMaxTargets uint64
	scanOutput     string
	scanOutputFile string
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep an address range for TCP services",
	Long: `Sweep every (address, port) pair in the given IPv4 range, classify
what answers on each open port, and report the discovered devices.

The range is inclusive on both ends. A named profile overrides the thread
count and timeout with a tested preset; see 'adbsweep profiles'.`,
	Example: `  adbsweep scan --start 192.168.1.1 --end 192.168.1.255
  adbsweep scan --start 10.0.0.1 --end 10.0.3.255 --ports "5555,22" --profile quick
  adbsweep scan --start 192.168.1.1 --end 192.168.1.50 --ports "1-1024" --skip-ping
  adbsweep scan --start 192.168.1.1 --end 192.168.1.255 --output json --output-file result.json`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanStartIP, "start", "", "First address of the range (inclusive)")
	scanCmd.Flags().StringVar(&scanEndIP, "end", "", "Last address of the range (inclusive)")
	scanCmd.Flags().StringVar(&scanPorts, "ports", "", "Port specification: '5555', '1-1024', or '22,23,5555'")
	scanCmd.Flags().IntVar(&scanThreads, "threads", 0, "Concurrent probe workers (1-200)")
	scanCmd.Flags().Float64Var(&scanTimeout, "timeout", 0, "Per-probe timeout in seconds (0.1-10.0)")
	scanCmd.Flags().StringVar(&scanProfile, "profile", "", "Scan profile overriding threads and timeout")
	scanCmd.Flags().BoolVar(&scanSkipPing, "skip-ping", false, "Skip the ping reachability pre-check")
	scanCmd.Flags().BoolVar(&scanNoADB, "no-adb", false, "Disable ADB handshake classification")
	scanCmd.Flags().BoolVar(&scanNoSSH, "no-ssh", false, "Disable SSH banner classification")
	scanCmd.Flags().BoolVar(&scanNoTelnet, "no-telnet", false, "Disable telnet classification")
	scanCmd.Flags().Uint64Var(&scanMaxTargets, "max-targets", 0, "Safety cap on generated targets (0 = unlimited)")
	scanCmd.Flags().StringVar(&scanOutput, "output", "", "Output format: table, json, csv")
	scanCmd.Flags().StringVar(&scanOutputFile, "output-file", "", "Write the report to this file instead of stdout")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyScanFlags(cmd, cfg)

	validated, err := sweep.Validate(cfg.ScanConfig())
	if err != nil {
		return err
	}

	session := sweep.Start(validated)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, "\nCancelling sweep...")
			session.Cancel()
		}
	}()

	reportProgress(session)

	if err := session.Wait(context.Background()); err != nil {
		return err
	}

	report := export.NewReport(session.Results(), session.Progress())
	return writeReport(cfg, report, session.State())
}

// applyScanFlags overlays explicitly set command-line flags onto the loaded
// configuration. Unset flags leave the file or default values alone.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("start") {
		cfg.Sweep.StartIP = scanStartIP
	}
	if cmd.Flags().Changed("end") {
		cfg.Sweep.EndIP = scanEndIP
	}
	if cmd.Flags().Changed("ports") {
		cfg.Sweep.Ports = scanPorts
	}
	if cmd.Flags().Changed("threads") {
		cfg.Sweep.Threads = scanThreads
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Sweep.TimeoutSec = scanTimeout
	}
	if cmd.Flags().Changed("profile") {
		cfg.Sweep.Profile = scanProfile
	}
	if cmd.Flags().Changed("skip-ping") {
		cfg.Sweep.SkipPing = scanSkipPing
	}
	if scanNoADB {
		cfg.Sweep.ScanADB = false
	}
	if scanNoSSH {
		cfg.Sweep.ScanSSH = false
	}
	if scanNoTelnet {
		cfg.Sweep.ScanTelnet = false
	}
	if cmd.Flags().Changed("max-targets") {
		cfg.Sweep.MaxTargets = scanMaxTargets
	}
	if cmd.Flags().Changed("output") {
		cfg.Export.Format = scanOutput
	}
}

// reportProgress consumes progress updates until the session settles,
// refreshing a single status line on stderr.
func reportProgress(session *sweep.Session) {
	ch := session.Subscribe()
	var lastShown uint64
	for p := range ch {
		if p.Scanned != p.Total && p.Scanned < lastShown+progressStep {
			continue
		}
		lastShown = p.Scanned
		fmt.Fprintf(os.Stderr, "\rScanned %d/%d (%.1f%%) open=%d found=%d",
			p.Scanned, p.Total, p.Percent(), p.Open, p.Found)
	}
	fmt.Fprintln(os.Stderr)
}

func writeReport(cfg *config.Config, report *export.Report, state sweep.State) error {
	switch cfg.Export.Format {
	case "json":
		if scanOutputFile != "" {
			return report.SaveJSON(outputPath(cfg, scanOutputFile))
		}
		return report.WriteJSON(os.Stdout)
	case "csv":
		if scanOutputFile != "" {
			return report.SaveCSV(outputPath(cfg, scanOutputFile))
		}
		return report.WriteCSV(os.Stdout)
	case "table", "":
		displayReport(report, state)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", cfg.Export.Format)
	}
}

func outputPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) || cfg.Export.Directory == "" {
		return name
	}
	return filepath.Join(cfg.Export.Directory, name)
}

// displayReport renders discovered devices as a table with a stats footer.
func displayReport(report *export.Report, state sweep.State) {
	if len(report.Devices) == 0 {
		fmt.Printf("\nNo services found (state: %s)\n", state)
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("IP", "Port", "Type", "Status", "Banner")
		for i := range report.Devices {
			d := &report.Devices[i]
			banner := d.Banner
			if len(banner) > 48 {
				banner = banner[:45] + "..."
			}
			table.Append([]string{
				d.IP,
				strconv.Itoa(int(d.Port)),
				d.DeviceType,
				d.Status,
				banner,
			})
		}
		table.Render()
	}

	fmt.Printf("\nSweep %s: %d found, %d scanned in %.2fs\n",
		state, report.Stats.Found, report.Stats.Scanned, report.Stats.Time)
}
