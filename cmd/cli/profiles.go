package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/adbsweep/adbsweep/internal/profiles"
)

// profilesCmd lists the built-in scan profiles.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available scan profiles",
	Long: `List the built-in scan profiles. A profile is a tested preset of
thread count and per-probe timeout; pass one to 'adbsweep scan --profile'
to use it instead of hand-tuning the flags.`,
	Run: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Threads", "Timeout", "Retries", "Port Cap")

	for _, p := range profiles.All() {
		table.Append([]string{
			p.Name,
			strconv.Itoa(p.Threads),
			fmt.Sprintf("%.1fs", p.TimeoutSec),
			strconv.Itoa(p.RetryHint),
			strconv.Itoa(int(p.PortCap)),
		})
	}
	table.Render()
}
