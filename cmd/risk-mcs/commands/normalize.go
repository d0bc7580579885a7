package commands

import (
	"encoding/json"

	"risk-mcs/internal/register"
	"risk-mcs/internal/simulation"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <register>",
	Short: "Show which rows of a risk register take part in a simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := register.Load(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(simulation.NormalizeRisks(req.Risks))
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
