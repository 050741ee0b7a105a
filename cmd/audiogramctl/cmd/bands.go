package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/audiogram/internal/audiogram"
)

type bandOutput struct {
	Name  string  `yaml:"name"`
	MinDB float64 `yaml:"min_db"`
	MaxDB float64 `yaml:"max_db"`
	Color string  `yaml:"color"`
}

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print the hearing-loss severity bands",
	Args:  cobra.NoArgs,
	RunE:  runBands,
}

func init() {
	rootCmd.AddCommand(bandsCmd)
}

func runBands(cmd *cobra.Command, args []string) error {
	var out []bandOutput
	for _, b := range audiogram.SeverityBands() {
		out = append(out, bandOutput{Name: b.Name, MinDB: b.MinDB, MaxDB: b.MaxDB, Color: b.CSS()})
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string]any{"bands": out})
}
