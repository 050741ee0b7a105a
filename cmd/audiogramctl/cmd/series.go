package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/audiogram/internal/config"
	"github.com/RMahshie/audiogram/internal/processing"
	"github.com/RMahshie/audiogram/internal/repository/source"
)

var seriesTimeout time.Duration

var seriesCmd = &cobra.Command{
	Use:   "series <test-id>",
	Short: "Print the normalized threshold series of a hearing test",
	Long: `Fetch a hearing test from the configured record source (Postgres or S3,
behind the Redis cache when REDIS_URL is set) and print both
ears' thresholds in canonical frequency order. Untested frequencies are
printed as null.

Example:
  audiogramctl series ht-1024`,
	Args: cobra.ExactArgs(1),
	RunE: runSeries,
}

func init() {
	seriesCmd.Flags().DurationVar(&seriesTimeout, "timeout", 10*time.Second, "record fetch timeout")
	rootCmd.AddCommand(seriesCmd)
}

func runSeries(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), seriesTimeout)
	defer cancel()

	src, err := source.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer src.Close()

	// series only: no surfaces are drawn from the CLI
	svc := processing.NewAudiogramService(src.Records, nil, nil)
	a, err := svc.Series(ctx, args[0])
	if err != nil {
		return err
	}
	return writeSeries(cmd, a)
}

func writeSeries(cmd *cobra.Command, a any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(a)
}
