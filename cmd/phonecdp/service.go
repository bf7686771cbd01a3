package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the verification service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := initClient()
			if err != nil {
				return err
			}

			var health model.Health
			err = common.WithRetry(cmd.Context(), func() error {
				var hErr error
				health, hErr = client.Health(cmd.Context())
				return api.Retryable(hErr)
			}, retryOptions)
			if err != nil {
				return fmt.Errorf("service at %s is unreachable: %w", client.BaseURL(), err)
			}

			printer(cmd).Success(fmt.Sprintf("%s is %s", client.BaseURL(), health.Status))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate verification statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := initClient()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get stats: %w", err)
			}
			return writeStats(cmd, stats)
		},
	}
}

func writeStats(cmd *cobra.Command, s model.Stats) error {
	p := printer(cmd)
	p.Title("Verification Overview")

	w := tabwriter.NewWriter(p.Writer(), 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Total patterns", humanize.Comma(int64(s.TotalPatterns))},
		{"Total verifications", humanize.Comma(int64(s.TotalVerifications))},
		{"Pass rate", strconv.FormatFloat(s.PassRate, 'f', -1, 64) + "%"},
		{"Avg confidence", viewmodel.ConfidenceText(s.AvgConfidence)},
		{"Avg markers", fmt.Sprintf("%.1f/%d", s.AvgMarkers, model.MaxMarkers)},
	}
	for _, v := range model.Verdicts {
		rows = append(rows, [2]string{p.Verdict(v), strconv.Itoa(s.Verdicts.Count(v))})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r[0], r[1]); err != nil {
			return fmt.Errorf("failed to write stats: %w", err)
		}
	}
	return w.Flush()
}

// tableWriter returns a tabwriter over cmd's output.
func tableWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
}
