package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/cli"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse and manage verification results",
	}
	cmd.AddCommand(resultsListCmd())
	cmd.AddCommand(resultsShowCmd())
	cmd.AddCommand(resultsDeleteCmd())
	cmd.AddCommand(resultsNotesCmd())
	cmd.AddCommand(resultsExportCmd())
	return cmd
}

func resultsListCmd() *cobra.Command {
	var (
		q       api.ResultQuery
		verdict string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List verification results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verdict != "" {
				v := model.Verdict(strings.ToUpper(verdict))
				if !lo.Contains(model.Verdicts, v) {
					return common.NewUserError(fmt.Sprintf("unknown verdict %q", verdict), common.ErrInvalidConfig)
				}
				q.Verdict = v
			}

			client, _, err := initClient()
			if err != nil {
				return err
			}
			list, err := client.ListResults(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to list results: %w", err)
			}
			return writeResults(cmd, list)
		},
	}

	cmd.Flags().StringVar(&verdict, "verdict", "", "only AUTHENTIC, SUSPICIOUS or COUNTERFEIT results")
	cmd.Flags().IntVar(&q.PatternID, "pattern", 0, "only results for this pattern id")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "maximum number of results")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "results to skip")
	return cmd
}

func writeResults(cmd *cobra.Command, list model.ResultList) error {
	p := printer(cmd)
	if len(list.Results) == 0 {
		p.Info("No results.")
		return nil
	}

	p.Title(fmt.Sprintf("Results (%d of %d)", len(list.Results), list.Total))
	w := tableWriter(cmd)
	if _, err := fmt.Fprintln(w, "ID\tDATE\tPATTERN\tVERDICT\tCONFIDENCE\tMARKERS\tALIGNMENT\tMM"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range list.Results {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Display(),
			orDash(r.PatternReference()),
			p.Verdict(r.Verdict),
			viewmodel.ConfidenceText(r.Confidence),
			r.MarkersFound, model.MaxMarkers,
			orDash(r.AlignmentMethod),
			viewmodel.PrintSizeText(r.PrintSizeMM),
		); err != nil {
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}
	return w.Flush()
}

func resultsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one result with its score breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := initClient()
			if err != nil {
				return err
			}
			r, err := client.GetResult(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get result %s: %w", args[0], err)
			}
			if err := writeResult(cmd, r); err != nil {
				return err
			}

			p := printer(cmd)
			p.Println()
			for _, kind := range api.ImageKinds {
				p.Printf("%-9s %s\n", kind, p.Subtle(client.URL(api.ResultImagePath(r.ID, kind))))
			}
			return nil
		},
	}
}

func resultsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, err := initClient()
			if err != nil {
				return err
			}
			if err := client.DeleteResult(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete result %d: %w", id, err)
			}
			printer(cmd).Success("Deleted")
			return nil
		},
	}
}

func resultsNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes ID TEXT",
		Short: "Replace the notes of a result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, err := initClient()
			if err != nil {
				return err
			}
			if _, err := client.UpdateNotes(cmd.Context(), id, args[1]); err != nil {
				return fmt.Errorf("failed to save notes: %w", err)
			}
			printer(cmd).Success("Notes saved")
			return nil
		},
	}
}

func resultsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all results as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := initClient()
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(settings.DownloadDir,
					fmt.Sprintf("verification_results_%s.csv", timeNow().Format("20060102_150405")))
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			cmd.SetContext(interrupts.HandleInterrupts(cmd.Context(), "Export", "The partial file was removed."))

			return common.WithRetry(cmd.Context(), func() error {
				return api.Retryable(saveDownload(cmd, client, api.ExportPath, output))
			}, retryOptions)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <download-dir>/verification_results_<time>.csv)")
	return cmd
}
