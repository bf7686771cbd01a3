package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/phonecdp/internal/cli"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
	"github.com/Veraticus/phonecdp/internal/workflow"
)

func verifyCmd() *cobra.Command {
	var (
		sel       workflow.Selection
		printSize int
	)

	cmd := &cobra.Command{
		Use:   "verify --pattern ID [flags] FILE...",
		Short: "Verify one or more photos of a printed pattern",
		Long: `Verify photos against a reference pattern.

One file is sent to the single-verify endpoint; several files are sent as one
batch. Arguments may be globs. Files that are missing or are not images are
skipped with a warning.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := printer(cmd)

			files, skipped := workflow.SelectPaths(args)
			for _, s := range skipped {
				p.Warning(fmt.Sprintf("skipped %s: %s", s.Path, s.Reason))
			}
			sel.Files = files
			if !sel.CanSubmit() {
				return common.ErrNoFiles
			}
			if cmd.Flags().Changed("print-size") {
				if printSize <= 0 {
					return common.ErrInvalidSize
				}
				sel.PrintSizeMM = &printSize
			}

			client, _, err := initClient()
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := interrupts.HandleInterrupts(cmd.Context(), "Verification", "")

			common.LogInfo("submitting verification", common.Fields{"pattern_id": sel.PatternID, "files": len(files)})
			outcome, err := workflow.Submit(ctx, client, sel)
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}

			switch o := outcome.(type) {
			case workflow.Single:
				return writeResult(cmd, o.Result)
			case workflow.Batch:
				return writeBatch(cmd, o.Items)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&sel.PatternID, "pattern", "p", 0, "reference pattern id")
	cmd.Flags().IntVar(&printSize, "print-size", 0, "printed size in millimeters")
	cmd.Flags().StringVar(&sel.Notes, "notes", "", "notes stored with the result")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}

// writeResult prints one verification result with its score breakdown.
func writeResult(cmd *cobra.Command, r model.VerificationResult) error {
	p := printer(cmd)
	p.Title(fmt.Sprintf("Verification #%d", r.ID))

	weights := viewmodel.RecordWeights(r)
	w := tableWriter(cmd)
	lines := [][2]string{
		{"Verdict", p.Verdict(r.Verdict)},
		{"Confidence", viewmodel.ConfidenceText(r.Confidence)},
		{"Pattern", orDash(r.PatternReference())},
		{"Markers", fmt.Sprintf("%d/%d", r.MarkersFound, model.MaxMarkers)},
		{"Alignment", orDash(r.AlignmentMethod)},
		{"Print size", viewmodel.PrintSizeText(r.PrintSizeMM)},
		{"Created", r.CreatedAt.Display()},
		{"Notes", orDash(r.Notes)},
	}
	for _, row := range viewmodel.ScoreRows(r.Scores, weights) {
		lines = append(lines, [2]string{
			fmt.Sprintf("%s (%d%%)", row.Name, row.WeightPercent),
			strconv.Itoa(row.Percent) + "%",
		})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", l[0], l[1]); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return w.Flush()
}

// writeBatch prints a batch outcome and its pass count.
func writeBatch(cmd *cobra.Command, items []model.BatchItem) error {
	p := printer(cmd)
	view := viewmodel.NewBatchView(items)

	w := tableWriter(cmd)
	if _, err := fmt.Fprintln(w, "FILE\tVERDICT\tDETAIL\tRESULT"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range view.Rows {
		ref := "-"
		if row.Selectable {
			ref = "#" + strconv.Itoa(row.ResultID)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Filename, p.Verdict(row.Verdict), row.Detail, ref); err != nil {
			return fmt.Errorf("failed to write batch row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	p.Println()
	summary := view.Summary() + " Passed"
	if view.Passed == view.Total {
		p.Success(summary)
	} else {
		p.Warning(summary)
	}
	return nil
}
