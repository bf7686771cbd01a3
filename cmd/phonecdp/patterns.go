package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/cli"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage reference patterns",
	}
	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsGenerateCmd())
	cmd.AddCommand(patternsDeleteCmd())
	cmd.AddCommand(patternsDownloadCmd())
	return cmd
}

func patternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated patterns, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := initClient()
			if err != nil {
				return err
			}
			patterns, err := client.ListPatterns(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list patterns: %w", err)
			}
			return writePatterns(cmd, patterns)
		},
	}
}

func writePatterns(cmd *cobra.Command, patterns []model.Pattern) error {
	p := printer(cmd)
	if len(patterns) == 0 {
		p.Info("No patterns found. Use 'phonecdp patterns generate' to create one.")
		return nil
	}

	p.Title("Patterns")
	w := tableWriter(cmd)
	if _, err := fmt.Fprintln(w, "ID\tSERIAL\tLABEL\tSEED\tVERIFICATIONS\tCREATED"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, pat := range patterns {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
			pat.ID, pat.SerialNumber, orDash(pat.Label), pat.Seed, pat.VerificationCount, pat.CreatedAt.Display()); err != nil {
			return fmt.Errorf("failed to write pattern row: %w", err)
		}
	}
	return w.Flush()
}

func patternsGenerateCmd() *cobra.Command {
	var (
		req  model.GenerateRequest
		seed string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if raw := strings.TrimSpace(seed); raw != "" {
				s, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return common.ErrInvalidSeed
				}
				req.Seed = &s
			}

			client, _, err := initClient()
			if err != nil {
				return err
			}
			if req.SerialNumber == "" {
				existing, listErr := client.ListPatterns(cmd.Context())
				if listErr != nil {
					common.LogDebug("pattern list failed", common.Fields{"error": listErr})
				}
				req.SerialNumber = viewmodel.DefaultSerial(timeNow(), len(existing))
			}

			pat, err := client.GeneratePattern(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to generate pattern: %w", err)
			}

			p := printer(cmd)
			p.Success(fmt.Sprintf("Pattern generated: #%d %s (seed %d)", pat.ID, pat.SerialNumber, pat.Seed))
			p.Println(p.Subtle(client.URL(api.PatternPreviewPath(pat.ID))))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.SerialNumber, "serial", "", "serial number (default SN-<year>-<next>)")
	cmd.Flags().StringVar(&req.Label, "label", "", "label / name")
	cmd.Flags().StringVar(&seed, "seed", "", "integer seed (default random)")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "notes")
	return cmd
}

func patternsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a pattern",
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
			if err := client.DeletePattern(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete pattern %d: %w", id, err)
			}
			printer(cmd).Success(fmt.Sprintf("Deleted pattern %d", id))
			return nil
		},
	}
}

func patternsDownloadCmd() *cobra.Command {
	var (
		sizeMM float64
		output string
		pdf    bool
	)

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download a pattern as PNG, or as a print-ready PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, settings, err := initClient()
			if err != nil {
				return err
			}

			pat, err := client.GetPattern(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get pattern %d: %w", id, err)
			}

			path, name := api.PatternDownloadPath(id), pat.SerialNumber+".png"
			if pdf {
				path = api.PatternPDFPath(id, sizeMM)
				name = fmt.Sprintf("%s_%smm.pdf", pat.SerialNumber, strconv.FormatFloat(sizeMM, 'f', -1, 64))
			}
			if output == "" {
				output = filepath.Join(settings.DownloadDir, name)
			}

			return saveDownload(cmd, client, path, output)
		},
	}

	cmd.Flags().BoolVar(&pdf, "pdf", false, "download a PDF instead of the PNG")
	cmd.Flags().Float64Var(&sizeMM, "size", api.PDFSizes[0], "PDF print size in millimeters")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <download-dir>/<serial>.<ext>)")
	return cmd
}

// saveDownload streams path into the file at output with a progress bar on
// stderr. A failed download leaves no partial file behind.
func saveDownload(cmd *cobra.Command, client *api.Client, path, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(output), err)
	}
	f, err := os.Create(filepath.Clean(output))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}

	n, err := client.Download(cmd.Context(), path, f, cli.DownloadProgress(cmd.ErrOrStderr(), "Downloading"))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("download failed: %w", err)
	}

	printer(cmd).Success(fmt.Sprintf("Saved %s (%s)", output, humanize.Bytes(uint64(max(n, 0)))))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
