package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/tui"
)

// runTUI opens the interactive client. Logging moves to the log file so it
// never draws over the alternate screen.
func runTUI(cmd *cobra.Command, _ []string) error {
	client, settings, err := initClient()
	if err != nil {
		return err
	}

	logFile, err := common.OpenLogFile(settings.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	if err := setupLogging(logFile); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	route, _ := cmd.Flags().GetString("route")
	return tui.Run(cmd.Context(),
		tui.WithClient(client),
		tui.WithRoute(route),
		tui.WithDownloadDir(settings.DownloadDir),
		tui.WithRecording(settings.Record),
	)
}
