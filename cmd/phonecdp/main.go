package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "phonecdp",
		Short: "Copy Detection Pattern generation and verification client",
		Long: `phonecdp talks to a Copy Detection Pattern verification service.

Run without a subcommand to open the interactive client: generate patterns,
verify photos of printed patterns and browse past results. The subcommands
do the same from scripts.`,
		PersistentPreRunE: initConfig,
		RunE:              runTUI,
		SilenceUsage:      true,
	}
)

func init() {
	config.Defaults(viper.GetViper())

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/phonecdp/config.yaml)")
	flags.String("server", "http://localhost:8000", "verification service base URL")
	flags.Duration("timeout", 0, "request timeout (default 60s)")
	flags.String("download-dir", ".", "directory downloads and exports are saved to")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.Bool("record", false, "record every interactive frame to a temp directory")
	rootCmd.Flags().String("route", "/", "initial location, e.g. /verify or /results/12")

	// Bind flags to viper
	_ = viper.BindPFlag("server.url", flags.Lookup("server"))
	_ = viper.BindPFlag("server.timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("downloads.dir", flags.Lookup("download-dir"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("tui.record", flags.Lookup("record"))

	// Add commands
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(patternsCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(resultsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/phonecdp", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("PHONECDP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(os.Stderr); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging(w io.Writer) error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(w, level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "phonecdp %s\n", version)
		},
	}
}
