package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/cli"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/config"
)

// initClient loads the settings and builds the service client from them.
func initClient() (*api.Client, config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, config.Settings{}, err
	}

	var opts []api.Option
	if settings.Timeout > 0 {
		opts = append(opts, api.WithTimeout(settings.Timeout))
	}
	return api.NewClient(settings.ServerURL, opts...), settings, nil
}

// printer returns the styled writer for cmd's output.
func printer(cmd *cobra.Command) *cli.Printer {
	return cli.NewPrinter(cmd.OutOrStdout())
}

// parseID parses a positional result or pattern id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a valid id", arg), common.ErrInvalidResult)
	}
	return id, nil
}

// retryOptions are used for idempotent reads from scripts.
var retryOptions = common.RetryOptions{MaxAttempts: 3}

// timeNow is the clock used for default serials and export names.
var timeNow = time.Now
