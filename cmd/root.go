// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tranvictor/safeops/analytics"
	"github.com/tranvictor/safeops/config"
	"github.com/tranvictor/safeops/monitoring"
	"github.com/tranvictor/safeops/networks"
	"github.com/tranvictor/safeops/safe"
	"github.com/tranvictor/safeops/ui"
	"github.com/tranvictor/safeops/util/cache"
	"github.com/tranvictor/safeops/util/reader"
)

const analyticsFlushTimeout = 2 * time.Second

var (
	appUI      ui.UI = ui.NewTerminalUI()
	appConfig        = &config.Config{}
	appCache         = cache.Default()
	appTracker       = analytics.NewTracker(analytics.Config{}, nil)

	// newReader builds the chain reader commands use, tests replace it.
	newReader = func(network networks.Network) (safe.ContractReader, error) {
		r, err := reader.NewEthReader(network)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "safeops",
	Short: "Inspect and operate Safe multisig wallets from the command line",
	Long: fmt.Sprintf(`safeops reads Safe multisig wallets, their owners and balances, and
prepares the transactions operators need: new Safe deployments, batched
multiSend calls and on-chain message signatures.

It knows where every Safe singleton (master copy, proxy factory, multiSend,
fallback handler...) is deployed on the supported chains. Run
"safeops network list" for the chains and the nodes used to reach them.
A node can be added per chain with its env variable, e.g. %s for mainnet.

Settings are read from ~/.safeops/config.yaml and %s_* env vars, flags win
over both.`,
		networks.EthereumMainnet.GetNodeVariableName(),
		config.EnvPrefix,
	),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), analyticsFlushTimeout)
		defer cancel()
		if err := appTracker.Close(ctx); err != nil {
			logrus.WithError(err).Debug("gave up delivering analytics events")
		}
		if appConfig.MetricsFile != "" {
			if err := prometheus.WriteToTextfile(appConfig.MetricsFile, prometheus.DefaultGatherer); err != nil {
				logrus.WithError(err).WithField("file", appConfig.MetricsFile).Warn("couldn't write metrics")
			}
		}
	},
}

// pagePath turns "safeops safe info" into "/safe/info".
func pagePath(cmd *cobra.Command) string {
	path := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name())
	return "/" + strings.Join(strings.Fields(path), "/")
}

func registerMetrics(reg prometheus.Registerer) error {
	err := monitoring.Register(reg)
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		return err
	}
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, flag := range map[string]string{
		"network":      "network",
		"log_level":    "log-level",
		"cache_path":   "cache",
		"metrics_file": "metrics-file",
	} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// setup loads the configuration and wires the process wide network, cache,
// log level and analytics tracker before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v, config.ConfigFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logrus.SetLevel(level)

	if err := registerMetrics(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("couldn't register metrics: %w", err)
	}

	if _, err := networks.GetNetwork(cfg.Network); err != nil {
		appUI.Warn("Unknown network %q, falling back to %s.", cfg.Network, networks.EthereumMainnet.GetName())
		if suggestions := networks.Suggest(cfg.Network); len(suggestions) > 0 {
			appUI.Info("Did you mean: %v?", suggestions)
		}
	}
	networks.SetNetwork(cfg.Network)

	if cfg.CachePath != appCache.Path() {
		appCache = cache.New(cfg.CachePath)
	}

	appTracker = analytics.NewTracker(analytics.Config{
		Enabled:       cfg.Analytics.Enabled,
		Environment:   cfg.Analytics.Environment,
		MeasurementID: cfg.Analytics.MeasurementID,
		APISecret:     cfg.Analytics.APISecret,
		Endpoint:      cfg.Analytics.Endpoint,
		RetryMax:      cfg.Analytics.RetryMax,
		ChainID:       networks.CurrentNetwork().GetChainID(),
	}, appCache)
	appTracker.TrackPage(pagePath(cmd))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config-file", "", "Config file path (default ~/.safeops/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "mainnet", "Network to work on, see \"safeops network list\" for valid values")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&config.CachePath, "cache", cache.DefaultPath(), "Path of the local cache file")
	rootCmd.PersistentFlags().StringVar(&config.MetricsFile, "metrics-file", "", "Write the process metrics in Prometheus text format to this file on exit")
}
