package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/khanhnv2901/cscan-cli/internal/scanner"
	consts "github.com/khanhnv2901/cscan-cli/internal/shared/constants"
)

var cfgFile string
var logger *zap.SugaredLogger
var resultsDir string

var rootCmd = &cobra.Command{
	Use:   "cscan",
	Short: "Scan a website for cookies set only after consent-banner acceptance",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".cscan-cli")
			viper.SetConfigType("yaml")
		}

		_ = viper.ReadInConfig()
		resultsDir = viper.GetString("results_dir")
		if resultsDir == "" {
			resultsDir = "./results"
		}

		if err := os.MkdirAll(resultsDir, consts.DefaultDirPerm); err != nil {
			return fmt.Errorf("failed to create results directory: %s", err.Error())
		}

		// init logger
		l, _ := zap.NewProduction()
		logger = l.Sugar()

		if abs, err := filepath.Abs(resultsDir); err == nil {
			resultsDir = abs
		}

		return nil
	},
}

// scanPolicy builds the timing policy from defaults overridden by config keys.
func scanPolicy() scanner.Policy {
	policy := scanner.DefaultPolicy()
	if secs := viper.GetInt("scan.navigation_timeout_secs"); secs > 0 {
		policy.NavigationTimeout = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt("scan.quiesce_timeout_secs"); secs > 0 {
		policy.QuiesceTimeout = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt("scan.pre_consent_settle_secs"); secs > 0 {
		policy.PreConsentSettle = time.Duration(secs) * time.Second
	}
	if secs := viper.GetInt("scan.post_consent_settle_secs"); secs > 0 {
		policy.PostConsentSettle = time.Duration(secs) * time.Second
	}
	return policy
}

func headlessEnabled() bool {
	if viper.IsSet("scan.headless") {
		return viper.GetBool("scan.headless")
	}
	return true
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cscan-cli.yaml)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}
