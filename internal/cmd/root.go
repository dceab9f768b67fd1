package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"code-review-service/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "reviewd",
	Short: "AI merge-request review service",
	Long: `Reviewd accepts merge/pull requests for automated review, runs a
configurable set of AI analysis stages against the change, and serves the
aggregated findings over a polling HTTP API.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default reviewd.yaml in the working directory)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Defaults first so the service runs without any config file.
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reviewd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/reviewd")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("REVIEWD")
	// REVIEWD_PROVIDER_API_KEY maps to provider.api_key
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine; env vars and defaults still apply.
	_ = viper.ReadInConfig()
}
