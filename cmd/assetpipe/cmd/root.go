package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/assetpipe/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "assetpipe",
	Short: "Build-time image asset pipeline",
	Long:  "Optimize image assets, fingerprint them by content and emit them under hashed file names.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbosity, _ := cmd.Flags().GetCount("verbose-log")
		logging.SetupLogger(verbosity, os.Stderr)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/assetpipe/config.yaml)")
	rootCmd.PersistentFlags().CountP("verbose-log", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(configDir())
		viper.SetConfigName("assetpipe")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ASSETPIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "assetpipe")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "assetpipe")
	}
	return ".assetpipe"
}
