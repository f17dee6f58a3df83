// Package cmd holds the appointly command line.
package cmd

import (
	"fmt"
	"os"

	"appointly/config"
	"appointly/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "appointly",
	Short: "Appointment scheduling service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig(configFile)
		utils.InitializeLogger()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "overrides LOG_LEVEL")
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(escalateCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(adminCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
