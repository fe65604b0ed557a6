package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "kurve",
	Short: "Titration curve viewer",
	Long:  "Kurve reads titration measurements from a spreadsheet, computes the pH curve, and keeps the view in sync while the file changes on disk.",
	RunE:  runRootDefault,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .kurve.toml)")
	rootCmd.PersistentFlags().Bool("dark", false, "dark theme")
	rootCmd.PersistentFlags().Bool("colored", false, "tint the diagram by pH")

	_ = viper.BindPFlag("dark", rootCmd.PersistentFlags().Lookup("dark"))
	_ = viper.BindPFlag("colored", rootCmd.PersistentFlags().Lookup("colored"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".kurve")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("KURVE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault launches the interactive viewer.
func runRootDefault(cmd *cobra.Command, args []string) error {
	return runTUI(cmd, args)
}
