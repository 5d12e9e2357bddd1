/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/longkey1/healthbot/internal/healthbot/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "healthbot",
	Short: "A general health information assistant",
	Long: `healthbot answers general health questions through a hosted LLM.

Every message is checked against a list of emergency keywords first. When one
matches, the model is not called and a fixed warning is shown instead.

The assistant gives general information only. It does not diagnose or prescribe.

Use 'healthbot chat' in a terminal or 'healthbot serve' for the web chat.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/healthbot/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	config.Setup(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		readDefaultConfigFiles()
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  HEALTHBOT_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  HEALTHBOT_REQUEST_TIMEOUT:", viper.GetDuration("request_timeout"))
		fmt.Fprintln(os.Stderr, "  HEALTHBOT_MAX_RETRIES:", viper.GetInt("max_retries"))
	}
}

// readDefaultConfigFiles loads the system-wide config, then merges the user
// config on top of it.
func readDefaultConfigFiles() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "healthbot")

	for _, path := range []string{"/etc/healthbot", "/usr/local/etc/healthbot"} {
		viper.AddConfigPath(path)
	}
	viper.SetConfigType("toml")
	viper.SetConfigName("config")

	systemConfigLoaded := false
	if err := viper.ReadInConfig(); err == nil {
		systemConfigLoaded = true
		if verbose {
			fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
		}
	}

	if systemConfigLoaded {
		// Merge the user file explicitly; a path search would find the system file again.
		userConfig := filepath.Join(userConfigDir, "config.toml")
		if _, err := os.Stat(userConfig); err != nil {
			return
		}
		viper.SetConfigFile(userConfig)
		if err := viper.MergeInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
		} else if verbose {
			fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
		}
		return
	}

	viper.AddConfigPath(userConfigDir)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}
