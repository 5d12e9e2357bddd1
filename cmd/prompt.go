/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/healthbot/internal/healthbot/config"
	"github.com/longkey1/healthbot/internal/healthbot/prompt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var withSource bool

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Show the system instruction sent to the model",
	Long: `Show the system instruction sent with every model request.

The built-in instruction is used unless system_prompt_file points to a TOML
file of the form:
system = "You are a helpful general health information assistant..."

Use --with-source to also print where the instruction was loaded from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		systemPrompt, err := prompt.Resolve(cfg.SystemPromptFile)
		if err != nil {
			return fmt.Errorf("loading system prompt: %w", err)
		}

		if withSource {
			source := "built-in"
			if cfg.SystemPromptFile != "" {
				source = cfg.SystemPromptFile
			}
			fmt.Fprintf(os.Stderr, "Source: %s\n\n", source)
		}
		fmt.Println(systemPrompt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().BoolVar(&withSource, "with-source", false, "Show where the instruction was loaded from")
}
