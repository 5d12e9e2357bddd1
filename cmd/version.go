package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/longkey1/healthbot/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show the version, commit, build time and Go toolchain of this binary.

The same version is reported by the web server at /api/v1/health.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), version.Get(), versionShort, versionJSON)
	},
}

// printVersion writes info as a single version number, JSON or text.
func printVersion(w io.Writer, info version.BuildInfo, short, asJSON bool) error {
	switch {
	case short && asJSON:
		return fmt.Errorf("--short and --json cannot be combined")
	case short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		_, err := fmt.Fprintln(w, info)
		return err
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Show only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
}
