package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cssfit",
	Short: "Fit HTML content into a viewport by rescaling inline styles",
	Long: `Scale the content of a container to fit a wrapper of a different size.
Inline px values (width, height, font-size, padding, margin, border, outline,
-webkit-text-stroke) and transform translations are recomputed from the
authored size, or the container receives a transform: scale().`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".cssfit.yaml", "Config file path")

	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
