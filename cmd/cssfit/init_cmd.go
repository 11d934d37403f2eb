package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssfit.yaml config file",
	Long:  `Create a .cssfit.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".cssfit.yaml"); err == nil && !force {
			return fmt.Errorf(".cssfit.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".cssfit.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .cssfit.yaml")
		return nil
	},
}

const defaultConfig = `# cssfit configuration
# Docs: https://github.com/yacobolo/cssfit

# Shared settings
verbose: false
color: false

# Document rescaling (cssfit scale)
rescale:
  patterns:
    - "**/*.html"
  container: ""            # element id; empty = first element of body
  viewport: "1920x1080"    # WIDTHxHEIGHT of the wrapper
  width: 0                 # 0 = container width
  height: 0                # 0 = container height
  scale: 0                 # 0 = derived from the viewport
  method: calculate        # calculate | transform | none
  axis: both               # both | width | height
  output-dir: ""           # empty = rewrite in place
  ignore-file: .gitignore
  format: text             # text | json
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
