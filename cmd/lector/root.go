package main

import (
	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "lector",
	Short: "Document read-aloud server with accessibility analysis",
	Long: `Lector reads documents aloud sentence by sentence and reports how
accessible their text is to a listener.

Loading a document runs it through:
  - Sentence segmentation with structural context (headings, paragraphs)
  - Accessibility scoring (sentence complexity, structure, density)
  - Voice selection and speech playback with live highlighting`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lector/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "lector home directory (default: ~/.lector)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
