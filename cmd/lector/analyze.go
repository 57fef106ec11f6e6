package main

import (
	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/analyze"
	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/extract"
	"github.com/lectorapp/lector/internal/segment"
)

var analyzeSentences bool

// analyzeResult is the offline analysis output.
type analyzeResult struct {
	File      string `json:"file"`
	Sentences int    `json:"sentences"`
	Report    any    `json:"report"`
	Detail    any    `json:"detail,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a document's accessibility without a server",
	Long: `Analyze runs the extract -> segment -> analyze pipeline locally and
prints the accessibility report. Supports .txt, .md, and .pdf files.

Examples:
  lector analyze report.pdf
  lector analyze notes.md --sentences   # Include the segmented sentences`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := extract.Text(args[0])
		if err != nil {
			return err
		}

		sentences := segment.Segment(raw)
		report := analyze.Analyze(raw, sentences)

		result := analyzeResult{
			File:      args[0],
			Sentences: len(sentences),
			Report:    report,
		}
		if analyzeSentences {
			result.Detail = sentences
		}
		return api.Output(result)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeSentences, "sentences", false, "Include segmented sentences in the output")

	rootCmd.AddCommand(analyzeCmd)
}
