package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/extract"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Find base URLs and API keys in text",
	Long:  "Reads text from a file or stdin and lists every URL and credential candidate with its score. The best of each is selected.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		urlIdx, _ := cmd.Flags().GetInt("url-index")
		keyIdx, _ := cmd.Flags().GetInt("key-index")
		asJSON, _ := cmd.Flags().GetBool("json")
		reveal, _ := cmd.Flags().GetBool("reveal")

		result, err := parseAndSelect(cmd.Context(), text, urlIdx, keyIdx)
		if err != nil {
			return err
		}
		log.Debug("Parsed input",
			zap.Int("bytes", len(text)),
			zap.Int("urls", len(result.URLCandidates)),
			zap.Int("keys", len(result.KeyCandidates)),
			zap.String("vendor", result.Vendor),
		)

		out := cmd.OutOrStdout()
		if asJSON {
			return cli.PrettyPrint(out, result)
		}
		renderParseResult(out, result, reveal)
		return nil
	},
}

func init() {
	parseCmd.Flags().Bool("json", false, "print the result as JSON")
	parseCmd.Flags().Int("url-index", -1, "select the URL candidate at this index instead of the best one")
	parseCmd.Flags().Int("key-index", -1, "select the key candidate at this index instead of the best one")
	parseCmd.Flags().Bool("reveal", false, "show API keys unmasked")
	rootCmd.AddCommand(parseCmd)
}

// parseAndSelect parses text and applies candidate index overrides. A
// negative index keeps the automatic choice.
func parseAndSelect(ctx context.Context, text string, urlIdx, keyIdx int) (schema.ParseResult, error) {
	parser := services.NewParserService()
	result := parser.ParseContext(ctx, text)

	var baseURL, apiKey string
	if urlIdx >= 0 {
		if urlIdx >= len(result.URLCandidates) {
			return result, eris.Errorf("url index %d out of range (%d candidates)", urlIdx, len(result.URLCandidates))
		}
		baseURL = result.URLCandidates[urlIdx].Value
	}
	if keyIdx >= 0 {
		if keyIdx >= len(result.KeyCandidates) {
			return result, eris.Errorf("key index %d out of range (%d candidates)", keyIdx, len(result.KeyCandidates))
		}
		apiKey = result.KeyCandidates[keyIdx].Value
	}
	return parser.Select(result, baseURL, apiKey), nil
}

func renderParseResult(w io.Writer, r schema.ParseResult, reveal bool) {
	display := extract.MaskSecret
	if reveal {
		display = func(s string) string { return s }
	}

	renderCandidates(w, "URL", r.URLCandidates, r.URL(), func(s string) string { return s })
	renderCandidates(w, "KEY", r.KeyCandidates, r.Key(), display)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Vendor:   %s\n", cli.Arrow(), r.Vendor)
	fmt.Fprintf(w, "%s Base URL: %s\n", cli.Arrow(), orNone(r.URL()))
	key := r.Key()
	if key != "" {
		key = display(key)
	}
	fmt.Fprintf(w, "%s API key:  %s\n", cli.Arrow(), orNone(key))
}

func renderCandidates(w io.Writer, kind string, cs []schema.Candidate, selected string, display func(string) string) {
	if len(cs) == 0 {
		fmt.Fprintf(w, "%s No %s candidates found\n", cli.CrossMark(), kind)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", kind, "SCORE", ""})
	for i, c := range cs {
		mark := ""
		if c.Value == selected {
			mark = cli.CheckMark()
		}
		t.AppendRow(table.Row{i, display(c.Value), cli.Score(c.Score), mark})
	}
	t.Render()
}

func orNone(s string) string {
	if s == "" {
		return cli.Dim("(none)")
	}
	return s
}
