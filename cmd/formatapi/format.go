package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var formatCmd = &cobra.Command{
	Use:   "format [file|-]",
	Short: "Render the extracted endpoint as configuration",
	Long: "Parses text from a file or stdin and prints the selected base URL, key, models and " +
		"vendor capabilities as env, JSON, YAML or TOML, or through a saved template.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("format")
		minimal, _ := cmd.Flags().GetBool("minimal")
		models, _ := cmd.Flags().GetStringSlice("models")
		templateID, _ := cmd.Flags().GetString("template")
		save, _ := cmd.Flags().GetBool("save-history")
		outFile, _ := cmd.Flags().GetString("output")
		urlIdx, _ := cmd.Flags().GetInt("url-index")
		keyIdx, _ := cmd.Flags().GetInt("key-index")

		if !cmd.Flags().Changed("format") {
			name = cfg.Output.Format
		}
		if !cmd.Flags().Changed("minimal") {
			minimal = cfg.Output.Minimal
		}

		result, err := parseAndSelect(cmd.Context(), text, urlIdx, keyIdx)
		if err != nil {
			return err
		}
		if !result.HasURL() && !result.HasKey() {
			return eris.New("no base URL or API key found in input")
		}

		in := format.Input{
			Vendor:  result.Vendor,
			BaseURL: result.URL(),
			APIKey:  result.Key(),
			Models:  cleanModels(models),
		}

		var (
			content string
			ext     string
		)
		if templateID != "" {
			content, err = applyTemplate(cmd.Context(), templateID, in)
			ext = format.Extension(format.Custom)
		} else {
			content, ext, err = render(in, name, minimal)
		}
		if err != nil {
			return err
		}

		if save {
			if err := saveHistory(cmd.Context(), in); err != nil {
				return err
			}
		}

		if outFile != "" {
			if !strings.Contains(outFile, ".") {
				outFile += ext
			}
			if err := os.WriteFile(outFile, []byte(content), 0o600); err != nil {
				return eris.Wrapf(err, "write %s", outFile)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Saved to %s\n", cli.CheckMark(), outFile)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), content)
		if !strings.HasSuffix(content, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	formatCmd.Flags().StringP("format", "f", string(format.Env), "output format: env, json, yaml or toml")
	formatCmd.Flags().Bool("minimal", false, "only emit key, base URL and models")
	formatCmd.Flags().StringSlice("models", nil, "comma separated model names to include")
	formatCmd.Flags().StringP("template", "t", "", "render through the saved template with this id")
	formatCmd.Flags().Bool("save-history", false, "record the configuration in history")
	formatCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	formatCmd.Flags().Int("url-index", -1, "select the URL candidate at this index")
	formatCmd.Flags().Int("key-index", -1, "select the key candidate at this index")
	rootCmd.AddCommand(formatCmd)
}

func render(in format.Input, name string, minimal bool) (content, ext string, err error) {
	f, err := format.ParseFormat(name)
	if err != nil {
		return "", "", err
	}
	if f == format.Custom {
		return "", "", eris.New("custom format requires --template")
	}

	formatter := format.NewFormatter()
	if minimal {
		content, err = formatter.Minimal(in, f)
	} else {
		content, err = formatter.Format(in, f)
	}
	return content, format.Extension(f), err
}

func applyTemplate(ctx context.Context, id string, in format.Input) (string, error) {
	var content string
	err := withStore(func(repo store.Repository) error {
		var err error
		content, err = services.NewTemplateService(repo, log).Apply(ctx, id, in)
		if errors.Is(err, store.ErrNotFound) {
			return eris.Errorf("template %q not found", id)
		}
		return err
	})
	return content, err
}

func saveHistory(ctx context.Context, in format.Input) error {
	return withStore(func(repo store.Repository) error {
		rec, err := historyService(repo).Add(ctx, schema.HistoryRecord{
			Vendor:  in.Vendor,
			BaseURL: in.BaseURL,
			APIKey:  in.APIKey,
			Models:  in.Models,
		})
		if err != nil {
			return err
		}
		log.Debug("Saved history record", zap.String("id", rec.ID))
		return nil
	})
}

func cleanModels(models []string) []string {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
