package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/core/services"
	"github.com/nulzo/formatapi/internal/format"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Manage custom output templates",
	Long: "Templates are plain text with {{api_key}}, {{base_url}}, {{models}}, {{models_comma}} and " +
		"{{vendor}} placeholders, or a JSON document whose fields are filled by key name.",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(func(repo store.Repository) error {
			ts, err := services.NewTemplateService(repo, log).List(cmd.Context())
			if err != nil {
				return err
			}
			renderTemplates(cmd.OutOrStdout(), ts)
			return nil
		})
	},
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <name> [file|-]",
	Short: "Save a template from a file or stdin",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(args[1:], cmd.InOrStdin())
		if err != nil {
			return err
		}
		desc, _ := cmd.Flags().GetString("description")

		return withStore(func(repo store.Repository) error {
			t, err := services.NewTemplateService(repo, log).Save(cmd.Context(), args[0], body, desc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved template %s\n", cli.CheckMark(), t.ID)
			return nil
		})
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(repo store.Repository) error {
			err := services.NewTemplateService(repo, log).Delete(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return eris.Errorf("template %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted template %s\n", cli.CheckMark(), args[0])
			return nil
		})
	},
}

var templatesApplyCmd = &cobra.Command{
	Use:   "apply <id> [file|-]",
	Short: "Parse text and render it through a template",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[1:], cmd.InOrStdin())
		if err != nil {
			return err
		}
		models, _ := cmd.Flags().GetStringSlice("models")

		result, err := parseAndSelect(cmd.Context(), text, -1, -1)
		if err != nil {
			return err
		}
		content, err := applyTemplate(cmd.Context(), args[0], format.Input{
			Vendor:  result.Vendor,
			BaseURL: result.URL(),
			APIKey:  result.Key(),
			Models:  cleanModels(models),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

func init() {
	templatesSaveCmd.Flags().StringP("description", "d", "", "template description")
	templatesApplyCmd.Flags().StringSlice("models", nil, "comma separated model names to include")

	templatesCmd.AddCommand(templatesListCmd, templatesSaveCmd, templatesDeleteCmd, templatesApplyCmd)
	rootCmd.AddCommand(templatesCmd)
}

func renderTemplates(w io.Writer, ts []schema.Template) {
	if len(ts) == 0 {
		fmt.Fprintln(w, "No templates saved.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "NAME", "DESCRIPTION", "UPDATED"})
	for _, tmpl := range ts {
		t.AppendRow(table.Row{tmpl.ID, tmpl.Name, tmpl.Description, tmpl.UpdatedAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
}
