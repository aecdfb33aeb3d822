package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/registry"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/spf13/cobra"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors [url]",
	Short: "List known vendors, or identify the vendor of a URL",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			fmt.Fprintf(out, "%s %s\n", cli.Arrow(), registry.Detect(args[0]))
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return cli.PrettyPrint(out, vendorProfiles())
		}
		renderVendors(out, registry.Profiles())
		return nil
	},
}

func init() {
	vendorsCmd.Flags().Bool("json", false, "print the registry as JSON")
	rootCmd.AddCommand(vendorsCmd)
}

func vendorProfiles() []schema.VendorProfile {
	ps := registry.Profiles()
	out := make([]schema.VendorProfile, len(ps))
	for i, p := range ps {
		out[i] = p.Schema()
	}
	return out
}

func renderVendors(w io.Writer, ps []registry.Profile) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"VENDOR", "ENV PREFIX", "KEYWORDS", "CAPABILITIES"})
	for _, p := range ps {
		t.AppendRow(table.Row{
			p.Identity,
			p.EnvPrefix,
			strings.Join(p.Keywords, ", "),
			strings.Join(p.Capabilities, ", "),
		})
	}
	t.Render()
}
