package main

import (
	"fmt"
	"strings"

	"github.com/nulzo/formatapi/internal/cli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <image>",
	Short: "Read model names from a screenshot",
	Long:  "Runs the configured OCR backend (local tesseract or a vision API) on an image and prints the model names it finds, one per line.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
			cfg.OCR.Mode = mode
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		comma, _ := cmd.Flags().GetBool("comma")

		c, closeCache := newCache(cfg.Redis)
		defer closeCache()

		ex, err := newExtractor(c)
		if err != nil {
			return err
		}

		log.Debug("Running OCR", zap.String("mode", cfg.OCR.Mode), zap.String("image", args[0]))
		models, err := ex.ExtractModels(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case asJSON:
			if models == nil {
				models = []string{}
			}
			fmt.Fprintln(out, cli.PrettyFormat(models))
		case comma:
			fmt.Fprintln(out, strings.Join(models, ","))
		default:
			for _, m := range models {
				fmt.Fprintln(out, m)
			}
		}
		return nil
	},
}

func init() {
	ocrCmd.Flags().String("mode", "", "OCR backend: system or ai (default from config)")
	ocrCmd.Flags().Bool("json", false, "print models as a JSON array")
	ocrCmd.Flags().Bool("comma", false, "print models comma separated, ready for --models")
	rootCmd.AddCommand(ocrCmd)
}
