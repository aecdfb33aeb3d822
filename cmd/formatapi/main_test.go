package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	secret = "sk-" + strings.Repeat("A", 24)
	input  = "endpoint: https://api.openai.com/v1\nkey: " + secret + "\n"
)

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("log:\n  level: error\nstore:\n  dsn: \"file:%s\"\nhistory:\n  limit: 10\n",
		filepath.Join(dir, "cli.db"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// resetFlags restores every flag to its default so commands can be executed
// repeatedly within one test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, configFile, stdin string, args ...string) (string, error) {
	t.Helper()
	defer resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configFile, "--no-color"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParse_Table(t *testing.T) {
	out, err := execute(t, testConfig(t), input, "parse")
	require.NoError(t, err)

	assert.Contains(t, out, "https://api.openai.com/v1")
	assert.Contains(t, out, "Vendor:   openai")
	assert.Contains(t, out, "sk-A***AAAA")
	assert.NotContains(t, out, secret)
}

func TestParse_RevealAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paste.txt")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o600))

	out, err := execute(t, testConfig(t), "", "parse", path, "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, secret)
}

func TestParse_JSON(t *testing.T) {
	out, err := execute(t, testConfig(t), input, "parse", "--json")
	require.NoError(t, err)

	var r schema.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "openai", r.Vendor)
	assert.Equal(t, "https://api.openai.com/v1", r.URL())
	assert.Equal(t, secret, r.Key())
}

func TestParse_IndexSelection(t *testing.T) {
	text := "https://api.openai.com/v1 https://api.deepseek.com/v1"
	cfgFile := testConfig(t)

	out, err := execute(t, cfgFile, text, "parse", "--json", "--url-index", "1")
	require.NoError(t, err)
	var r schema.ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "https://api.deepseek.com/v1", r.URL())
	assert.Equal(t, "deepseek", r.Vendor)

	_, err = execute(t, cfgFile, text, "parse", "--url-index", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestParse_NoCandidates(t *testing.T) {
	out, err := execute(t, testConfig(t), "nothing to see here", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "No URL candidates found")
	assert.Contains(t, out, "No KEY candidates found")
}

func TestFormat_Env(t *testing.T) {
	out, err := execute(t, testConfig(t), input, "format", "--models", "gpt-4o, gpt-4o-mini")
	require.NoError(t, err)

	assert.Equal(t, "OPENAI_API_KEY="+secret+"\n"+
		"OPENAI_BASE_URL=https://api.openai.com/v1\n"+
		"HOST=0.0.0.0\n"+
		`CAPABILITIES=["vision","function_calling","stream"]`+"\n"+
		`MODELS=["gpt-4o","gpt-4o-mini"]`+"\n", out)
}

func TestFormat_MinimalJSON(t *testing.T) {
	out, err := execute(t, testConfig(t), input, "format", "-f", "json", "--minimal")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, secret, doc["api_key"])
	assert.Equal(t, "https://api.openai.com/v1", doc["base_url"])
	assert.NotContains(t, doc, "host")
}

func TestFormat_WritesFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "openai")
	_, err := execute(t, testConfig(t), input, "format", "-f", "yaml", "-o", target)
	require.NoError(t, err)

	b, err := os.ReadFile(target + ".yaml")
	require.NoError(t, err)
	assert.Contains(t, string(b), "base_url: https://api.openai.com/v1")
}

func TestFormat_Errors(t *testing.T) {
	cfgFile := testConfig(t)

	_, err := execute(t, cfgFile, "no endpoints", "format")
	require.Error(t, err)

	_, err = execute(t, cfgFile, input, "format", "-f", "xml")
	require.Error(t, err)

	_, err = execute(t, cfgFile, input, "format", "-f", "custom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--template")
}

func TestHistoryCommands(t *testing.T) {
	cfgFile := testConfig(t)

	_, err := execute(t, cfgFile, input, "format", "--save-history", "--models", "gpt-4o")
	require.NoError(t, err)

	out, err := execute(t, cfgFile, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "sk-A***AAAA")

	out, err = execute(t, cfgFile, "", "history", "search", "OPENAI")
	require.NoError(t, err)
	assert.Contains(t, out, "https://api.openai.com/v1")

	out, err = execute(t, cfgFile, "", "history", "search", "mistral")
	require.NoError(t, err)
	assert.Contains(t, out, "No history records found.")

	_, err = execute(t, cfgFile, "", "history", "delete", "missing-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, cfgFile, "", "history", "clear")
	require.Error(t, err)

	_, err = execute(t, cfgFile, "", "history", "clear", "--yes")
	require.NoError(t, err)

	out, err = execute(t, cfgFile, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history records found.")
}

func TestTemplateCommands(t *testing.T) {
	cfgFile := testConfig(t)

	out, err := execute(t, cfgFile, "KEY={{api_key}}\nURL={{base_url}}", "templates", "save", "My Tmpl", "-d", "shell exports")
	require.NoError(t, err)
	assert.Contains(t, out, "my_tmpl")

	out, err = execute(t, cfgFile, "", "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "My Tmpl")
	assert.Contains(t, out, "shell exports")

	out, err = execute(t, cfgFile, input, "templates", "apply", "my_tmpl")
	require.NoError(t, err)
	assert.Equal(t, "KEY="+secret+"\nURL=https://api.openai.com/v1\n", out)

	out, err = execute(t, cfgFile, input, "format", "--template", "my_tmpl")
	require.NoError(t, err)
	assert.Equal(t, "KEY="+secret+"\nURL=https://api.openai.com/v1\n", out)

	_, err = execute(t, cfgFile, input, "format", "--template", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, cfgFile, "", "templates", "delete", "my_tmpl")
	require.NoError(t, err)

	_, err = execute(t, cfgFile, "", "templates", "delete", "my_tmpl")
	require.Error(t, err)
}

func TestVendorsCommand(t *testing.T) {
	cfgFile := testConfig(t)

	out, err := execute(t, cfgFile, "", "vendors")
	require.NoError(t, err)
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "anthropic")
	assert.Contains(t, out, "OPENAI")

	out, err = execute(t, cfgFile, "", "vendors", "https://api.anthropic.com/v1")
	require.NoError(t, err)
	assert.Contains(t, out, "anthropic")

	out, err = execute(t, cfgFile, "", "vendors", "--json")
	require.NoError(t, err)
	var ps []schema.VendorProfile
	require.NoError(t, json.Unmarshal([]byte(out), &ps))
	assert.Equal(t, "openai", ps[0].Identity)
}

func TestOCRCommand_FakeTesseract(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "tesseract")
	script := "#!/bin/sh\nprintf 'GPT-4o\\nclaude-3-5-sonnet\\n'\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	cfgFile := testConfig(t)
	f, err := os.OpenFile(cfgFile, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = fmt.Fprintf(f, "ocr:\n  mode: system\n  tesseract_path: %q\n", bin)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	img := filepath.Join(dir, "shot.png")
	require.NoError(t, os.WriteFile(img, []byte("not really a png"), 0o600))

	out, err := execute(t, cfgFile, "", "ocr", img, "--comma")
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet,gpt-4o\n", out)
}

func TestCheckForUpdates(t *testing.T) {
	tag := "v1.2.0"
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"tag_name":%q}`, tag)
	}))
	defer srv.Close()

	orig := releasesURL
	releasesURL = srv.URL
	defer func() { releasesURL = orig }()

	latest, newer, err := CheckForUpdates(t.Context(), srv.Client(), "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", latest)
	assert.True(t, newer)

	_, newer, err = CheckForUpdates(t.Context(), srv.Client(), "v1.2.0")
	require.NoError(t, err)
	assert.False(t, newer)

	status = http.StatusNotFound
	_, _, err = CheckForUpdates(t.Context(), srv.Client(), "v1.0.0")
	require.Error(t, err)
}

func TestPrintUpdateNotice(t *testing.T) {
	var buf bytes.Buffer
	printUpdateNotice(&buf, "v9.0.0", true)
	assert.Contains(t, buf.String(), "v9.0.0")
	assert.Contains(t, buf.String(), "outdated")

	buf.Reset()
	printUpdateNotice(&buf, "v0.0.0", false)
	assert.Contains(t, buf.String(), "Up to date")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testConfig(t), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "formatapi "+AppVersion+"\n", out)
}

func TestReadInput(t *testing.T) {
	s, err := readInput(nil, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", s)

	s, err = readInput([]string{"-"}, strings.NewReader("dash"))
	require.NoError(t, err)
	assert.Equal(t, "dash", s)

	_, err = readInput([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	require.Error(t, err)
}
