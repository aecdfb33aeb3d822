// Package format renders a parsed endpoint configuration as env, JSON, YAML,
// TOML or a user template.
package format

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/nulzo/formatapi/internal/registry"
	"github.com/pelletier/go-toml/v2"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Format names an output syntax.
type Format string

const (
	Env    Format = "env"
	JSON   Format = "json"
	YAML   Format = "yaml"
	TOML   Format = "toml"
	Custom Format = "custom"
)

// DefaultHost is written to full outputs as the listen address of the
// generated service config.
const DefaultHost = "0.0.0.0"

// ErrUnknownFormat is returned for format names outside the supported set.
var ErrUnknownFormat = eris.New("format: unknown output format")

// Formats lists the built-in structured formats.
var Formats = []Format{Env, JSON, YAML, TOML}

// ParseFormat resolves a user supplied name. It is case-insensitive and
// accepts "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "env", ".env", "":
		return Env, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	case "custom":
		return Custom, nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", name)
	}
}

// Extension returns the file extension, dot included, for saving output.
func Extension(f Format) string {
	switch f {
	case Env:
		return ".env"
	case JSON:
		return ".json"
	case YAML:
		return ".yaml"
	case TOML:
		return ".toml"
	default:
		return ".txt"
	}
}

// Input is the data rendered by a Formatter.
type Input struct {
	Vendor       string   `json:"vendor"`
	BaseURL      string   `json:"base_url"`
	APIKey       string   `json:"api_key"`
	Models       []string `json:"models"`
	Capabilities []string `json:"capabilities"`
}

// document fixes key order for the structured encoders.
type document struct {
	APIKey       string   `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	BaseURL      string   `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Host         string   `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty" toml:"capabilities,omitempty"`
	Models       []string `json:"models,omitempty" yaml:"models,omitempty" toml:"models,omitempty"`
}

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format renders the full configuration: credentials, host, capabilities
// (vendor defaults when none are given) and models.
func (f *Formatter) Format(in Input, format Format) (string, error) {
	vendor := vendorOf(in)
	caps := in.Capabilities
	if len(caps) == 0 {
		caps = registry.CapabilitiesFor(vendor)
	}

	doc := document{
		APIKey:       in.APIKey,
		BaseURL:      in.BaseURL,
		Host:         DefaultHost,
		Capabilities: caps,
		Models:       in.Models,
	}

	if format == Env {
		return envLines(registry.EnvPrefixFor(vendor)+"_", doc)
	}
	return encode(doc, format)
}

// Minimal renders only the API key, base URL and models. Env keys carry no
// vendor prefix.
func (f *Formatter) Minimal(in Input, format Format) (string, error) {
	doc := document{
		APIKey:  in.APIKey,
		BaseURL: in.BaseURL,
		Models:  in.Models,
	}

	if format == Env {
		return envLines("", doc)
	}
	return encode(doc, format)
}

func vendorOf(in Input) string {
	if in.Vendor != "" {
		return in.Vendor
	}
	return registry.Detect(in.BaseURL)
}

func envLines(prefix string, doc document) (string, error) {
	var lines []string
	if doc.APIKey != "" {
		lines = append(lines, prefix+"API_KEY="+doc.APIKey)
	}
	if doc.BaseURL != "" {
		lines = append(lines, prefix+"BASE_URL="+doc.BaseURL)
	}
	if doc.Host != "" {
		lines = append(lines, "HOST="+doc.Host)
	}
	if len(doc.Capabilities) > 0 {
		b, err := marshalCompact(doc.Capabilities)
		if err != nil {
			return "", err
		}
		lines = append(lines, "CAPABILITIES="+b)
	}
	if len(doc.Models) > 0 {
		b, err := marshalCompact(doc.Models)
		if err != nil {
			return "", err
		}
		lines = append(lines, "MODELS="+b)
	}
	return strings.Join(lines, "\n"), nil
}

func encode(doc document, format Format) (string, error) {
	switch format {
	case JSON:
		return marshalIndent(doc)
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return "", eris.Wrap(err, "format: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return "", eris.Wrap(err, "format: close yaml encoder")
		}
		return buf.String(), nil
	case TOML:
		b, err := toml.Marshal(doc)
		if err != nil {
			return "", eris.Wrap(err, "format: encode toml")
		}
		return string(b), nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", string(format))
	}
}

// marshalIndent encodes v as two-space indented JSON without HTML escaping.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", eris.Wrap(err, "format: encode json")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", eris.Wrap(err, "format: encode json")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
