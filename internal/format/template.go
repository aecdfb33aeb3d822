package format

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidTemplate is returned when a JSON-shaped template cannot be read.
var ErrInvalidTemplate = eris.New("format: invalid template")

var (
	keyFieldHints   = []string{"api_key", "apikey", "key", "token", "auth"}
	urlFieldHints   = []string{"url", "endpoint", "base"}
	modelFieldHints = []string{"model"}
)

// Render fills a user template with in.
//
// Text templates accept {{api_key}}, {{base_url}}, {{models}} (JSON array),
// {{models_comma}}, {{vendor}} and the short forms {api_key}, {base_url} and
// {model} (first model). A template whose body is a JSON object or array is
// instead filled by field name: credential-like keys get the API key,
// URL-like keys the base URL and model keys the model list. Field order is
// kept.
func Render(body string, in Input) (string, error) {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		v, err := decodeOrdered(trimmed)
		if err != nil {
			return "", eris.Wrap(ErrInvalidTemplate, err.Error())
		}
		return marshalIndent(fill(v, in))
	}
	return substitute(body, in), nil
}

func substitute(s string, in Input) string {
	models, _ := marshalCompact(nonNil(in.Models))
	first := ""
	if len(in.Models) > 0 {
		first = in.Models[0]
	}

	return strings.NewReplacer(
		"{{api_key}}", in.APIKey,
		"{{base_url}}", in.BaseURL,
		"{{models}}", models,
		"{{models_comma}}", strings.Join(in.Models, ", "),
		"{{vendor}}", vendorOf(in),
		"{api_key}", in.APIKey,
		"{base_url}", in.BaseURL,
		"{model}", first,
	).Replace(s)
}

func fill(v any, in Input) any {
	switch t := v.(type) {
	case orderedObject:
		out := make(orderedObject, 0, len(t))
		for _, f := range t {
			s, isString := f.Value.(string)
			if !isString {
				out = append(out, field{Key: f.Key, Value: fill(f.Value, in)})
				continue
			}
			out = append(out, field{Key: f.Key, Value: fillString(f.Key, s, in)})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = fill(item, in)
		}
		return out
	default:
		return v
	}
}

func fillString(key, value string, in Input) any {
	k := strings.ToLower(key)
	switch {
	case containsAny(k, keyFieldHints):
		if in.APIKey != "" {
			return in.APIKey
		}
	case containsAny(k, urlFieldHints):
		if in.BaseURL != "" {
			return in.BaseURL
		}
	case containsAny(k, modelFieldHints) && !strings.Contains(k, "name"):
		if len(in.Models) > 0 {
			return append([]string(nil), in.Models...)
		}
	}
	return substitute(value, in)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// orderedObject is a JSON object that remembers its key order.
type orderedObject []field

type field struct {
	Key   string
	Value any
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalCompact(f.Key)
		if err != nil {
			return nil, err
		}
		buf.WriteString(k)
		buf.WriteByte(':')
		v, err := marshalCompact(f.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteString(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrdered(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, eris.New("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := orderedObject{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, field{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, eris.Errorf("unexpected delimiter %q", delim)
	}
}
