package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// jsonToken matches, in order: keys (a quoted string followed by a colon),
// string values, literals and numbers.
var jsonToken = regexp.MustCompile(`("(\\u[a-zA-Z0-9]{4}|\\[^u]|[^\\"])*"(\s*:)?|\b(true|false|null)\b|-?\d+(?:\.\d*)?(?:[eE][+\-]?\d+)?)`)

// HighlightJSON applies ANSI colors to a JSON document, minified or
// indented. It is a no-op when color is disabled.
func HighlightJSON(s string) string {
	if !Enabled() {
		return s
	}

	return jsonToken.ReplaceAllStringFunc(s, func(token string) string {
		switch {
		case strings.HasSuffix(token, ":"):
			return Style(strings.TrimSuffix(token, ":"), Blue) + ":"
		case strings.HasPrefix(token, `"`):
			return Style(token, Green)
		case token == "true" || token == "false":
			return Style(token, Yellow)
		case token == "null":
			return Dim(token)
		default:
			return Style(token, Purple)
		}
	})
}

// PrettyFormat renders v as indented, highlighted JSON. HTML characters are
// left unescaped so URLs with query strings print as typed. Strings and byte
// slices are assumed to hold JSON already.
func PrettyFormat(v interface{}) string {
	var raw []byte
	switch t := v.(type) {
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Sprintf("%+v", v)
		}
		raw = bytes.TrimRight(buf.Bytes(), "\n")
	}

	return HighlightJSON(string(raw))
}

// PrettyPrint writes PrettyFormat(v) and a newline to w.
func PrettyPrint(w io.Writer, v interface{}) error {
	_, err := fmt.Fprintln(w, PrettyFormat(v))
	return err
}
