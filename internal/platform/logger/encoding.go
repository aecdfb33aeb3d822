package logger

import (
	"strings"

	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/extract"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Encoder names registered with zap.
const (
	redactedJSON    = "redacted-json"
	redactedConsole = "redacted-console"
	coloredConsole  = "colored-console"
)

// sensitiveKeys are field names whose string values are always masked,
// whether passed to a log call or bound with With.
var sensitiveKeys = map[string]struct{}{
	"api_key":       {},
	"apikey":        {},
	"ai_api_key":    {},
	"authorization": {},
	"password":      {},
	"secret":        {},
	"token":         {},
}

var bufferPool = buffer.NewPool()

func isSensitive(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

// redactingEncoder masks credential fields and, for the colored console
// variant, highlights the JSON field blob.
type redactingEncoder struct {
	zapcore.Encoder
	highlight bool
}

func newRedactingEncoder(enc zapcore.Encoder, highlight bool) zapcore.Encoder {
	return &redactingEncoder{Encoder: enc, highlight: highlight}
}

// NewColoredConsoleEncoder returns a console encoder that masks credentials
// and colors the structured fields.
func NewColoredConsoleEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return newRedactingEncoder(zapcore.NewConsoleEncoder(cfg), true)
}

func (e *redactingEncoder) Clone() zapcore.Encoder {
	return &redactingEncoder{Encoder: e.Encoder.Clone(), highlight: e.highlight}
}

func (e *redactingEncoder) AddString(key, value string) {
	if isSensitive(key) {
		value = extract.MaskSecret(value)
	}
	e.Encoder.AddString(key, value)
}

func (e *redactingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(ent, redact(fields))
	if err != nil || !e.highlight {
		return buf, err
	}

	// The console encoder separates the message from the field blob with a
	// tab: "TIME LEVEL CALLER MSG\t{...}".
	line := buf.String()
	idx := strings.Index(line, "\t{")
	if idx == -1 {
		return buf, nil
	}

	out := bufferPool.Get()
	out.AppendString(line[:idx+1])
	out.AppendString(cli.HighlightJSON(line[idx+1:]))
	buf.Free()
	return out, nil
}

// redact returns fields with sensitive string values masked. The input
// slice is not modified.
func redact(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if f.Type != zapcore.StringType || !isSensitive(f.Key) {
			continue
		}
		if out == nil {
			out = append([]zapcore.Field(nil), fields...)
		}
		out[i].String = extract.MaskSecret(f.String)
	}
	if out == nil {
		return fields
	}
	return out
}
