package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightJSON(t *testing.T) {
	SetEnabled(true)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	out := HighlightJSON(`{"api_key": "sk-1", "n": 2, "ok": true, "x": null}`)
	assert.Contains(t, out, Blue+`"api_key"`+ResetCode+":")
	assert.Contains(t, out, Green+`"sk-1"`+ResetCode)
	assert.Contains(t, out, Purple+"2"+ResetCode)
	assert.Contains(t, out, Yellow+"true"+ResetCode)
	assert.Contains(t, out, DimCode+"null"+ResetCode)
}

func TestNoColor(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	assert.Equal(t, `{"a":1}`, HighlightJSON(`{"a":1}`))
	assert.Equal(t, "0.95", Score(0.95))
	assert.Equal(t, "x", Style("x", Red))
}

func TestPrettyFormat_KeepsURLsReadable(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	out := PrettyFormat(map[string]string{"base_url": "https://gw.example.com/v1?a=1&b=<2>"})
	assert.Equal(t, "{\n  \"base_url\": \"https://gw.example.com/v1?a=1&b=<2>\"\n}", out)
	assert.Equal(t, `{"raw":true}`, PrettyFormat(`{"raw":true}`))
}

func TestPrettyPrint(t *testing.T) {
	SetEnabled(false)
	t.Cleanup(func() { SetEnabled(!checkNoColor()) })

	var buf bytes.Buffer
	require.NoError(t, PrettyPrint(&buf, []string{"gpt-4o"}))
	assert.Equal(t, "[\n  \"gpt-4o\"\n]\n", buf.String())
}
