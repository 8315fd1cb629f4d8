package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shamank/spheron-storage-go/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_OneRowPerKeyInOrder(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{})
	fields := model.Fields{
		{Key: "zeta_key", Value: "first"},
		{Key: "alpha_key", Value: "second"},
		{Key: "mid_key", Value: "third"},
		{Key: "alpha_key", Value: "fourth"},
	}

	out := p.RenderTable(fields)

	assert.Contains(t, out, "Key")
	assert.Contains(t, out, "Value")
	assert.Equal(t, 2, strings.Count(out, "alpha_key"), "duplicate keys must both be rendered")

	last := -1
	for _, value := range []string{"first", "second", "third", "fourth"} {
		idx := strings.Index(out, value)
		require.GreaterOrEqual(t, idx, 0, "value %q missing from table", value)
		assert.Greater(t, idx, last, "value %q rendered out of order", value)
		last = idx
	}

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "zeta_key") {
			assert.Contains(t, line, "first", "key and value must share a row")
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	out := NewPrinter(&bytes.Buffer{}).RenderTable(nil)
	assert.Contains(t, out, "Key")
	assert.NotContains(t, out, "\x1b[", "no ANSI codes expected for a non-terminal writer")
}

func TestPrinter_StatusLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Success("🚀 File uploaded successfully with ID: up-1")
	p.Info("🔗 Upload initiated with ID: up-1")
	p.Link("🚀 Link to the JSON Data uploaded:", "https://gw/ipfs/cid/metadata.json")
	p.Progress("plain progress")
	p.Error("❗ Error during the process:", errors.New("HTTP error! Status: 404"))

	out := buf.String()
	assert.Contains(t, out, "File uploaded successfully with ID: up-1\n")
	assert.Contains(t, out, "Upload initiated with ID: up-1\n")
	assert.Contains(t, out, "Link to the JSON Data uploaded: https://gw/ipfs/cid/metadata.json\n")
	assert.Contains(t, out, "plain progress\n")
	assert.Contains(t, out, "Error during the process: HTTP error! Status: 404\n")
}

func TestPrinter_Heading(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Heading("Spheron - Storage")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 3, "heading should be multi-line ascii art")
}

func TestFormatChunkProgress(t *testing.T) {
	tests := []struct {
		uploaded, total int64
		want            string
	}{
		{512, 1024, "📦 Uploaded chunk: 512/1024 (512 B of 1.0 kB, 50.0%)"},
		{1024, 1024, "📦 Uploaded chunk: 1024/1024 (1.0 kB of 1.0 kB, 100.0%)"},
		{1, 3, "📦 Uploaded chunk: 1/3 (1 B of 3 B, 33.3%)"},
		{0, 0, "📦 Uploaded chunk: 0/0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatChunkProgress(tt.uploaded, tt.total))
	}
}
