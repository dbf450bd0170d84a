package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "TEXT", want: ModeText},
		{in: " markdown ", want: ModeMarkdown},
		{in: "json", want: ModeJSON},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	var out, errOut bytes.Buffer

	assert.Equal(t, ModeMarkdown, NewRenderer(&out, &errOut, ModeAuto).EffectiveMode(), "buffers are not terminals")
	assert.Equal(t, ModeMarkdown, NewRenderer(&out, &errOut, "").EffectiveMode())
	assert.Equal(t, ModeText, NewRenderer(&out, &errOut, ModeText).EffectiveMode())
	assert.Equal(t, ModeJSON, NewRenderer(&out, &errOut, ModeJSON).EffectiveMode())
}

func TestRenderer_NoANSIWithoutTTY(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Header(1, "Templates")
	r.StatusLine("index.html", "success", "")
	r.Success("done")
	r.Warning("1 skipped")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Templates")
	assert.Contains(t, out.String(), "✓ index.html")
	assert.Equal(t, "Warning: 1 skipped\n", errOut.String())
}

func TestRenderer_Markdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeMarkdown)

	r.Header(2, "Frontend")
	r.StatusLine("src/App.tsx", "success", "rendered")
	r.Table([]string{"Identifier", "Framework"}, [][]string{{"a|b", "Actix Web"}})

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "## Frontend\n  - src/App.tsx (rendered)\n"), got)
	assert.Contains(t, got, "| Identifier | Framework |")
	assert.Contains(t, got, `| a\|b | Actix Web |`, "pipes in cells are escaped")
	assert.NotContains(t, got, "┌")
}

func TestRenderer_TextTable(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Table([]string{"#", "Template"}, [][]string{{"1", "frontend/react/index.html"}})

	assert.Contains(t, out.String(), "frontend/react/index.html")
	assert.Contains(t, out.String(), "TEMPLATE", "go-pretty upper-cases headers")
	assert.Contains(t, out.String(), "┌")
}

func TestRenderer_JSON(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeJSON)

	require.NoError(t, r.JSON(TemplateListOutput{Root: "templates", Suffix: ".tera", Templates: []string{"a"}}))

	var got TemplateListOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []string{"a"}, got.Templates)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "# Zero", FormatHeader(0, "Zero"))
}

func TestGetRenderer(t *testing.T) {
	assert.Nil(t, GetRenderer(context.Background()))

	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeJSON)
	ctx := context.WithValue(context.Background(), RendererKey(), r)
	assert.Same(t, r, GetRenderer(ctx))
}
