package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"investment-digest/internal/pipeline"
)

func TestBulletColorsMarkerOnly(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{writer: &buf, colorEnabled: true}

	out.Bullet(pipeline.ToneRed, "Overdue:     %d items", 2)

	assert.Equal(t, "   "+ColorRed+"●"+ColorReset+" Overdue:     2 items\n", buf.String())
}

func TestBulletTones(t *testing.T) {
	tests := []struct {
		tone  pipeline.Tone
		color string
	}{
		{pipeline.ToneRed, ColorRed},
		{pipeline.ToneYellow, ColorYellow},
		{pipeline.ToneBlue, ColorBlue},
		{pipeline.ToneCyan, ColorCyan},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		out := &Output{writer: &buf, colorEnabled: true}
		out.Bullet(tt.tone, "x")
		assert.Contains(t, buf.String(), tt.color+"●")
	}
}

func TestBulletPlain(t *testing.T) {
	var buf bytes.Buffer
	NewPlainOutput(&buf, false).Bullet(pipeline.ToneRed, "This Month:  %s", "5 items")
	assert.Equal(t, "   ● This Month:  5 items\n", buf.String())

	buf.Reset()
	out := &Output{writer: &buf, colorEnabled: true}
	out.Bullet(pipeline.TonePlain, "plain")
	assert.Equal(t, "   ● plain\n", buf.String())
}
