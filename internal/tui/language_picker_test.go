package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguagePicker_StartsOnCurrent(t *testing.T) {
	p := newLanguagePicker("cpp")
	lang, ok := p.selected()
	require.True(t, ok)
	assert.Equal(t, "cpp", lang.Tag)
}

func TestLanguagePicker_UnknownCurrentStartsAtTop(t *testing.T) {
	p := newLanguagePicker("cobol")
	lang, ok := p.selected()
	require.True(t, ok)
	assert.Equal(t, "javascript", lang.Tag)
}

func TestLanguagePicker_Filter(t *testing.T) {
	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"javascript", "python", "java", "cpp", "csharp", "html", "react", "nodejs", "typescript", "php"}},
		{"java", []string{"javascript", "java"}},
		{"SCRIPT", []string{"javascript", "typescript"}},
		{"c#", []string{"csharp"}},
		{"node.js", []string{"nodejs"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			p := languagePicker{filter: tt.filter}
			var got []string
			for _, l := range p.filtered() {
				got = append(got, l.Tag)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLanguagePicker_MoveWraps(t *testing.T) {
	p := newLanguagePicker("javascript")
	p.move(-1)
	lang, _ := p.selected()
	assert.Equal(t, "php", lang.Tag)

	p.move(1)
	lang, _ = p.selected()
	assert.Equal(t, "javascript", lang.Tag)
}

func TestLanguagePicker_EmptyFilter(t *testing.T) {
	p := languagePicker{filter: "zzz"}
	p.move(1)
	_, ok := p.selected()
	assert.False(t, ok)
	assert.Contains(t, p.View(80), "No languages match")
}

func TestLanguagePicker_ViewMarksCurrent(t *testing.T) {
	view := newLanguagePicker("react").View(100)
	assert.Contains(t, view, "React")
	assert.Contains(t, view, "(current)")
	assert.Contains(t, view, "current: React")
}
