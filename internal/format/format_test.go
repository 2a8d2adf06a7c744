package format

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "small number no separators", n: 123, want: "123"},
		{name: "four digits with separator", n: 1234, want: "1,234"},
		{name: "millions", n: 1234567, want: "1,234,567"},
		{name: "zero", n: 0, want: "0"},
		{name: "negative number", n: -1234, want: "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "$0.00"},
		{cents: 5, want: "$0.05"},
		{cents: 199, want: "$1.99"},
		{cents: 123456, want: "$1,234.56"},
		{cents: -250, want: "-$2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.cents))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "64.0 MiB", FormatBytes(64*mib))
	assert.Equal(t, "2.0 GiB", FormatBytes(2*gib))
}

func TestTruncateAndFit(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Empty(t, Truncate("hello", 0))

	assert.Equal(t, "ab   ", Fit("ab", 5))
	assert.Equal(t, "   ab", FitLeft("ab", 5))

	wide := Fit("日本語テキスト", 7)
	assert.Equal(t, 7, runewidth.StringWidth(wide))
}
