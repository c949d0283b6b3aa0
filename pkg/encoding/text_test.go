package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16LERoundTrip(t *testing.T) {
	tests := []string{"", "hello", "Grüße", "日本語", "emoji 🎮"}

	for _, want := range tests {
		t.Run(want, func(t *testing.T) {
			got, err := UTF16LEToUTF8(UTF8ToUTF16LE(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestUTF16LEToUTF8_KnownBytes(t *testing.T) {
	got, err := UTF16LEToUTF8([]byte{'H', 0, 'i', 0})
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestUTF16LEToUTF8_OddLength(t *testing.T) {
	_, err := UTF16LEToUTF8([]byte{'H', 0, 'i'})
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Models\Props\Crate.vtx`, "Models/Props/Crate.vtx"},
		{"already/normal", "already/normal"},
		{`mixed\sep/path`, "mixed/sep/path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "NormalizePath(%q)", tt.in)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{`a\b/c`, []string{"a", "b", "c"}},
		{"/a//b/", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := SplitPath(tt.in)
		if len(tt.want) == 0 {
			assert.Empty(t, got, "SplitPath(%q)", tt.in)
			continue
		}
		assert.Equal(t, tt.want, got, "SplitPath(%q)", tt.in)
	}
}
