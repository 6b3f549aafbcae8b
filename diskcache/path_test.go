package diskcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "plain", key: "a-new-record", want: "a-new-record"},
		{name: "mixed case and digits", key: "Record_42.bin", want: "Record_42.bin"},
		{name: "empty", key: "", want: "%"},
		{name: "dot", key: ".", want: "%2E"},
		{name: "dot dot", key: "..", want: "%2E."},
		{name: "hidden", key: ".profile", want: "%2Eprofile"},
		{name: "inner dot kept", key: "a.b", want: "a.b"},
		{name: "separator", key: "a/b", want: "a%2Fb"},
		{name: "windows separator", key: `a\b`, want: "a%5Cb"},
		{name: "percent", key: "100%", want: "100%25"},
		{name: "tilde", key: "~", want: "%7E"},
		{name: "space and colon", key: "a b:c", want: "a%20b%3Ac"},
		{name: "utf8", key: "é", want: "%C3%A9"},
		{name: "nul", key: "a\x00", want: "a%00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FileName(tt.key))
		})
	}
}

func TestFileNameLongKeys(t *testing.T) {
	require := require.New(t)

	a := strings.Repeat("a", 300)
	b := strings.Repeat("a", 299) + "b"

	nameA := FileName(a)
	nameB := FileName(b)

	require.LessOrEqual(len(nameA), maxNameLen)
	require.LessOrEqual(len(nameB), maxNameLen)
	require.NotEqual(nameA, nameB)
	require.Equal(nameA, FileName(a))
	require.Contains(nameA, "~")
	require.True(strings.HasPrefix(nameA, strings.Repeat("a", truncatedNameLen)))

	// Escaping can push a short key over the limit.
	slashes := strings.Repeat("/", 100)
	require.LessOrEqual(len(FileName(slashes)), maxNameLen)
	require.Contains(FileName(slashes), "~")

	exact := strings.Repeat("x", maxNameLen)
	require.Equal(exact, FileName(exact))
}

func TestFileNameNeverSeparates(t *testing.T) {
	for i := 0; i < 256; i++ {
		name := FileName(string([]byte{byte(i)}))
		require.NotContains(t, name, "/")
		require.NotContains(t, name, `\`)
		require.NotEqual(t, ".", name)
		require.NotEqual(t, "..", name)
	}
}
