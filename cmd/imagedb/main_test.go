package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	t.Setenv("IMAGEDB_DATA_DIR", filepath.Join(dir, "db"))
	t.Setenv("IMAGEDB_LOG_LEVEL", "error")

	img := filepath.Join(dir, "cat.png")
	require.NoError(os.WriteFile(img, []byte("meow"), 0o600))

	var out, errOut bytes.Buffer
	require.NoError(run([]string{"add", img}, &out, &errOut))
	id := strings.TrimSpace(out.String())
	require.NotEmpty(id)
	require.FileExists(filepath.Join(dir, "db", id))

	out.Reset()
	require.Error(run([]string{"add", img}, &out, &errOut))

	out.Reset()
	require.NoError(run([]string{"get", id}, &out, &errOut))
	require.Equal("meow", out.String())

	out.Reset()
	require.NoError(run([]string{"-metrics", "has", id}, &out, &errOut))
	require.True(strings.HasPrefix(out.String(), "true\n"))
	require.Contains(out.String(), "imagedb_images_persist_count")

	out.Reset()
	require.NoError(run([]string{"rm", id}, &out, &errOut))
	require.NoFileExists(filepath.Join(dir, "db", id))

	out.Reset()
	require.NoError(run([]string{"summary"}, &out, &errOut))
	require.Equal("users=1 cached_images=0 pending_changes=0\n", out.String())
}

func TestRunUsage(t *testing.T) {
	t.Setenv("IMAGEDB_DATA_DIR", t.TempDir())

	var out, errOut bytes.Buffer
	for _, args := range [][]string{
		nil,
		{"bogus"},
		{"get"},
		{"rm", "a", "b"},
	} {
		require.ErrorIs(t, run(args, &out, &errOut), errUsage)
	}
	require.Error(t, run([]string{"get", "not-an-id"}, &out, &errOut))
}
