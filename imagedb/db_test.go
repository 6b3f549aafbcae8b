package imagedb

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/table/config"
	"github.com/luxfi/table/diskcache"
)

func newTestDB(t *testing.T, dir string) *DB {
	t.Helper()
	cfg := &config.Config{
		DataDir:          dir,
		MetricsNamespace: "test",
		Users:            map[string]string{config.DefaultUser: config.DefaultUserHash},
	}
	db, err := New(cfg, metric.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return db
}

func TestAddAndGet(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t, t.TempDir())
	data := []byte("not really a png")
	id := NewImageID(data)

	require.False(db.HasImage(id))
	require.NoError(db.AddImage("test-user", id, data))
	require.True(db.HasImage(id))

	img, err := db.Image(id)
	require.NoError(err)
	require.Equal(Image{Owner: "test-user", Data: data}, img)
	require.False(img.Public)

	err = db.AddImage("someone-else", id, []byte("other"))
	require.ErrorIs(err, ErrImageExists)
}

func TestAddCopiesData(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t, t.TempDir())
	data := []byte("abc")
	id := NewImageID(data)
	require.NoError(db.AddImage("test-user", id, data))

	data[0] = 'x'
	img, err := db.Image(id)
	require.NoError(err)
	require.Equal([]byte("abc"), img.Data)
}

func TestImageNotFound(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t, t.TempDir())
	_, err := db.Image(ids.Empty)
	require.ErrorIs(err, ErrImageNotFound)
	require.ErrorIs(db.RemoveImage(ids.Empty), ErrImageNotFound)
}

func TestLogoffPersists(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	db := newTestDB(t, dir)
	data := []byte("persist me")
	id := NewImageID(data)
	require.NoError(db.AddImage("test-user", id, data))
	require.Equal(Summary{Users: 1, CachedImages: 1, PendingChanges: 1}, db.Summary())

	record := filepath.Join(dir, diskcache.FileName(id.String()))
	require.NoFileExists(record)
	require.NoError(db.Logoff("test-user"))
	require.FileExists(record)
	require.Equal(Summary{Users: 1, CachedImages: 1, PendingChanges: 0}, db.Summary())

	// A fresh DB loads the image lazily and can remove it.
	restarted := newTestDB(t, dir)
	require.Equal(Summary{Users: 1}, restarted.Summary())
	require.True(restarted.HasImage(id))
	require.ErrorIs(restarted.AddImage("test-user", id, data), ErrImageExists)

	require.NoError(restarted.RemoveImage(id))
	require.False(restarted.HasImage(id))
	require.FileExists(record)

	require.NoError(restarted.Close())
	require.NoFileExists(record)
}

func TestLogon(t *testing.T) {
	require := require.New(t)

	db := newTestDB(t, t.TempDir())
	require.NoError(db.Logon(config.DefaultUser, config.DefaultUserHash))
	require.ErrorIs(db.Logon(config.DefaultUser, "wrong"), ErrUnauthorized)
	require.ErrorIs(db.Logon("nobody", config.DefaultUserHash), ErrUnauthorized)
}

func TestDuplicateNamespace(t *testing.T) {
	require := require.New(t)

	reg := metric.NewRegistry()
	cfg := &config.Config{DataDir: t.TempDir(), MetricsNamespace: "dup"}
	_, err := New(cfg, reg, nil)
	require.NoError(err)
	_, err = New(cfg, reg, nil)
	require.Error(err)
}

func TestRemoveImageNeverLoaded(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	data := []byte("only on disk")
	id := NewImageID(data)

	db := newTestDB(t, dir)
	require.NoError(db.AddImage("test-user", id, data))
	require.NoError(db.Close())

	// Nothing has read the image in this DB; removal still finds it.
	restarted := newTestDB(t, dir)
	require.Zero(restarted.Summary().CachedImages)
	require.NoError(restarted.RemoveImage(id))
	require.ErrorIs(restarted.RemoveImage(id), ErrImageNotFound)

	require.NoError(restarted.Close())
	require.NoFileExists(filepath.Join(dir, diskcache.FileName(id.String())))
}
