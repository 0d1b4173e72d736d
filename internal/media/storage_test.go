package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SaveAndOpen(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []StorageConfig{
		{Type: StorageTypeMemory},
		{Type: StorageTypeFs, Directory: t.TempDir()},
	} {
		t.Run(cfg.Type, func(t *testing.T) {
			s, err := NewStorage(ctx, cfg)
			require.NoError(t, err)
			assert.Equal(t, cfg.Type, s.Type())

			file, err := s.Save(ctx, "logos", "My Team.png", strings.NewReader("data"))
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(file, "-My_Team.png"), file)

			f, info, err := s.Open(ctx, "logos", file)
			require.NoError(t, err)
			defer f.Close()

			assert.Equal(t, int64(4), info.Size())

			b, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, "data", string(b))

			require.NoError(t, s.Delete(ctx, "logos", file))
			require.NoError(t, s.Delete(ctx, "logos", file))

			_, _, err = s.Open(ctx, "logos", file)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_Validation(t *testing.T) {
	ctx := context.Background()
	s := NewStorageWithFs(nil, StorageTypeMemory, 4)

	_, err := s.Save(ctx, "../etc", "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidScope)

	_, err = s.Save(ctx, "logos", "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidName)

	s, err = NewStorage(ctx, StorageConfig{MaxSize: 4})
	require.NoError(t, err)

	_, err = s.Save(ctx, "logos", "a.png", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, _, err = s.Open(ctx, "logos", "../../secret")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStorage_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewStorage(ctx, StorageConfig{Type: "ftp"})
	assert.ErrorContains(t, err, "unsupported media storage type")

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeFs})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeGcs})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeGcs, GCS: GCSConfig{BucketName: "b", Credential: "not json"}})
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a.png", sanitizeName("a.png"))
	assert.Equal(t, "b.png", sanitizeName("dir/b.png"))
	assert.Equal(t, "c.png", sanitizeName(`C:\x\c.png`))
	assert.Equal(t, "hidden", sanitizeName(".hidden"))
	assert.Equal(t, "", sanitizeName(""))
	assert.Equal(t, "_____.txt", sanitizeName("?*<>|.txt"))
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "/media/logos/x.png", URLPath("logos", "x.png"))
}
