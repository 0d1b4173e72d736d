package biz

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/internal/media"
)

func TestMediaService_UploadAndOpen(t *testing.T) {
	svc := NewMediaService(MediaServiceParams{
		Storage: media.NewStorageWithFs(afero.NewMemMapFs(), media.StorageTypeMemory, 0),
	})
	ctx := context.Background()

	url, err := svc.Upload(ctx, "logos", "lions crest.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/logos/"))
	assert.True(t, strings.HasSuffix(url, "-lions_crest.png"))

	file := strings.TrimPrefix(url, "/media/logos/")

	f, info, err := svc.Open(ctx, "logos", file)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, int64(3), info.Size())

	_, err = svc.Upload(ctx, "Bad Scope", "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, media.ErrInvalidScope)
}
