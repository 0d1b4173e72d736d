package biz

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/media"
)

type MediaServiceParams struct {
	fx.In

	Storage *media.Storage
}

type MediaService struct {
	Storage *media.Storage
}

func NewMediaService(params MediaServiceParams) *MediaService {
	return &MediaService{Storage: params.Storage}
}

// Upload stores body under scope and returns its public path.
func (svc *MediaService) Upload(ctx context.Context, scope, name string, body io.Reader) (string, error) {
	file, err := svc.Storage.Save(ctx, scope, name, body)
	if err != nil {
		return "", err
	}

	url := media.URLPath(scope, file)

	log.Info(ctx, "media uploaded",
		log.String("scope", scope),
		log.String("file", file),
		log.String("storage", svc.Storage.Type()))

	return url, nil
}

// Open returns a stored file. The caller closes it.
func (svc *MediaService) Open(ctx context.Context, scope, file string) (afero.File, os.FileInfo, error) {
	return svc.Storage.Open(ctx, scope, file)
}
