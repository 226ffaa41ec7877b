package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/response"
	"github.com/ipetrenko/cardshop/internal/config"
	"github.com/ipetrenko/cardshop/internal/log"
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
)

type UploadService struct {
	dir     string
	baseURL string
}

func NewUploadService(cfg config.Storage) UploadService {
	return UploadService{dir: cfg.Dir, baseURL: cfg.BaseURL}
}

// SaveImage stores an uploaded card image under a fresh uuid name, keeping
// only the original extension, and returns the public URL.
func (svc UploadService) SaveImage(
	c context.Context,
	filename string,
	content io.Reader,
) (response.Upload, error) {
	_, span := otel.Tracer.Start(c, "UploadService SaveImage")
	defer span.End()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UploadService SaveImage").
		Str(log.KeyProcess, "saving image").
		Str("imageName", name).
		Logger()

	logger.Trace().Msg("saving image")
	if err := os.MkdirAll(svc.dir, 0o755); err != nil {
		err = fmt.Errorf("failed creating storage dir with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Upload{}, err
	}
	file, err := os.Create(filepath.Join(svc.dir, name))
	if err != nil {
		err = fmt.Errorf("failed creating image file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Upload{}, err
	}
	defer file.Close()
	if _, err = io.Copy(file, content); err != nil {
		err = fmt.Errorf("failed writing image file with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Upload{}, err
	}
	logger.Info().Msg("saved image")

	return response.Upload{URL: fmt.Sprintf("%s/%s", svc.baseURL, name)}, nil
}
