package services

import (
	"context"
	"fmt"

	"github.com/bobdavies/creatuno/internal/client/imaging"
	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/client/repositories/images"
)

// ImageService runs the compression pipeline on the write path: an attached
// image is compressed synchronously and only the finished result is stored.
type ImageService struct {
	images images.Repository
	opts   imaging.Options
}

// NewImageService returns an ImageService compressing with the given options.
func NewImageService(i images.Repository, opts imaging.Options) *ImageService {
	return &ImageService{images: i, opts: opts}
}

// Attach compresses raw and stores the image under the given project with a
// pending upload state. A decode or encode failure aborts the attach; no
// partial image reaches the store. Multiple attachments to one edit are
// compressed sequentially by callers looping over Attach.
func (s *ImageService) Attach(ctx context.Context, projectID string, raw []byte) (*models.Image, error) {
	res, err := imaging.Compress(raw, s.opts)
	if err != nil {
		return nil, fmt.Errorf("compression error: %w", err)
	}

	img := models.NewImage(projectID, res.MimeType)
	img.Original = raw
	img.Compressed = res.Data
	img.Thumbnail = res.Thumbnail
	img.OriginalSize = res.OriginalSize
	img.CompressedSize = res.CompressedSize
	img.Width = res.Width
	img.Height = res.Height

	if err := s.images.CreateOrUpdate(ctx, img); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return img, nil
}

// RetryUpload flips a failed upload back to pending so the next sync pass
// re-attempts it, independently of portfolio/project sync.
func (s *ImageService) RetryUpload(ctx context.Context, localID string) error {
	img, err := s.images.GetByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("error retrieving image: %w", err)
	}
	if img.UploadStatus != models.UploadStatusFailed {
		return fmt.Errorf("image %s upload has not failed", localID)
	}
	return s.images.UpdateUploadStatus(ctx, localID, models.UploadStatusPending, "")
}

// Get returns one image snapshot.
func (s *ImageService) Get(ctx context.Context, localID string) (*models.Image, error) {
	return s.images.GetByLocalID(ctx, localID)
}
