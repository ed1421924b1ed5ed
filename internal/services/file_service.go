// file: internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"speakerhub/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

const uploadTimeout = 2 * time.Minute

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// fileService uploads headshots to Cloudinary
type fileService struct {
	cloudinary *cloudinary.Cloudinary
	cfg        *config.CloudinaryConfig
	logger     *zap.Logger
}

// NewFileService creates a new file service
func NewFileService(cfg *config.CloudinaryConfig, logger *zap.Logger) (FileService, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &fileService{
		cloudinary: cld,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// UploadImage validates and uploads a headshot, returning its secure URL.
func (s *fileService) UploadImage(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxFileSize {
		return "", NewValidationError(
			fmt.Sprintf("image exceeds the %dMB limit", s.cfg.MaxFileSize/(1024*1024)), nil)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		return "", NewValidationError("only JPEG, PNG and WebP images are accepted", nil)
	}

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := s.cloudinary.Upload.Upload(uploadCtx, file, uploader.UploadParams{
		Folder:         fmt.Sprintf("%s/%d", s.cfg.UploadFolder, userID),
		ResourceType:   "image",
		UseFilename:    api.Bool(false),
		UniqueFilename: api.Bool(true),
		Tags:           []string{"speakerhub", "headshot"},
	})
	if err != nil {
		s.logger.Error("Failed to upload image to Cloudinary",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("filename", header.Filename),
		)
		return "", NewInternalError("failed to upload image")
	}

	s.logger.Info("Image uploaded",
		zap.Int64("user_id", userID),
		zap.String("public_id", result.PublicID),
		zap.Int("bytes", result.Bytes),
	)

	return result.SecureURL, nil
}

// DeleteImage removes a previously uploaded image.
func (s *fileService) DeleteImage(ctx context.Context, publicID string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	_, err := s.cloudinary.Upload.Destroy(deleteCtx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.logger.Error("Failed to delete image", zap.Error(err), zap.String("public_id", publicID))
		return NewInternalError("failed to delete image")
	}
	return nil
}
