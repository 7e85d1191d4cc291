package initializers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Kariqs/storefront-api/utils"
)

var Uploader utils.Uploader

func InitUploader(ctx context.Context) error {
	var (
		uploader utils.Uploader
		err      error
	)
	switch strings.ToLower(Config.UploadProvider) {
	case "s3":
		uploader, err = utils.NewS3Uploader(ctx, Config.S3Bucket, Config.S3PublicRead)
	case "cloudinary":
		uploader, err = utils.NewCloudinaryUploader(Config.CloudinaryCloudName, Config.CloudinaryAPIKey, Config.CloudinaryAPISecret)
	default:
		err = fmt.Errorf("unsupported upload provider %q", Config.UploadProvider)
	}
	if err != nil {
		return err
	}

	Uploader = uploader
	log.Info().Str("provider", Config.UploadProvider).Msg("image uploader configured")
	return nil
}
