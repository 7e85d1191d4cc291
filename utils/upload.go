package utils

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	FolderProducts = "uploads"
	FolderProfiles = "profile_images"

	maxImageSize = 5 << 20
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var ErrUnsupportedImage = errors.New("only jpg, jpeg and png images are allowed")

type UploadInput struct {
	Folder      string
	Filename    string
	ContentType string
	Body        io.Reader
}

// Uploader streams a single object to an external store and returns its
// public URL. Implementations do not retry.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (string, error)
}

// PrepareImage reads an uploaded file, rejects anything that is not a
// jpg/jpeg/png by extension and by content, and gives it a unique name.
func PrepareImage(file *multipart.FileHeader, folder string) (UploadInput, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedImageTypes[ext]; !ok {
		return UploadInput{}, ErrUnsupportedImage
	}
	if file.Size > maxImageSize {
		return UploadInput{}, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}

	f, err := file.Open()
	if err != nil {
		return UploadInput{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return UploadInput{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxImageSize {
		return UploadInput{}, fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}

	contentType, err := CheckImage(data)
	if err != nil {
		return UploadInput{}, err
	}

	return UploadInput{
		Folder:      folder,
		Filename:    uuid.NewString() + ext,
		ContentType: contentType,
		Body:        bytes.NewReader(data),
	}, nil
}

// CheckImage sniffs the bytes and returns the detected content type.
func CheckImage(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}
	return "", ErrUnsupportedImage
}

type S3Uploader struct {
	uploader   *manager.Uploader
	bucket     string
	publicRead bool
}

func NewS3Uploader(ctx context.Context, bucket string, publicRead bool) (*S3Uploader, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Uploader{
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		publicRead: publicRead,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, in UploadInput) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(path.Join(in.Folder, in.Filename)),
		Body:        in.Body,
		ContentType: aws.String(in.ContentType),
	}
	if u.publicRead {
		input.ACL = "public-read"
	}

	result, err := u.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return result.Location, nil
}

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

// CloudinaryUploader talks to the signed upload endpoint of Cloudinary.
type CloudinaryUploader struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	return newCloudinaryUploader(cloudinaryBaseURL, cloudName, apiKey, apiSecret)
}

func newCloudinaryUploader(baseURL, cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not set")
	}
	return &CloudinaryUploader{
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}, nil
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CloudinaryUploader) Upload(ctx context.Context, in UploadInput) (string, error) {
	params := map[string]string{
		"allowed_formats": "jpg,png,jpeg",
		"folder":          in.Folder,
		"public_id":       strings.TrimSuffix(in.Filename, path.Ext(in.Filename)),
		"timestamp":       strconv.FormatInt(time.Now().Unix(), 10),
	}
	form := map[string]string{
		"api_key":   u.apiKey,
		"signature": signCloudinaryParams(params, u.apiSecret),
	}
	for k, v := range params {
		form[k] = v
	}

	var result cloudinaryResponse
	resp, err := u.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetFileReader("file", in.Filename, in.Body).
		SetResult(&result).
		SetError(&result).
		Post("/" + u.cloudName + "/image/upload")
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("cloudinary upload failed: %s", msg)
	}
	if result.SecureURL == "" {
		return "", errors.New("cloudinary upload: response has no secure_url")
	}
	return result.SecureURL, nil
}

// signCloudinaryParams signs the sorted "k=v&k=v" string with the api secret.
func signCloudinaryParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
