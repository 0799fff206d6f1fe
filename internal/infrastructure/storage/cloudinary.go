package storage

import (
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Upload options for report images
const (
	CloudinaryFolder         = "disaster_reports"
	CloudinaryTransformation = "c_limit,h_1200,w_1200/q_auto/f_auto"
)

// CloudinaryBackend uploads images to a Cloudinary account
type CloudinaryBackend struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryBackend returns a backend for the given credentials
func NewCloudinaryBackend(cloudName, apiKey, apiSecret string) (*CloudinaryBackend, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryBackend{cld: cld}, nil
}

// Name implements Backend
func (c *CloudinaryBackend) Name() string { return BackendCloudinary }

// Save uploads the file into the report folder, limited to 1200x1200
func (c *CloudinaryBackend) Save(ctx context.Context, file *File, baseURL string) (*StoredImage, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	res, err := c.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         CloudinaryFolder,
		ResourceType:   "auto",
		Transformation: CloudinaryTransformation,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return nil, errors.New("cloudinary returned no url")
	}

	return &StoredImage{
		URL:     res.SecureURL,
		Key:     res.PublicID,
		Backend: BackendCloudinary,
	}, nil
}

// Delete destroys the uploaded asset
func (c *CloudinaryBackend) Delete(ctx context.Context, key string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
