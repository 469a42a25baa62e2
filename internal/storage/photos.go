package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/sharpcutlabs/booking-api/internal/config"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
)

const (
	photoMaxEdge = 512
	webpQuality  = 85
)

// PhotoStore normalizes uploaded barber photos (decode, downscale,
// re-encode as webp) and pushes them to an S3-compatible bucket.
type PhotoStore struct {
	client *s3.Client
	bucket string
	base   string
}

func NewPhotoStore(cfg *config.Config) *PhotoStore {
	if cfg.S3Bucket == "" {
		return nil
	}

	awsCfg := aws.Config{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// MinIO and friends need path-style addressing
			o.UsePathStyle = true
		}
	})

	base := cfg.MediaBase
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &PhotoStore{
		client: client,
		bucket: cfg.S3Bucket,
		base:   strings.TrimRight(base, "/"),
	}
}

// SaveBarberPhoto returns the public URL of the stored image.
func (ps *PhotoStore) SaveBarberPhoto(ctx context.Context, barberID uint, r io.Reader) (string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_image")
	}

	out := downscale(src, photoMaxEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, out, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode photo: %w", err)
	}

	key := fmt.Sprintf("barbers/%d/%s.webp", barberID, uuid.NewString())

	_, err = ps.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	return ps.base + "/" + key, nil
}

func downscale(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w > h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
