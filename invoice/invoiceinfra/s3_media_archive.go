package invoiceinfra

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Abraxas-365/facturamelo/invoice"
)

// S3MediaArchive implementa invoice.MediaArchiver sobre un bucket S3. Guarda
// la imagen original de cada factura como copia de auditoría.
type S3MediaArchive struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ invoice.MediaArchiver = (*S3MediaArchive)(nil)

// NewS3MediaArchive creates a new S3-backed media archive
func NewS3MediaArchive(client *s3.Client, bucket, prefix string) *S3MediaArchive {
	return &S3MediaArchive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Archive guarda los bytes bajo prefix/key y retorna la URI s3:// resultante
func (a *S3MediaArchive) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", invoice.ErrArchiveFailed().WithDetail("reason", "empty media data")
	}

	objectKey := key
	if a.prefix != "" {
		objectKey = a.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := a.client.PutObject(ctx, input)
	if err != nil {
		return "", invoice.ErrArchiveFailed().
			WithDetail("bucket", a.bucket).
			WithDetail("key", objectKey).
			WithCause(err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, objectKey), nil
}
