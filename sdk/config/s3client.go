// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type S3Client struct {
	s3 *s3.Client
}

// NewS3Client builds a client with static credentials. An endpoint without
// scheme is treated as https.
func NewS3Client(ctx context.Context, cfgCreds S3Config) (*S3Client, error) {
	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		cfgCreds.AccessKey,
		cfgCreds.SecretKey,
		cfgCreds.AccessToken,
	))

	region := cfgCreds.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(creds),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfgCreds.EndpointURL
	if endpoint != "" && !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	s3Options := func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // needed by most S3-compatible stores
		}
	}

	return &S3Client{
		s3: s3.NewFromConfig(cfg, s3Options),
	}, nil
}

/* -------------------- PROGRESS HOOK -------------------- */

type ProgressHook struct {
	OnStart    func(key string, totalBytes int64)                     // once, before the first byte
	OnProgress func(key string, written, totalBytes int64)            // throttled
	OnDone     func(key string, totalBytes int64, took time.Duration) // after the last byte
}

type progressWriter struct {
	key        string
	total      int64
	written    int64
	lastEmit   time.Time
	interval   time.Duration
	onProgress func(key string, written, total int64)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.written += int64(n)
	now := time.Now()
	if pw.onProgress != nil && (pw.written == pw.total || now.Sub(pw.lastEmit) >= pw.interval) {
		pw.onProgress(pw.key, pw.written, pw.total)
		pw.lastEmit = now
	}
	return n, nil
}

func newProgressWriter(key string, total int64, hook *ProgressHook) *progressWriter {
	pw := &progressWriter{
		key:      key,
		total:    total,
		interval: 250 * time.Millisecond,
	}
	if hook != nil {
		pw.onProgress = hook.OnProgress
	}
	return pw
}

// ProgressReader wraps r so that reads are reported to hook. It is used for
// streams that do not go through the S3 client (data-plane downloads).
func ProgressReader(r io.Reader, key string, total int64, hook *ProgressHook) io.Reader {
	if hook == nil {
		return r
	}
	return io.TeeReader(r, newProgressWriter(key, total, hook))
}

/* -------------------- DOWNLOAD -------------------- */

// ObjectInfo is the metadata of an object read with GetObject.
type ObjectInfo struct {
	Size               int64
	ContentType        string
	ContentDisposition string
}

// HeadObject reads object metadata without the body.
func (c *S3Client) HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	out, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to head object s3://%s/%s: %w", bucket, key, err)
	}
	return &ObjectInfo{
		Size:               aws.ToInt64(out.ContentLength),
		ContentType:        aws.ToString(out.ContentType),
		ContentDisposition: aws.ToString(out.ContentDisposition),
	}, nil
}

// GetObject streams an object into w.
func (c *S3Client) GetObject(
	ctx context.Context,
	bucket, key string,
	w io.Writer,
	hook *ProgressHook,
) (*ObjectInfo, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer out.Body.Close()

	info := &ObjectInfo{
		Size:               aws.ToInt64(out.ContentLength),
		ContentType:        aws.ToString(out.ContentType),
		ContentDisposition: aws.ToString(out.ContentDisposition),
	}

	if hook != nil && hook.OnStart != nil {
		hook.OnStart(key, info.Size)
	}

	start := time.Now()
	n, err := io.Copy(w, io.TeeReader(out.Body, newProgressWriter(key, info.Size, hook)))
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	info.Size = n

	if hook != nil && hook.OnDone != nil {
		hook.OnDone(key, n, time.Since(start))
	}
	return info, nil
}

/* -------------------- BUCKETS -------------------- */

// EnsureBucket creates the bucket when it does not exist yet.
func (c *S3Client) EnsureBucket(ctx context.Context, bucket string) (created bool, err error) {
	_, err = c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return false, nil
	}
	var nf *s3types.NotFound
	var apiErr smithy.APIError
	if !errors.As(err, &nf) && !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound") {
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}

	_, err = c.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return true, nil
}

/* -------------------- UPLOAD -------------------- */

const multipartThreshold = 100 * 1024 * 1024

// UploadFile uploads a local file, switching to the multipart uploader above
// 100MB. The content type is sniffed from the first bytes.
func (c *S3Client) UploadFile(
	ctx context.Context,
	bucket, key string,
	file *os.File,
	hook *ProgressHook,
) error {
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat error: %w", err)
	}
	size := info.Size()
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek error: %w", err)
	}

	// MIME
	header := make([]byte, 512)
	n, _ := file.Read(header)
	mime := http.DetectContentType(header[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind error: %w", err)
	}

	if hook != nil && hook.OnStart != nil {
		hook.OnStart(key, size)
	}

	start := time.Now()
	reader := io.TeeReader(file, newProgressWriter(key, size, hook))

	if size > multipartThreshold {
		_, err = manager.NewUploader(c.s3).Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        reader,
			ContentType: aws.String(mime),
		})
	} else {
		_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(key),
			Body:          reader,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(mime),
		})
	}
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", bucket, key, err)
	}

	if hook != nil && hook.OnDone != nil {
		hook.OnDone(key, size, time.Since(start))
	}
	return nil
}
