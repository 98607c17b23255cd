// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

// ParsedPath is a download/upload destination: a local directory or an
// s3://bucket/prefix location.
type ParsedPath struct {
	Scheme string // "file" or "s3"
	Host   string // bucket for s3
	Path   string // directory or key prefix, no leading slash for s3
}

func (p *ParsedPath) IsS3() bool { return p.Scheme == "s3" }

func (p *ParsedPath) String() string {
	if p.IsS3() {
		return "s3://" + p.Host + "/" + p.Path
	}
	return p.Path
}

// Join returns the location of name inside p.
func (p *ParsedPath) Join(name string) string {
	if p.IsS3() {
		return "s3://" + p.Host + "/" + path.Join(p.Path, name)
	}
	return filepath.Join(p.Path, name)
}

// ParsePath accepts s3://bucket[/prefix], file:///dir or a plain local path.
func ParsePath(raw string) (*ParsedPath, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty destination")
	}
	if !strings.Contains(raw, "://") {
		return &ParsedPath{Scheme: "file", Path: filepath.Clean(raw)}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("missing bucket in %q", raw)
		}
		return &ParsedPath{Scheme: "s3", Host: u.Host, Path: strings.Trim(u.Path, "/")}, nil
	case "file":
		return &ParsedPath{Scheme: "file", Path: filepath.Clean(u.Path)}, nil
	default:
		return nil, fmt.Errorf("unsupported destination scheme %q", u.Scheme)
	}
}

/* ------------ local files ------------ */

// WriteFileAtomic streams r into dir through a temporary file in the same
// directory and publishes it as dir/name, so a failed download never leaves a
// partial file under the final name. An existing file is never replaced: when
// name is taken the first free "{stem}_{n}{ext}" is used. It returns the final
// path. The directory is created when missing.
func WriteFileAtomic(dir, name string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".part-"+UUIDv4NoDash()[:8]+"-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return "", n, err
	}
	if err := tmp.Close(); err != nil {
		return "", n, fmt.Errorf("failed to close temp file: %w", err)
	}

	target, err := publishFile(tmpName, dir, name)
	if err != nil {
		return "", n, err
	}
	return target, n, nil
}

const maxNameAttempts = 1000

// publishFile moves tmpName to a free name in dir without clobbering.
func publishFile(tmpName, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := range maxNameAttempts {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		target := filepath.Join(dir, candidate)

		err := os.Link(tmpName, target)
		if err == nil {
			return target, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}

		// no hard links on this filesystem: reserve the name, then move onto it
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", target, err)
		}
		_ = f.Close()
		if err := os.Rename(tmpName, target); err != nil {
			_ = os.Remove(target)
			return "", fmt.Errorf("failed to move download to %s: %w", target, err)
		}
		return target, nil
	}
	return "", fmt.Errorf("no free file name for %s in %s", name, dir)
}

/* ------------ S3 ------------ */

// UploadLocalFile uploads localPath to s3://bucket/key, creating the bucket
// if needed.
func UploadLocalFile(ctx context.Context, client *config.S3Client, bucket, key, localPath string, verbose bool) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	created, err := client.EnsureBucket(ctx, bucket)
	if err != nil {
		return err
	}
	if created {
		log.Infow("created bucket", "bucket", bucket)
	}

	log.Infow("uploading", "file", localPath, "target", "s3://"+bucket+"/"+key)
	return client.UploadFile(ctx, bucket, key, file, NewProgressHook("upload", verbose))
}
