// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

const bodyExcerpt = 512

// FetchAndStore downloads the data behind an EDR data address and stores it
// under Destination. A failed download is not resumed.
func (s *TransferService) FetchAndStore(ctx context.Context, req FetchRequest) (*dataspace.DownloadResult, error) {
	if req.Address == nil {
		return nil, errors.New("data address not specified")
	}
	dest := req.Destination
	if dest == "" {
		dest = s.conf.DownloadDir
	}
	pp, err := utils.ParsePath(dest)
	if err != nil {
		return nil, err
	}

	dir := pp.Path
	if pp.IsS3() {
		if s.s3 == nil {
			return nil, fmt.Errorf("destination %s requires S3 credentials", dest)
		}
		tmp, err := os.MkdirTemp("", "dsctl-fetch-*")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	var res *dataspace.DownloadResult
	if req.Address.IsS3() {
		res, err = s.fetchS3(ctx, req, dir)
	} else {
		res, err = s.fetchHTTP(ctx, req, dir)
	}
	if err != nil {
		return nil, err
	}

	if pp.IsS3() {
		key := path.Join(pp.Path, res.Filename)
		if err := utils.UploadLocalFile(ctx, s.s3, pp.Host, key, res.Path, s.conf.Verbose); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", res.Filename, err)
		}
		res.Path = pp.Join(res.Filename)
	}

	log.Infow("data stored", "destination", pp.String(), "path", res.Path, "size", utils.HumanSize(res.Size), "source", res.Source)
	return res, nil
}

func dataURL(endpoint, p string, query map[string]string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid data plane endpoint %q", endpoint)
	}
	if p = strings.TrimLeft(p, "/"); p != "" {
		u.Path = strings.TrimRight(u.Path, "/") + "/" + p
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (s *TransferService) fetchHTTP(ctx context.Context, req FetchRequest, dir string) (*dataspace.DownloadResult, error) {
	addr := req.Address
	endpoint, err := dataURL(addr.Endpoint, req.Path, req.Query)
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: addr.Endpoint, Err: err}
	}
	if addr.Authorization == "" {
		return nil, &dataspace.FetchError{Endpoint: endpoint, Err: errors.New("data address carries no authorization token")}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: endpoint, Err: err}
	}
	httpReq.Header.Set(addr.AuthKey, addr.Authorization)

	log.Infow("fetching data", "endpoint", endpoint, "authHeader", addr.AuthKey)
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerpt+1))
		return nil, &dataspace.FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       dataspace.Excerpt(b, bodyExcerpt),
		}
	}

	name := ResolveFilename(resp.Header.Get("Content-Disposition"), req.FileTypeHint, s.clock.Now())
	hook := utils.NewProgressHook("download", s.conf.Verbose)
	if hook != nil {
		hook.OnStart(name, resp.ContentLength)
	}

	start := time.Now()
	target, n, err := utils.WriteFileAtomic(dir, name, config.ProgressReader(resp.Body, name, resp.ContentLength, hook))
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: endpoint, Err: err}
	}
	if hook != nil {
		hook.OnDone(name, n, time.Since(start))
	}

	return &dataspace.DownloadResult{
		Filename:    filepath.Base(target),
		Size:        n,
		Path:        target,
		Extension:   strings.TrimPrefix(filepath.Ext(name), "."),
		ContentType: resp.Header.Get("Content-Type"),
		Source:      endpoint,
	}, nil
}

// fetchS3 reads an AmazonS3 data address with the credentials it carries,
// falling back to the configured ones.
func (s *TransferService) fetchS3(ctx context.Context, req FetchRequest, dir string) (*dataspace.DownloadResult, error) {
	addr := req.Address
	source := "s3://" + addr.Bucket() + "/" + addr.Key()
	if addr.Bucket() == "" || addr.Key() == "" {
		return nil, &dataspace.FetchError{Endpoint: source, Err: errors.New("data address has no bucket or key")}
	}

	creds := config.S3Config{
		AccessKey:   addr.AccessKeyID(),
		SecretKey:   addr.SecretAccessKey(),
		AccessToken: addr.SessionToken(),
		Region:      addr.Region(),
		EndpointURL: addr.EndpointOverride(),
	}
	if !creds.Configured() {
		creds.AccessKey, creds.SecretKey, creds.AccessToken = s.s3conf.AccessKey, s.s3conf.SecretKey, s.s3conf.AccessToken
		if creds.EndpointURL == "" {
			creds.EndpointURL = s.s3conf.EndpointURL
		}
	}
	client, err := config.NewS3Client(ctx, creds)
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: source, Err: err}
	}

	info, err := client.HeadObject(ctx, addr.Bucket(), addr.Key())
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: source, Err: err}
	}
	name := ResolveFilename(info.ContentDisposition, req.FileTypeHint, s.clock.Now())

	pr, pw := io.Pipe()
	go func() {
		_, err := client.GetObject(ctx, addr.Bucket(), addr.Key(), pw, utils.NewProgressHook("download", s.conf.Verbose))
		pw.CloseWithError(err)
	}()
	target, n, err := utils.WriteFileAtomic(dir, name, pr)
	_ = pr.Close()
	if err != nil {
		return nil, &dataspace.FetchError{Endpoint: source, Err: err}
	}

	return &dataspace.DownloadResult{
		Filename:    filepath.Base(target),
		Size:        n,
		Path:        target,
		Extension:   strings.TrimPrefix(filepath.Ext(name), "."),
		ContentType: info.ContentType,
		Source:      source,
	}, nil
}
