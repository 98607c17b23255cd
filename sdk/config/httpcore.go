// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	logging "github.com/ipfs/go-log/v2"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

var log = logging.Logger("dataspace/http")

// APIKeyHeader carries the Management API key.
const APIKeyHeader = "X-Api-Key"

// ManagementHTTP is the transport every service uses to reach the local
// connector's Management API.
type ManagementHTTP interface {
	BuildURL(resource, id string, params map[string]string) string
	Do(ctx context.Context, method, url string, data []byte) ([]byte, int, error)
}

type httpCore struct {
	httpClient *http.Client
	mgmt       ManagementConfig
	printLimit int
}

func NewHTTPCore(httpClient *http.Client, mgmt ManagementConfig, logConf LogConfig) ManagementHTTP {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpCore{httpClient: httpClient, mgmt: mgmt, printLimit: logConf.ResponsePrintLimit}
}

// BuildURL returns {base}{path}/{version}/{resource}[/{id}][?params].
func (h *httpCore) BuildURL(resource, id string, params map[string]string) string {
	base := strings.TrimRight(h.mgmt.BaseURL, "/")
	if p := strings.Trim(h.mgmt.Path, "/"); p != "" {
		base += "/" + p
	}
	if v := strings.Trim(h.mgmt.APIVersion, "/"); v != "" {
		base += "/" + v
	}
	base += "/" + strings.Trim(resource, "/")
	if id != "" {
		base += "/" + url.PathEscape(id)
	}
	q := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		q.Set(k, v)
	}
	if len(q) > 0 {
		base += "?" + q.Encode()
	}
	return base
}

// Do sends the request with the API key. Any non-2xx status is returned as a
// *dataspace.RemoteError together with the body.
func (h *httpCore) Do(ctx context.Context, method, rawURL string, data []byte) ([]byte, int, error) {
	op := method + " " + pathOf(rawURL)

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, 0, &dataspace.RemoteError{Op: op, URL: rawURL, Err: err}
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if key := h.mgmt.APIKey; key != "" {
		req.Header.Set(APIKeyHeader, key)
	}

	log.Debugw("management request", "op", op, "payload", dataspace.Excerpt(data, h.printLimit))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, 0, &dataspace.RemoteError{Op: op, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	b, rerr := io.ReadAll(resp.Body)
	log.Debugw("management response", "op", op, "status", resp.StatusCode, "body", dataspace.Excerpt(b, h.printLimit))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return b, resp.StatusCode, dataspace.NewRemoteError(op, rawURL, resp.StatusCode, b)
	}
	if rerr != nil {
		return b, resp.StatusCode, &dataspace.RemoteError{Op: op, URL: rawURL, StatusCode: resp.StatusCode, Err: rerr}
	}
	return b, resp.StatusCode, nil
}

// DoJSON marshals in (when not nil), performs the call and decodes the
// response into out (when not nil and the body is not empty).
func DoJSON(ctx context.Context, h ManagementHTTP, method, rawURL string, in, out any) (int, error) {
	var data []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		data = b
	}
	body, status, err := h.Do(ctx, method, rawURL, data)
	if err != nil {
		return status, err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return status, &dataspace.RemoteError{
			Op:         method + " " + pathOf(rawURL),
			URL:        rawURL,
			StatusCode: status,
			Body:       body,
			Err:        fmt.Errorf("%w: %v", dataspace.ErrMalformed, err),
		}
	}
	return status, nil
}

func pathOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return u.Path
	}
	return rawURL
}
