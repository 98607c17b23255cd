// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

var fixedNow = time.Unix(1700000000, 0)

func TestCleanFileType(t *testing.T) {
	cases := map[string]string{
		".JSON":   "json",
		"...":     "",
		" .aasx ": "aasx",
		"csv":     "csv",
		"":        "",
		". .Xml":  "xml",
	}
	for in, want := range cases {
		got := CleanFileType(in)
		assert.Equal(t, want, got, "clean(%q)", in)
		assert.Equal(t, got, CleanFileType(got), "idempotent for %q", in)
	}
}

func TestResolveFilename(t *testing.T) {
	assert.Equal(t, "report.csv", ResolveFilename(`attachment; filename="report.csv"`, "xml", fixedNow))
	assert.Equal(t, "report.csv", ResolveFilename(`attachment; filename=report.csv; size=10`, "", fixedNow))
	assert.Equal(t, "passwd", ResolveFilename(`attachment; filename="../../etc/passwd"`, "", fixedNow))
	assert.Equal(t, "my_report_1_.csv", ResolveFilename(`attachment; filename="my report(1).csv"`, "", fixedNow))

	assert.Equal(t, "download_1700000000.json", ResolveFilename("", "json", fixedNow))
	assert.Equal(t, "download_1700000000.json", ResolveFilename("inline", ".JSON", fixedNow))
	assert.Equal(t, "download_1700000000.dat", ResolveFilename("", "", fixedNow))
	assert.Equal(t, "download_1700000000.dat", ResolveFilename("", "...", fixedNow))
}

func newTestService(t *testing.T) *TransferService {
	t.Helper()
	svc, err := NewTransferService(context.Background(), config.Config{
		Transfer: config.TransferConfig{DownloadDir: t.TempDir()},
	})
	require.NoError(t, err)
	mock := clock.NewMock()
	mock.Set(fixedNow)
	return svc.WithClock(mock)
}

func TestFetchAndStoreHTTP(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	svc := newTestService(t)
	dest := filepath.Join(t.TempDir(), "out")
	addr := dataspace.ParseDataAddress(map[string]any{"endpoint": srv.URL + "/public/", "authorization": "token-1"})

	res, err := svc.FetchAndStore(context.Background(), FetchRequest{
		Address:      addr,
		FileTypeHint: "xml",
		Destination:  dest,
		Path:         "/items",
		Query:        map[string]string{"limit": "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "token-1", gotAuth)
	assert.Equal(t, "/public/items?limit=5", gotPath)

	assert.Equal(t, "report.csv", res.Filename)
	assert.Equal(t, filepath.Join(dest, "report.csv"), res.Path)
	assert.Equal(t, int64(8), res.Size)
	assert.Equal(t, "csv", res.Extension)
	assert.Equal(t, "text/csv", res.ContentType)

	b, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))
}

func TestFetchAndStoreLegacyAuthAndHint(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("authCode")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := newTestService(t)
	addr := dataspace.ParseDataAddress(map[string]any{"edc:endpoint": srv.URL, "edc:authCode": "code-1"})

	res, err := svc.FetchAndStore(context.Background(), FetchRequest{Address: addr, FileTypeHint: ".JSON"})
	require.NoError(t, err)
	assert.Equal(t, "code-1", gotAuth)
	assert.Equal(t, "download_1700000000.json", res.Filename)
	assert.Equal(t, svc.conf.DownloadDir, filepath.Dir(res.Path))
}

func TestFetchAndStoreNeverOverwrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path[1:]))
	}))
	defer srv.Close()

	svc := newTestService(t)
	fetch := func(asset string) *dataspace.DownloadResult {
		addr := dataspace.ParseDataAddress(map[string]any{"endpoint": srv.URL + "/" + asset, "authorization": "token-1"})
		res, err := svc.FetchAndStore(context.Background(), FetchRequest{Address: addr, FileTypeHint: "json"})
		require.NoError(t, err)
		return res
	}

	a, b, c := fetch("asset-A"), fetch("asset-B"), fetch("asset-C")
	assert.Equal(t, "download_1700000000.json", a.Filename)
	assert.Equal(t, "download_1700000000_1.json", b.Filename)
	assert.Equal(t, "download_1700000000_2.json", c.Filename)
	assert.Equal(t, "json", b.Extension)

	for want, res := range map[string]*dataspace.DownloadResult{"asset-A": a, "asset-B": b, "asset-C": c} {
		content, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	}

	entries, err := os.ReadDir(svc.conf.DownloadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp file left behind")
}

func TestFetchAndStoreRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("token expired"))
	}))
	defer srv.Close()

	svc := newTestService(t)
	addr := dataspace.ParseDataAddress(map[string]any{"endpoint": srv.URL, "authorization": "stale"})

	_, err := svc.FetchAndStore(context.Background(), FetchRequest{Address: addr})
	var fe *dataspace.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.Equal(t, "token expired", fe.Body)
	assert.False(t, dataspace.IsRetryable(err))

	entries, err := os.ReadDir(svc.conf.DownloadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written on failure")
}

func TestFetchAndStoreRejectsIncompleteAddress(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.FetchAndStore(context.Background(), FetchRequest{})
	assert.Error(t, err)

	_, err = svc.FetchAndStore(context.Background(), FetchRequest{
		Address: dataspace.ParseDataAddress(map[string]any{"endpoint": "http://dp.local"}),
	})
	var fe *dataspace.FetchError
	assert.ErrorAs(t, err, &fe)

	_, err = svc.FetchAndStore(context.Background(), FetchRequest{
		Address:     dataspace.ParseDataAddress(map[string]any{"endpoint": "http://dp.local", "authorization": "t"}),
		Destination: "s3://bucket/prefix",
	})
	assert.ErrorContains(t, err, "requires S3 credentials")
}

func TestStageRequiresS3(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Stage(context.Background(), StageRequest{LocalFile: "x"})
	assert.ErrorContains(t, err, "S3 credentials")
}
