// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/workflow"
)

// connector fakes the consumer connector, the provider catalog it relays and
// the provider data plane on a single server. Every negotiation walks
// through states; the agreement id is derived from the negotiated asset.
type connector struct {
	url    string
	states []string

	mu        sync.Mutex
	gets      map[string]int
	negAsset  map[string]string
	transfers int
}

func (c *connector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	path := r.URL.Path

	switch {
	case path == "/data/v3/catalog/request":
		_ = json.NewEncoder(w).Encode(map[string]any{"dcat:dataset": []any{
			map[string]any{
				"@id":            "asset-1",
				"odrl:hasPolicy": []any{map[string]any{"@id": "offer-1"}, map[string]any{"@id": "offer-2"}},
				"tx:fileType":    "JSON",
			},
			map[string]any{"@id": "asset-2", "odrl:hasPolicy": map[string]any{"@id": "offer-3"}},
		}})

	case path == "/data/v3/edrs" || path == "/data/v3/contractnegotiations":
		policy := body["policy"].(map[string]any)
		asset := policy["odrl:target"].(map[string]any)["@id"].(string)
		id := "neg-" + asset
		c.negAsset[id] = asset
		_, _ = w.Write([]byte(`{"@id": "` + id + `"}`))

	case strings.HasPrefix(path, "/data/v3/contractnegotiations/neg-"):
		id := strings.TrimPrefix(path, "/data/v3/contractnegotiations/")
		state := c.states[min(c.gets[id], len(c.states)-1)]
		c.gets[id]++
		resp := map[string]any{"@id": id, "state": state}
		if state == "FINALIZED" {
			resp["contractAgreementId"] = "agr-" + c.negAsset[id]
		}
		if state == "TERMINATED" {
			resp["errorDetail"] = "policy rejected"
		}
		_ = json.NewEncoder(w).Encode(resp)

	case path == "/data/v3/transferprocesses":
		c.transfers++
		_, _ = w.Write([]byte(`{"@id": "tp-contract"}`))

	case path == "/data/v3/edrs/request":
		filter := body["filterExpression"].([]any)[0].(map[string]any)
		agreement := filter["operandRight"].(string)
		tp := "tp-" + strings.TrimPrefix(agreement, "agr-")
		_ = json.NewEncoder(w).Encode([]any{
			map[string]any{"transferProcessId": "tp-unrelated", "agreementId": "agr-unrelated"},
			map[string]any{"transferProcessId": tp, "agreementId": agreement},
		})

	case strings.HasPrefix(path, "/data/v3/edrs/tp-") && strings.HasSuffix(path, "/dataaddress"):
		tp := strings.TrimSuffix(strings.TrimPrefix(path, "/data/v3/edrs/"), "/dataaddress")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"endpoint":      c.url + "/public/" + tp,
			"authorization": "token-" + tp,
		})

	case strings.HasPrefix(path, "/public/"):
		tp := strings.TrimPrefix(path, "/public/")
		if r.Header.Get("Authorization") != "token-"+tp {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"payload": "` + tp + `"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newConsumer(t *testing.T, states []string, mutate func(*config.Config)) (*workflow.Consumer, *connector, string) {
	t.Helper()
	c := &connector{states: states, gets: map[string]int{}, negAsset: map[string]string{}}
	srv := httptest.NewServer(c)
	t.Cleanup(srv.Close)
	c.url = srv.URL

	dir := t.TempDir()
	conf := config.Config{
		Management: config.ManagementConfig{BaseURL: srv.URL, APIKey: "secret"},
		Provider:   config.ProviderConfig{BPN: "BPNLPROVIDER"},
		Negotiation: config.NegotiationConfig{
			Poll: config.PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Second},
		},
		EDR:      config.EDRConfig{Poll: config.PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Second}},
		Transfer: config.TransferConfig{DownloadDir: dir},
	}
	if mutate != nil {
		mutate(&conf)
	}
	consumer, err := workflow.NewConsumer(context.Background(), conf)
	require.NoError(t, err)
	return consumer, c, dir
}

func TestRun(t *testing.T) {
	consumer, c, dir := newConsumer(t, []string{"REQUESTED", "AGREED", "FINALIZED"}, nil)

	res, err := consumer.Run(context.Background(), workflow.Request{AssetID: "asset-1"})
	require.NoError(t, err)

	assert.Equal(t, "offer-1", res.PolicyID, "first policy in document order")
	assert.Equal(t, "JSON", res.FileTypeHint)
	assert.Equal(t, "neg-asset-1", res.NegotiationID)
	assert.Equal(t, "agr-asset-1", res.AgreementID)
	assert.Equal(t, "tp-asset-1", res.TransferProcessID)
	assert.Equal(t, 3, c.gets["neg-asset-1"])
	assert.Zero(t, c.transfers)

	require.NotNil(t, res.Download)
	assert.Regexp(t, `^download_\d+\.json$`, res.Download.Filename)
	assert.Equal(t, dir, strings.TrimSuffix(res.Download.Path, "/"+res.Download.Filename))
	b, err := os.ReadFile(res.Download.Path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload": "tp-asset-1"}`, string(b))

	for _, stage := range []workflow.Stage{workflow.StageCatalog, workflow.StagePolicy, workflow.StageNegotiation, workflow.StageEDR, workflow.StageFetch} {
		assert.Contains(t, res.Durations, stage)
	}
}

func TestRunContractMode(t *testing.T) {
	consumer, c, _ := newConsumer(t, []string{"FINALIZED"}, func(conf *config.Config) {
		conf.Negotiation.Mode = config.NegotiationModeContract
	})

	res, err := consumer.Run(context.Background(), workflow.Request{AssetID: "asset-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.transfers)
	assert.Regexp(t, `^download_\d+\.dat$`, res.Download.Filename)
}

func TestRunStageErrors(t *testing.T) {
	consumer, _, _ := newConsumer(t, []string{"REQUESTED", "TERMINATED"}, nil)

	res, err := consumer.Run(context.Background(), workflow.Request{AssetID: "asset-1"})
	var se *workflow.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, workflow.StageNegotiation, se.Stage)
	assert.Equal(t, "asset-1", se.AssetID)
	assert.Equal(t, "neg-asset-1", res.NegotiationID, "partial result kept")

	var failed *dataspace.NegotiationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "policy rejected", failed.Reason)

	_, err = consumer.Run(context.Background(), workflow.Request{AssetID: "missing"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, workflow.StageCatalog, se.Stage)
	var nf *dataspace.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRunDeadline(t *testing.T) {
	consumer, _, _ := newConsumer(t, []string{"REQUESTED"}, func(conf *config.Config) {
		conf.Workflow.Deadline = 50 * time.Millisecond
	})

	_, err := consumer.Run(context.Background(), workflow.Request{AssetID: "asset-1"})
	var se *workflow.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, workflow.StageNegotiation, se.Stage)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err.Error())
}

func TestRunBatch(t *testing.T) {
	consumer, _, dir := newConsumer(t, []string{"FINALIZED"}, func(conf *config.Config) {
		conf.Workflow.Parallelism = 2
	})

	items, err := consumer.RunBatch(context.Background(), []workflow.Request{
		{AssetID: "asset-1"},
		{AssetID: "missing"},
		{AssetID: "asset-2"},
		{AssetID: "asset-1"},
	})
	require.Error(t, err)
	require.Len(t, items, 4)

	assert.NoError(t, items[0].Err)
	assert.Equal(t, "agr-asset-1", items[0].Result.AgreementID)
	assert.Error(t, items[1].Err)
	assert.NoError(t, items[2].Err)
	assert.Equal(t, "agr-asset-2", items[2].Result.AgreementID)
	assert.NoError(t, items[3].Err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)

	paths := map[string]bool{}
	for _, i := range []int{0, 2, 3} {
		res := items[i].Result
		require.NotNil(t, res.Download)
		assert.Equal(t, dir, filepath.Dir(res.Download.Path))
		paths[res.Download.Path] = true

		content, err := os.ReadFile(res.Download.Path)
		require.NoError(t, err)
		assert.Equal(t, `{"payload": "tp-`+items[i].Request.AssetID+`"}`, string(content))
	}
	assert.Len(t, paths, 3, "every download lands in its own file")
}
