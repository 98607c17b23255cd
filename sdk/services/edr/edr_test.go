// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package edr_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/edr"
)

// fakeEDRStore serves queries from pages[i] on the i-th call; a nil page
// answers 503.
type fakeEDRStore struct {
	mu        sync.Mutex
	pages     [][]map[string]any
	queries   int
	lastQuery map[string]any
	addrPath  string
	autoRef   string
	transfer  map[string]any
}

func (f *fakeEDRStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/data/v3/edrs/request":
		_ = json.NewDecoder(r.Body).Decode(&f.lastQuery)
		page := f.pages[min(f.queries, len(f.pages)-1)]
		f.queries++
		if page == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message": "edr store not ready"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(page)

	case r.Method == http.MethodGet && r.URL.Path == "/data/v3/edrs/tp-1/dataaddress":
		f.addrPath = r.URL.Path
		f.autoRef = r.URL.Query().Get("auto_refresh")
		_, _ = w.Write([]byte(`{
			"@type": "DataAddress",
			"endpoint": "http://provider-dataplane/api/public",
			"authorization": "eyJ.token",
			"type": "https://w3id.org/idsa/v4.1/HTTP"
		}`))

	case r.Method == http.MethodPost && r.URL.Path == "/data/v3/transferprocesses":
		_ = json.NewDecoder(r.Body).Decode(&f.transfer)
		_, _ = w.Write([]byte(`{"@id": "tp-9"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func entry(agreement, tp string) map[string]any {
	return map[string]any{
		"@id":               tp,
		"transferProcessId": tp,
		"agreementId":       agreement,
		"assetId":           "asset-1",
		"providerId":        "BPNLPROVIDER",
		"createdAt":         float64(1700000000000),
	}
}

func newService(t *testing.T, store *fakeEDRStore, poll config.PollConfig) *edr.EDRService {
	t.Helper()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	svc, err := edr.NewEDRService(context.Background(), config.Config{
		Management: config.ManagementConfig{BaseURL: srv.URL, APIKey: "secret"},
		Provider:   config.ProviderConfig{ProtocolURL: "http://provider/api/v1/dsp", BPN: "BPNLPROVIDER"},
		EDR:        config.EDRConfig{Poll: poll},
	})
	require.NoError(t, err)
	return svc
}

var fastPoll = config.PollConfig{Interval: 5 * time.Millisecond, Timeout: time.Second}

func TestAcquireEDR(t *testing.T) {
	store := &fakeEDRStore{pages: [][]map[string]any{
		{},
		{entry("agr-other", "tp-0")},
		{entry("agr-other", "tp-0"), entry("agr-1", "tp-1")},
	}}
	svc := newService(t, store, fastPoll)

	e, addr, err := svc.AcquireEDR(context.Background(), "agr-1")
	require.NoError(t, err)
	assert.Equal(t, 3, store.queries)
	assert.Equal(t, "tp-1", e.TransferProcessID)
	assert.Equal(t, "agr-1", e.AgreementID)
	assert.Equal(t, int64(1700000000000), e.CreatedAt)

	assert.Equal(t, "http://provider-dataplane/api/public", addr.Endpoint)
	assert.Equal(t, "eyJ.token", addr.Authorization)
	assert.Equal(t, "Authorization", addr.AuthKey)
	assert.Equal(t, "true", store.autoRef)

	filter := store.lastQuery["filterExpression"].([]any)[0].(map[string]any)
	assert.Equal(t, "agreementId", filter["operandLeft"])
	assert.Equal(t, "agr-1", filter["operandRight"])
	assert.Equal(t, dataspace.TypeQuerySpec, store.lastQuery["@type"])
}

func TestAcquireEDRToleratesRemoteErrors(t *testing.T) {
	store := &fakeEDRStore{pages: [][]map[string]any{nil, nil, {entry("agr-1", "tp-1")}}}
	svc := newService(t, store, fastPoll)

	e, _, err := svc.AcquireEDR(context.Background(), "agr-1")
	require.NoError(t, err)
	assert.Equal(t, "tp-1", e.TransferProcessID)
	assert.Equal(t, 3, store.queries)
}

func TestAcquireEDRTimeout(t *testing.T) {
	store := &fakeEDRStore{pages: [][]map[string]any{{entry("agr-other", "tp-0")}, nil}}
	svc := newService(t, store, config.PollConfig{Interval: 10 * time.Millisecond, Timeout: 40 * time.Millisecond})

	_, _, err := svc.AcquireEDR(context.Background(), "agr-1")
	var timeout *dataspace.EdrTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "agr-1", timeout.AgreementID)
	assert.Equal(t, store.queries, timeout.Attempts)
	assert.GreaterOrEqual(t, timeout.Attempts, 2)
	assert.LessOrEqual(t, timeout.Attempts, 5)

	var re *dataspace.RemoteError
	require.ErrorAs(t, err, &re, "last poll error is carried")
	assert.Equal(t, http.StatusServiceUnavailable, re.StatusCode)
	assert.True(t, dataspace.IsRetryable(err))
}

func TestAcquireEDRTimeoutOnHangingConnector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	svc, err := edr.NewEDRService(context.Background(), config.Config{
		Management: config.ManagementConfig{BaseURL: srv.URL, APIKey: "secret"},
		Provider:   config.ProviderConfig{ProtocolURL: "http://provider/api/v1/dsp", BPN: "BPNLPROVIDER"},
		EDR:        config.EDRConfig{Poll: config.PollConfig{Interval: 10 * time.Millisecond, Timeout: 100 * time.Millisecond}},
	})
	require.NoError(t, err)

	start := time.Now()
	_, _, err = svc.AcquireEDR(context.Background(), "agr-1")
	var timeout *dataspace.EdrTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "agr-1", timeout.AgreementID)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAcquireEDRRequiresAgreement(t *testing.T) {
	svc := newService(t, &fakeEDRStore{}, fastPoll)
	_, _, err := svc.AcquireEDR(context.Background(), "")
	assert.Error(t, err)
}

func TestStartTransfer(t *testing.T) {
	store := &fakeEDRStore{}
	svc := newService(t, store, fastPoll)

	id, err := svc.StartTransfer(context.Background(), edr.TransferRequest{AgreementID: "agr-1", AssetID: "asset-1"})
	require.NoError(t, err)
	assert.Equal(t, "tp-9", id)
	assert.Equal(t, dataspace.TypeTransferRequest, store.transfer["@type"])
	assert.Equal(t, "agr-1", store.transfer["contractId"])
	assert.Equal(t, config.DefaultTransferType, store.transfer["transferType"])
	assert.Equal(t, "http://provider/api/v1/dsp", store.transfer["counterPartyAddress"])
	assert.Equal(t, map[string]any{"type": "HttpProxy"}, store.transfer["dataDestination"])
}
