// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package edr

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/lo"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/poll"
)

const (
	edrsResource      = "edrs"
	edrsQueryResource = "edrs/request"
)

// QueryEDRs performs POST {v}/edrs/request and returns the cached entries.
func (s *EDRService) QueryEDRs(ctx context.Context, q dataspace.QuerySpec) ([]dataspace.EDREntry, error) {
	var raw []map[string]any
	url := s.http.BuildURL(edrsQueryResource, "", nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, q.Payload(s.mgmt.EDCNamespace), &raw); err != nil {
		return nil, err
	}
	return lo.Map(raw, func(obj map[string]any, _ int) dataspace.EDREntry {
		return dataspace.ParseEDREntry(obj)
	}), nil
}

// AcquireEDR waits until the connector caches an EDR for agreementID, then
// resolves its data address. Errors while polling are tolerated until the
// timeout because the EDR store may not be provisioned yet.
func (s *EDRService) AcquireEDR(ctx context.Context, agreementID string) (*dataspace.EDREntry, *dataspace.DataAddress, error) {
	if agreementID == "" {
		return nil, nil, errors.New("agreement id not specified")
	}
	q := dataspace.QuerySpec{
		Limit:            50,
		FilterExpression: []dataspace.Criterion{dataspace.Eq("agreementId", agreementID)},
	}

	var lastErr error
	entry, stats, err := poll.Run(ctx, s.poller, func(ctx context.Context, attempt int) (poll.Outcome, string, dataspace.EDREntry, error) {
		entries, err := s.QueryEDRs(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return poll.Continue, "", dataspace.EDREntry{}, err
			}
			lastErr = err
			log.Warnw("edr query failed, retrying", "agreement", agreementID, "attempt", attempt, "error", err)
			return poll.Continue, "error", dataspace.EDREntry{}, nil
		}
		e, ok := lo.Find(entries, func(e dataspace.EDREntry) bool {
			return e.AgreementID == agreementID && e.TransferProcessID != ""
		})
		if !ok {
			log.Debugw("edr not available yet", "agreement", agreementID, "attempt", attempt, "entries", len(entries))
			return poll.Continue, "pending", dataspace.EDREntry{}, nil
		}
		return poll.Succeeded, "available", e, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		return nil, nil, &dataspace.EdrTimeoutError{
			AgreementID: agreementID,
			Attempts:    stats.Attempts,
			Elapsed:     stats.Elapsed,
			LastErr:     lastErr,
		}
	}
	if err != nil {
		return nil, nil, err
	}
	log.Infow("edr available", "agreement", agreementID, "transferProcess", entry.TransferProcessID, "polls", stats.Attempts)

	addr, err := s.DataAddress(ctx, entry.TransferProcessID)
	if err != nil {
		return &entry, nil, err
	}
	return &entry, addr, nil
}

// DataAddress performs GET {v}/edrs/{transferProcessId}/dataaddress,
// asking the connector to refresh an expired token.
func (s *EDRService) DataAddress(ctx context.Context, transferProcessID string) (*dataspace.DataAddress, error) {
	if transferProcessID == "" {
		return nil, errors.New("transfer process id not specified")
	}
	var raw map[string]any
	url := s.http.BuildURL(edrsResource, transferProcessID, nil) + "/dataaddress?auto_refresh=true"
	if _, err := config.DoJSON(ctx, s.http, http.MethodGet, url, nil, &raw); err != nil {
		return nil, err
	}
	addr := dataspace.ParseDataAddress(raw)
	if addr.Endpoint == "" && !addr.IsS3() {
		return nil, &dataspace.RemoteError{
			Op:         "GET " + edrsResource + "/dataaddress",
			URL:        url,
			StatusCode: http.StatusOK,
			Err:        errors.Join(dataspace.ErrMalformed, errors.New("data address has no endpoint")),
		}
	}
	return addr, nil
}
