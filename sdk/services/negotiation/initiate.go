// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package negotiation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

const (
	edrsResource         = "edrs"
	negotiationsResource = "contractnegotiations"
)

func (s *NegotiationService) contractRequest(req NegotiateRequest) (map[string]any, error) {
	if req.CounterPartyAddress == "" {
		req.CounterPartyAddress = s.provider.ProtocolURL
	}
	if req.CounterPartyID == "" {
		req.CounterPartyID = s.provider.BPN
	}
	switch {
	case req.AssetID == "":
		return nil, errors.New("asset id not specified")
	case req.Policy.ID == "":
		return nil, errors.New("policy id not specified")
	case req.CounterPartyAddress == "" || req.CounterPartyID == "":
		return nil, errors.New("provider protocol url and party id are required")
	}
	return map[string]any{
		"@context":            dataspace.NegotiationContext(s.mgmt.EDCNamespace),
		"@type":               dataspace.TypeContractRequest,
		"counterPartyAddress": req.CounterPartyAddress,
		"counterPartyId":      req.CounterPartyID,
		"protocol":            s.mgmt.Protocol,
		"policy":              req.Policy.OfferFor(req.AssetID, req.CounterPartyID),
	}, nil
}

// Initiate starts a negotiation. In edr mode the request goes to the EDR
// endpoint, so the connector opens the transfer itself once the agreement is
// finalized; in contract mode only the contract is negotiated.
func (s *NegotiationService) Initiate(ctx context.Context, req NegotiateRequest) (*dataspace.NegotiationHandle, error) {
	body, err := s.contractRequest(req)
	if err != nil {
		return nil, err
	}
	resource := edrsResource
	if s.mode == config.NegotiationModeContract {
		resource = negotiationsResource
	}

	var raw map[string]any
	url := s.http.BuildURL(resource, "", nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, body, &raw); err != nil {
		return nil, err
	}
	id := dataspace.ID(raw)
	if id == "" {
		return nil, &dataspace.RemoteError{
			Op:         "POST " + resource,
			URL:        url,
			StatusCode: http.StatusOK,
			Err:        errors.Join(dataspace.ErrMalformed, errors.New("negotiation id missing")),
		}
	}

	handle := &dataspace.NegotiationHandle{ID: id, CreatedAt: time.Now()}
	if v, ok := dataspace.Lookup(raw, "createdAt", "edc:createdAt", dataspace.NamespaceEDC+"createdAt"); ok {
		if ms, ok := v.(float64); ok && ms > 0 {
			handle.CreatedAt = time.UnixMilli(int64(ms))
		}
	}
	log.Infow("negotiation started", "id", id, "asset", req.AssetID, "policy", req.Policy.ID, "mode", s.mode)
	return handle, nil
}
