// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package edr

import (
	"context"
	"errors"
	"net/http"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

const transferResource = "transferprocesses"

// StartTransfer performs POST {v}/transferprocesses and returns the transfer
// process id. Needed only when the negotiation ran in contract mode.
func (s *EDRService) StartTransfer(ctx context.Context, req TransferRequest) (string, error) {
	if req.CounterPartyAddress == "" {
		req.CounterPartyAddress = s.provider.ProtocolURL
	}
	if req.CounterPartyID == "" {
		req.CounterPartyID = s.provider.BPN
	}
	if req.AgreementID == "" || req.AssetID == "" {
		return "", errors.New("agreement id and asset id are required")
	}

	body := map[string]any{
		"@context":            dataspace.EDCContext(s.mgmt.EDCNamespace),
		"@type":               dataspace.TypeTransferRequest,
		"assetId":             req.AssetID,
		"contractId":          req.AgreementID,
		"counterPartyAddress": req.CounterPartyAddress,
		"connectorId":         req.CounterPartyID,
		"protocol":            s.mgmt.Protocol,
		"transferType":        s.transferType,
		"dataDestination":     map[string]any{"type": "HttpProxy"},
	}

	var raw map[string]any
	url := s.http.BuildURL(transferResource, "", nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, body, &raw); err != nil {
		return "", err
	}
	id := dataspace.ID(raw)
	if id == "" {
		return "", &dataspace.RemoteError{
			Op:         "POST " + transferResource,
			URL:        url,
			StatusCode: http.StatusOK,
			Err:        errors.Join(dataspace.ErrMalformed, errors.New("transfer process id missing")),
		}
	}
	log.Infow("transfer started", "id", id, "agreement", req.AgreementID, "asset", req.AssetID, "type", s.transferType)
	return id, nil
}
