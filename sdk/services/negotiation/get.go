// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package negotiation

import (
	"context"
	"errors"
	"net/http"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// Get performs GET {v}/contractnegotiations/{id}
func (s *NegotiationService) Get(ctx context.Context, id string) (*dataspace.Negotiation, error) {
	if id == "" {
		return nil, errors.New("negotiation id not specified")
	}
	var raw map[string]any
	url := s.http.BuildURL(negotiationsResource, id, nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodGet, url, nil, &raw); err != nil {
		return nil, err
	}
	n := dataspace.ParseNegotiation(raw)
	if n.ID == "" {
		n.ID = id
	}
	return &n, nil
}

// Terminate performs POST {v}/contractnegotiations/{id}/terminate
func (s *NegotiationService) Terminate(ctx context.Context, req TerminateRequest) error {
	if req.ID == "" {
		return errors.New("negotiation id not specified")
	}
	reason := req.Reason
	if reason == "" {
		reason = "terminated by consumer"
	}
	body := map[string]any{
		"@context": dataspace.EDCContext(s.mgmt.EDCNamespace),
		"@type":    "TerminateNegotiation",
		"@id":      req.ID,
		"reason":   reason,
	}
	url := s.http.BuildURL(negotiationsResource, req.ID, nil) + "/terminate"
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, body, nil); err != nil {
		return err
	}
	log.Infow("negotiation terminated", "id", req.ID, "reason", reason)
	return nil
}
