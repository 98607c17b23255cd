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
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/poll"
)

// States not listed here (REQUESTED, OFFERED, AGREED, VERIFIED, ...) keep polling.
var negotiationStates = poll.Table{
	"FINALIZED":  poll.Succeeded,
	"TERMINATED": poll.Failed,
	"ERROR":      poll.Failed,
}

// Await polls the negotiation until it is finalized and returns the
// contract agreement id.
func (s *NegotiationService) Await(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.New("negotiation id not specified")
	}

	neg, stats, err := poll.Run(ctx, s.poller, func(ctx context.Context, attempt int) (poll.Outcome, string, dataspace.Negotiation, error) {
		n, err := s.Get(ctx, id)
		if err != nil {
			return poll.Continue, "", dataspace.Negotiation{}, err
		}
		log.Debugw("negotiation state", "id", id, "attempt", attempt, "state", n.State)
		return negotiationStates.Classify(n.State), n.State, *n, nil
	})

	switch {
	case errors.Is(err, poll.ErrTimeout):
		return "", &dataspace.NegotiationTimeoutError{
			NegotiationID: id,
			LastState:     stats.LastState,
			Attempts:      stats.Attempts,
			Elapsed:       stats.Elapsed,
		}
	case errors.Is(err, poll.ErrFailed):
		return "", &dataspace.NegotiationFailedError{
			NegotiationID: id,
			State:         poll.Normalize(neg.State),
			Reason:        neg.ErrorDetail,
		}
	case err != nil:
		return "", err
	}

	agreementID := neg.ContractAgreementID
	if agreementID == "" {
		if agreementID, err = s.agreementID(ctx, id); err != nil {
			return "", err
		}
	}
	log.Infow("negotiation finalized", "id", id, "agreement", agreementID, "polls", stats.Attempts, "elapsed", stats.Elapsed)
	return agreementID, nil
}

func (s *NegotiationService) agreementID(ctx context.Context, id string) (string, error) {
	var raw map[string]any
	url := s.http.BuildURL(negotiationsResource, id, nil) + "/agreement"
	if _, err := config.DoJSON(ctx, s.http, http.MethodGet, url, nil, &raw); err != nil {
		return "", err
	}
	if agreementID := dataspace.ID(raw); agreementID != "" {
		return agreementID, nil
	}
	return "", &dataspace.RemoteError{
		Op:         "GET " + negotiationsResource + "/agreement",
		URL:        url,
		StatusCode: http.StatusOK,
		Err:        errors.Join(dataspace.ErrMalformed, errors.New("agreement id missing")),
	}
}

// Negotiate runs Initiate and Await.
func (s *NegotiationService) Negotiate(ctx context.Context, req NegotiateRequest) (string, error) {
	handle, err := s.Initiate(ctx, req)
	if err != nil {
		return "", err
	}
	return s.Await(ctx, handle.ID)
}
