// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package negotiation

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/poll"
)

var log = logging.Logger("dataspace/negotiation")

type NegotiationService struct {
	http     config.ManagementHTTP
	mgmt     config.ManagementConfig
	provider config.ProviderConfig
	mode     string
	poller   *poll.Poller
}

func NewNegotiationService(_ context.Context, conf config.Config) (*NegotiationService, error) {
	conf = conf.WithDefaults()
	if conf.Management.BaseURL == "" {
		return nil, errors.New("invalid management config: missing base url")
	}
	return &NegotiationService{
		http:     config.NewHTTPCore(nil, conf.Management, conf.Log),
		mgmt:     conf.Management,
		provider: conf.Provider,
		mode:     conf.Negotiation.Mode,
		poller:   poll.New(poll.FromConfig(conf.Negotiation.Poll), nil),
	}, nil
}

// WithClock replaces the clock driving the polling loop.
func (s *NegotiationService) WithClock(clk clock.Clock) *NegotiationService {
	s.poller = poll.New(s.poller.Policy(), clk)
	return s
}

// Mode returns the configured negotiation mode (edr or contract).
func (s *NegotiationService) Mode() string { return s.mode }
