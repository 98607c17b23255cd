// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package edr

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/poll"
)

var log = logging.Logger("dataspace/edr")

type EDRService struct {
	http         config.ManagementHTTP
	mgmt         config.ManagementConfig
	provider     config.ProviderConfig
	transferType string
	poller       *poll.Poller
}

func NewEDRService(_ context.Context, conf config.Config) (*EDRService, error) {
	conf = conf.WithDefaults()
	if conf.Management.BaseURL == "" {
		return nil, errors.New("invalid management config: missing base url")
	}
	return &EDRService{
		http:         config.NewHTTPCore(nil, conf.Management, conf.Log),
		mgmt:         conf.Management,
		provider:     conf.Provider,
		transferType: conf.EDR.TransferType,
		poller:       poll.New(poll.FromConfig(conf.EDR.Poll), nil),
	}, nil
}

// WithClock replaces the clock driving the polling loop.
func (s *EDRService) WithClock(clk clock.Clock) *EDRService {
	s.poller = poll.New(s.poller.Policy(), clk)
	return s
}
