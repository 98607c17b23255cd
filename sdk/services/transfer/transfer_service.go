// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"fmt"
	"net/http"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

var log = logging.Logger("dataspace/transfer")

type TransferService struct {
	client *http.Client
	conf   config.TransferConfig
	s3conf config.S3Config
	// s3 is the client for s3:// destinations and staging; nil without credentials.
	s3    *config.S3Client
	clock clock.Clock
}

func NewTransferService(ctx context.Context, conf config.Config) (*TransferService, error) {
	conf = conf.WithDefaults()

	svc := &TransferService{
		client: &http.Client{Timeout: conf.Transfer.FetchTimeout},
		conf:   conf.Transfer,
		s3conf: conf.S3,
		clock:  clock.New(),
	}
	if conf.S3.Configured() {
		s3c, err := config.NewS3Client(ctx, conf.S3)
		if err != nil {
			return nil, fmt.Errorf("S3 init failed: %w", err)
		}
		svc.s3 = s3c
	}
	return svc, nil
}

// WithClock replaces the clock used for generated file names.
func (s *TransferService) WithClock(clk clock.Clock) *TransferService {
	s.clock = clk
	return s
}

// WithHTTPClient replaces the client used against provider data planes.
func (s *TransferService) WithHTTPClient(c *http.Client) *TransferService {
	s.client = c
	return s
}
