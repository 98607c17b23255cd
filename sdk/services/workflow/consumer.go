// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package workflow chains the consumer stages: catalog lookup, policy
// selection, contract negotiation, EDR acquisition and data fetch. A run
// keeps no state beyond its own call; if the process stops mid-negotiation
// the workflow must be started again from the catalog.
package workflow

import (
	"context"

	logging "github.com/ipfs/go-log/v2"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/edr"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/negotiation"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/transfer"
)

var log = logging.Logger("dataspace/workflow")

type Consumer struct {
	catalog     *catalog.CatalogService
	negotiation *negotiation.NegotiationService
	edr         *edr.EDRService
	transfer    *transfer.TransferService
	conf        config.WorkflowConfig
	mode        string
}

func NewConsumer(ctx context.Context, conf config.Config) (*Consumer, error) {
	conf = conf.WithDefaults()

	catalogSvc, err := catalog.NewCatalogService(ctx, conf)
	if err != nil {
		return nil, err
	}
	negotiationSvc, err := negotiation.NewNegotiationService(ctx, conf)
	if err != nil {
		return nil, err
	}
	edrSvc, err := edr.NewEDRService(ctx, conf)
	if err != nil {
		return nil, err
	}
	transferSvc, err := transfer.NewTransferService(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		catalog:     catalogSvc,
		negotiation: negotiationSvc,
		edr:         edrSvc,
		transfer:    transferSvc,
		conf:        conf.Workflow,
		mode:        conf.Negotiation.Mode,
	}, nil
}

// Catalog exposes the catalog service used by the workflow.
func (c *Consumer) Catalog() *catalog.CatalogService { return c.catalog }
