// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// FederatedQuery fans the query out to every connector and concatenates the
// datasets in connector order. Each connector is asked for offset+limit
// datasets starting at 0; the caller's window is applied afterwards, so the
// result is not globally sorted. Failing connectors are logged and reported
// in the result, never returned as an error.
func (s *CatalogService) FederatedQuery(ctx context.Context, req FederatedRequest) (*FederatedResult, error) {
	connectors := req.Connectors
	if len(connectors) == 0 {
		connectors = s.federation.Connectors
	}
	if len(connectors) == 0 {
		return nil, fmt.Errorf("no federated connectors configured")
	}

	offset := max(req.Query.Offset, 0)
	limit := req.Query.Limit
	if limit <= 0 {
		limit = s.federation.DefaultLimit
	}

	perConnector := req.Query
	perConnector.Offset = 0
	perConnector.Limit = offset + limit

	pages := make([][]dataspace.Dataset, len(connectors))
	failures := make([]*ConnectorFailure, len(connectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range connectors {
		g.Go(func() error {
			log.Infow("querying federated connector", "bpn", c.BPN, "url", c.ProtocolURL)
			cat, err := s.RequestCatalog(gctx, CatalogRequest{
				ProviderRef: ProviderRef{ProtocolURL: c.ProtocolURL, PartyID: c.BPN},
				Query:       perConnector,
			})
			if err != nil {
				log.Warnw("federated connector failed", "bpn", c.BPN, "url", c.ProtocolURL, "error", err)
				failures[i] = &ConnectorFailure{
					BPN:         c.BPN,
					ProtocolURL: c.ProtocolURL,
					Error:       err.Error(),
					err:         fmt.Errorf("connector %s: %w", c.BPN, err),
				}
				return nil
			}
			pages[i] = cat.Datasets
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := lo.Flatten(pages)
	res := &FederatedResult{
		Datasets: window(all, offset, limit),
		Failures: lo.FilterMap(failures, func(f *ConnectorFailure, _ int) (ConnectorFailure, bool) {
			if f == nil {
				return ConnectorFailure{}, false
			}
			return *f, true
		}),
		Total: len(all),
	}
	return res, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
