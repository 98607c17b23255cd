// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// ResolveDataset returns the dataset whose @id equals AssetID. The request
// carries an id filter; when the connector ignores it and returns a full
// page without the asset, the next page is requested, up to MaxPages.
func (s *CatalogService) ResolveDataset(ctx context.Context, req ResolveRequest) (*dataspace.Dataset, error) {
	if req.AssetID == "" {
		return nil, errors.New("asset id is required")
	}
	ref, err := s.providerRef(req.ProviderRef)
	if err != nil {
		return nil, err
	}

	ns := s.mgmt.EDCNamespace
	q := dataspace.QuerySpec{
		Offset:           0,
		Limit:            s.catalog.RequestLimit,
		FilterExpression: []dataspace.Criterion{dataspace.Eq(ns+"id", req.AssetID)},
	}

	scanned := 0
	for page := 1; ; page++ {
		cat, err := s.RequestCatalog(ctx, CatalogRequest{ProviderRef: ref, Query: q})
		if err != nil {
			return nil, err
		}
		scanned += len(cat.Datasets)

		if ds, ok := cat.Find(req.AssetID); ok {
			log.Infow("dataset resolved", "asset", req.AssetID, "provider", ref.PartyID, "policies", len(ds.Policies))
			return ds, nil
		}
		if len(cat.Datasets) < q.Limit || page >= s.catalog.MaxPages {
			break
		}
		q.Offset += q.Limit
	}

	return nil, &dataspace.NotFoundError{AssetID: req.AssetID, Provider: ref.PartyID, Scanned: scanned}
}
