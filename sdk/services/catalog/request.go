// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

const catalogResource = "catalog/request"

func (s *CatalogService) providerRef(ref ProviderRef) (ProviderRef, error) {
	if ref.ProtocolURL == "" {
		ref.ProtocolURL = s.provider.ProtocolURL
	}
	if ref.PartyID == "" {
		ref.PartyID = s.provider.BPN
	}
	if ref.ProtocolURL == "" || ref.PartyID == "" {
		return ref, errors.New("provider protocol url and party id are required")
	}
	return ref, nil
}

func (s *CatalogService) catalogPayload(ref ProviderRef, q dataspace.QuerySpec) map[string]any {
	return map[string]any{
		"@context":            dataspace.EDCContext(s.mgmt.EDCNamespace),
		"@type":               dataspace.TypeCatalogRequest,
		"counterPartyAddress": ref.ProtocolURL,
		"counterPartyId":      ref.PartyID,
		"protocol":            s.mgmt.Protocol,
		"querySpec":           q,
	}
}

// RequestCatalog sends one catalog request through the local connector and
// returns the page as received.
func (s *CatalogService) RequestCatalog(ctx context.Context, req CatalogRequest) (*dataspace.Catalog, error) {
	ref, err := s.providerRef(req.ProviderRef)
	if err != nil {
		return nil, err
	}
	q := req.Query
	if q.Limit <= 0 {
		q.Limit = s.catalog.RequestLimit
	}

	var raw map[string]any
	url := s.http.BuildURL(catalogResource, "", nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, s.catalogPayload(ref, q), &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &dataspace.RemoteError{Op: "POST " + catalogResource, URL: url, StatusCode: http.StatusOK, Err: dataspace.ErrMalformed}
	}

	cat := dataspace.ParseCatalog(raw)
	log.Debugw("catalog page", "provider", ref.PartyID, "offset", q.Offset, "limit", q.Limit, "datasets", len(cat.Datasets))
	return cat, nil
}

// SearchDatasets lists the datasets whose property matches pattern (% wildcard).
func (s *CatalogService) SearchDatasets(ctx context.Context, req SearchRequest) ([]dataspace.Dataset, error) {
	q := dataspace.QuerySpec{Offset: req.Offset, Limit: req.Limit}
	if req.Property != "" {
		q.FilterExpression = []dataspace.Criterion{dataspace.Like(req.Property, req.Pattern)}
	}
	cat, err := s.RequestCatalog(ctx, CatalogRequest{ProviderRef: req.ProviderRef, Query: q})
	if err != nil {
		return nil, err
	}
	return cat.Datasets, nil
}
