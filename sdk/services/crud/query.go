// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"
	"net/http"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

const defaultPageSize = 50

// Query performs POST {resource}/request. With All set it walks the pages
// until one comes back shorter than the limit.
func (s *CrudService) Query(ctx context.Context, req QueryRequest) ([]map[string]any, error) {
	if req.Resource == "" {
		return nil, errors.New("resource is required")
	}
	q := req.Query
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}

	var elements []map[string]any
	url := s.http.BuildURL(req.Resource+"/request", "", nil)
	for {
		var page []map[string]any
		if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, q.Payload(s.mgmt.EDCNamespace), &page); err != nil {
			return nil, err
		}
		elements = append(elements, page...)

		if !req.All || len(page) < q.Limit {
			break
		}
		q.Offset += q.Limit
	}
	return elements, nil
}
