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

func (s *CrudService) Get(ctx context.Context, req GetRequest) (map[string]any, error) {
	if req.Resource == "" {
		return nil, errors.New("resource is required")
	}
	if req.ID == "" {
		return nil, errors.New("id is required")
	}

	var out map[string]any
	url := s.http.BuildURL(req.Resource, req.ID, nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
