// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// Update PUTs the whole entity; the target is the body's @id.
func (s *CrudService) Update(ctx context.Context, req UpdateRequest) error {
	if req.Resource == "" {
		return errors.New("resource is required")
	}
	if len(req.Body) == 0 {
		return errors.New("empty body")
	}
	if dataspace.ID(req.Body) == "" {
		return errors.New("@id is required")
	}

	url := s.http.BuildURL(req.Resource, "", nil)
	status, err := config.DoJSON(ctx, s.http, http.MethodPut, url, req.Body, nil)
	if err != nil {
		return fmt.Errorf("update failed (status %d): %w", status, err)
	}
	return nil
}
