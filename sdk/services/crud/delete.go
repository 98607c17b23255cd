// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

func (s *CrudService) Delete(ctx context.Context, req DeleteRequest) error {
	if req.Resource == "" {
		return errors.New("resource is required")
	}
	if req.ID == "" {
		return errors.New("id is required")
	}

	url := s.http.BuildURL(req.Resource, req.ID, nil)
	_, status, err := s.http.Do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("delete failed (status %d): %w", status, err)
	}
	return nil
}
