// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// Create POSTs the entity and returns the id assigned by the connector. A
// 409 is returned as a *dataspace.RemoteError with IsConflict set.
func (s *CrudService) Create(ctx context.Context, req CreateRequest) (string, error) {
	if req.Resource == "" {
		return "", errors.New("resource is required")
	}

	var jsonMap map[string]any
	if req.FilePath != "" {
		// YAML is a superset of JSON, one path for both
		data, err := os.ReadFile(req.FilePath)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		jsonBytes, err := yaml.YAMLToJSON(data)
		if err != nil {
			return "", fmt.Errorf("yaml to json failed: %w", err)
		}
		if err := json.Unmarshal(jsonBytes, &jsonMap); err != nil {
			return "", fmt.Errorf("failed to parse after JSON conversion: %w", err)
		}
	} else {
		jsonMap = maps.Clone(req.Body)
	}
	if len(jsonMap) == 0 {
		return "", errors.New("empty body")
	}
	if req.ResetID {
		delete(jsonMap, "@id")
	}
	if _, ok := jsonMap["@context"]; !ok {
		jsonMap["@context"] = dataspace.EDCContext(s.mgmt.EDCNamespace)
	}

	var out map[string]any
	url := s.http.BuildURL(req.Resource, "", nil)
	if _, err := config.DoJSON(ctx, s.http, http.MethodPost, url, jsonMap, &out); err != nil {
		return "", err
	}
	id := dataspace.ID(out)
	if id == "" {
		id = dataspace.ID(jsonMap)
	}
	return id, nil
}
