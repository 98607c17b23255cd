// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import (
	"context"
	"errors"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

// CrudService manages Management API entities (assets, policy definitions,
// contract definitions) as plain JSON-LD maps.
type CrudService struct {
	http config.ManagementHTTP
	mgmt config.ManagementConfig
}

func NewCrudService(_ context.Context, conf config.Config) (*CrudService, error) {
	conf = conf.WithDefaults()
	if conf.Management.BaseURL == "" {
		return nil, errors.New("invalid management config: missing base url")
	}
	return &CrudService{
		http: config.NewHTTPCore(nil, conf.Management, conf.Log),
		mgmt: conf.Management,
	}, nil
}
