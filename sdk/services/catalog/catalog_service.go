// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

var log = logging.Logger("dataspace/catalog")

type CatalogService struct {
	http       config.ManagementHTTP
	mgmt       config.ManagementConfig
	provider   config.ProviderConfig
	catalog    config.CatalogConfig
	federation config.FederationConfig
}

func NewCatalogService(_ context.Context, conf config.Config) (*CatalogService, error) {
	conf = conf.WithDefaults()
	if conf.Management.BaseURL == "" {
		return nil, errors.New("invalid management config: missing base url")
	}
	return &CatalogService{
		http:       config.NewHTTPCore(nil, conf.Management, conf.Log),
		mgmt:       conf.Management,
		provider:   conf.Provider,
		catalog:    conf.Catalog,
		federation: conf.Federation,
	}, nil
}
