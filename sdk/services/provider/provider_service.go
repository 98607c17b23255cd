// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/crud"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/transfer"
)

var log = logging.Logger("dataspace/provider")

// ProviderService publishes assets on the local connector so that partners
// can find them in its catalog.
type ProviderService struct {
	crud     *crud.CrudService
	transfer *transfer.TransferService
	mgmt     config.ManagementConfig
	provider config.ProviderConfig
	s3       config.S3Config
}

func NewProviderService(ctx context.Context, conf config.Config) (*ProviderService, error) {
	conf = conf.WithDefaults()
	crudSvc, err := crud.NewCrudService(ctx, conf)
	if err != nil {
		return nil, err
	}
	transferSvc, err := transfer.NewTransferService(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &ProviderService{
		crud:     crudSvc,
		transfer: transferSvc,
		mgmt:     conf.Management,
		provider: conf.Provider,
		s3:       conf.S3,
	}, nil
}

// create treats 409 as an entity that already exists.
func (s *ProviderService) create(ctx context.Context, resource string, body map[string]any) (bool, error) {
	_, err := s.crud.Create(ctx, crud.CreateRequest{
		ResourceRequest: crud.ResourceRequest{Resource: resource},
		Body:            body,
	})
	var re *dataspace.RemoteError
	if errors.As(err, &re) && re.IsConflict() {
		log.Infow("already exists", "resource", resource, "id", dataspace.ID(body))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
