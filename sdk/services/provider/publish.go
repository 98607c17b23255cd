// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

const idPrefixLen = 18

// Publish registers the asset, an access and a usage policy for the consumer
// BPN and the contract definition tying them together. Without a consumer
// BPN only the asset is registered.
func (s *ProviderService) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	asset, err := s.RegisterAsset(ctx, req.Asset)
	if err != nil {
		return nil, err
	}
	res := &PublishResult{AssetID: asset.ID, AssetCreated: asset.Created, Source: asset.Source}

	bpn := req.ConsumerBPN
	if bpn == "" {
		bpn = s.provider.ConsumerBPN
	}
	if bpn == "" {
		log.Warnw("no consumer BPN configured, asset published without policies", "asset", asset.ID)
		return res, nil
	}

	prefix := asset.ID
	if len(prefix) > idPrefixLen {
		prefix = prefix[:idPrefixLen]
	}
	accessID := utils.PrefixedID("ap", prefix)
	usageID := utils.PrefixedID("up", prefix)

	var errs *multierror.Error
	if _, err := s.CreateBPNPolicy(ctx, accessID, bpn); err != nil {
		errs = multierror.Append(errs, err)
	} else {
		res.AccessPolicyID = accessID
	}
	if _, err := s.CreateBPNPolicy(ctx, usageID, bpn); err != nil {
		errs = multierror.Append(errs, err)
	} else {
		res.UsagePolicyID = usageID
	}
	if errs != nil {
		log.Warnw("skipping contract definition after policy errors", "asset", asset.ID)
		return res, errs.ErrorOrNil()
	}

	cdID := utils.PrefixedID("cd", prefix)
	if _, err := s.CreateContractDefinition(ctx, ContractDefinitionRequest{
		ID:             cdID,
		AccessPolicyID: accessID,
		UsagePolicyID:  usageID,
		AssetID:        asset.ID,
	}); err != nil {
		return res, err
	}
	res.ContractDefinitionID = cdID

	log.Infow("asset published", "asset", asset.ID, "consumer", bpn, "contractDefinition", cdID)
	return res, nil
}
