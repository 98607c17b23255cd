// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provider

import (
	"context"
	"errors"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/crud"
)

// CreateBPNPolicy creates a policy definition allowing use only to the
// partner identified by bpn. It reports false when the id already exists.
func (s *ProviderService) CreateBPNPolicy(ctx context.Context, id, bpn string) (bool, error) {
	if id == "" || bpn == "" {
		return false, errors.New("policy id and bpn are required")
	}

	policyContext := dataspace.NegotiationContext(s.mgmt.EDCNamespace)
	policyContext["@vocab"] = policyContext["edc"]
	policyContext["tx-auth"] = dataspace.NamespaceTXAuth

	body := map[string]any{
		"@context": policyContext,
		"@id":      id,
		"@type":    "PolicyDefinition",
		"policy": map[string]any{
			"@id":   id,
			"@type": "odrl:Set",
			"odrl:permission": map[string]any{
				"odrl:action": map[string]any{"@id": "odrl:use"},
				"odrl:constraint": map[string]any{
					"odrl:or": map[string]any{
						"odrl:leftOperand":  map[string]any{"@id": "BusinessPartnerNumber"},
						"odrl:operator":     map[string]any{"@id": "odrl:eq"},
						"odrl:rightOperand": bpn,
					},
				},
			},
			"odrl:prohibition": []any{},
			"odrl:obligation":  []any{},
		},
	}
	return s.create(ctx, crud.PolicyDefinitions, body)
}

// CreateContractDefinition offers the asset under the two policies.
func (s *ProviderService) CreateContractDefinition(ctx context.Context, req ContractDefinitionRequest) (bool, error) {
	if req.ID == "" || req.AccessPolicyID == "" || req.UsagePolicyID == "" || req.AssetID == "" {
		return false, errors.New("contract definition id, policies and asset id are required")
	}
	body := map[string]any{
		"@context":         dataspace.EDCContext(s.mgmt.EDCNamespace),
		"@id":              req.ID,
		"@type":            "ContractDefinition",
		"accessPolicyId":   req.AccessPolicyID,
		"contractPolicyId": req.UsagePolicyID,
		"assetsSelector": []any{map[string]any{
			"@type":        "Criterion",
			"operandLeft":  dataspace.NamespaceEDC + "id",
			"operator":     dataspace.OperatorEqual,
			"operandRight": req.AssetID,
		}},
	}
	return s.create(ctx, crud.ContractDefinitions, body)
}
