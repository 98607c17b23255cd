// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"github.com/hashicorp/go-multierror"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// ProviderRef addresses a provider connector. Empty fields fall back to the
// configured provider.
type ProviderRef struct {
	ProtocolURL string // counterPartyAddress, the provider DSP endpoint
	PartyID     string // counterPartyId, the provider BPN
}

type ResolveRequest struct {
	ProviderRef

	AssetID string
}

type CatalogRequest struct {
	ProviderRef

	Query dataspace.QuerySpec
}

type SearchRequest struct {
	ProviderRef

	// Property is the left operand, e.g. "https://w3id.org/edc/v0.0.1/ns/description"
	// or a dotted path such as "'http://purl.org/dc/terms/type'.'@id'".
	Property string
	Pattern  string
	Offset   int
	Limit    int
}

// FederatedRequest queries every connector with the same QuerySpec. Offset
// and Limit of Query are applied to the concatenated result.
type FederatedRequest struct {
	Connectors []config.FederatedConnector
	Query      dataspace.QuerySpec
}

// ConnectorFailure records a connector that could not be queried.
type ConnectorFailure struct {
	BPN         string `json:"bpn"         yaml:"bpn"`
	ProtocolURL string `json:"protocolUrl" yaml:"protocolUrl"`
	Error       string `json:"error"       yaml:"error"`

	err error
}

// FederatedResult holds the datasets in connector order, then provider
// order. No global ordering is applied across connectors.
type FederatedResult struct {
	Datasets []dataspace.Dataset `json:"datasets"           yaml:"datasets"`
	Failures []ConnectorFailure  `json:"failures,omitempty" yaml:"failures,omitempty"`
	Total    int                 `json:"total"              yaml:"total"`
}

// Err summarizes connector failures, nil when every connector answered.
func (r *FederatedResult) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f.err)
	}
	return merr.ErrorOrNil()
}
