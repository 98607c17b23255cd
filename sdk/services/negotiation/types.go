// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package negotiation

import "github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"

// NegotiateRequest asks the local connector to negotiate Policy for AssetID
// with the provider. Empty provider fields fall back to the configuration.
type NegotiateRequest struct {
	CounterPartyAddress string
	CounterPartyID      string
	AssetID             string
	Policy              dataspace.Policy
}

type TerminateRequest struct {
	ID     string
	Reason string
}
