// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package edr

// TransferRequest opens a PULL transfer for an agreement negotiated in
// contract mode. Empty provider fields fall back to the configuration.
type TransferRequest struct {
	AgreementID         string
	AssetID             string
	CounterPartyAddress string
	CounterPartyID      string
}
