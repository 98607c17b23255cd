// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"fmt"
	"time"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

type Stage string

const (
	StageCatalog     Stage = "catalog"
	StagePolicy      Stage = "policy"
	StageNegotiation Stage = "negotiation"
	StageEDR         Stage = "edr"
	StageFetch       Stage = "fetch"
	StageStore       Stage = "store"
)

// Request describes one asset to retrieve. Empty provider fields fall back
// to the configuration, an empty Destination to the download directory.
type Request struct {
	AssetID             string
	ProviderProtocolURL string
	ProviderBPN         string
	Destination         string
}

type Result struct {
	AssetID           string                    `json:"assetId"                yaml:"assetId"`
	PolicyID          string                    `json:"policyId"               yaml:"policyId"`
	FileTypeHint      string                    `json:"fileTypeHint,omitempty" yaml:"fileTypeHint,omitempty"`
	NegotiationID     string                    `json:"negotiationId"          yaml:"negotiationId"`
	AgreementID       string                    `json:"agreementId"            yaml:"agreementId"`
	TransferProcessID string                    `json:"transferProcessId"      yaml:"transferProcessId"`
	Download          *dataspace.DownloadResult `json:"download,omitempty"     yaml:"download,omitempty"`
	Durations         map[Stage]time.Duration   `json:"durations"              yaml:"durations"`
}

// StageError names the stage a workflow failed in.
type StageError struct {
	Stage   Stage
	AssetID string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed for asset %s: %v", e.Stage, e.AssetID, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// BatchItem is the outcome of one workflow in a batch.
type BatchItem struct {
	Request Request
	Result  *Result
	Err     error
}
