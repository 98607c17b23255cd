// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package crud

import "github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"

const (
	Assets              = "assets"
	PolicyDefinitions   = "policydefinitions"
	ContractDefinitions = "contractdefinitions"
)

// embedded in the other requests
type ResourceRequest struct {
	Resource string // "assets", "policydefinitions", ...
}

type CreateRequest struct {
	ResourceRequest

	// Body is sent as is; when FilePath is set the YAML or JSON file is
	// read instead.
	Body     map[string]any
	FilePath string
	ResetID  bool
}

type GetRequest struct {
	ResourceRequest

	ID string
}

type QueryRequest struct {
	ResourceRequest

	Query dataspace.QuerySpec
	// All keeps requesting pages while they come back full.
	All bool
}

type UpdateRequest struct {
	ResourceRequest

	Body map[string]any
}

type DeleteRequest struct {
	ResourceRequest

	ID string
}
