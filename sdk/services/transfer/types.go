// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import "github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"

type FetchRequest struct {
	Address      *dataspace.DataAddress
	FileTypeHint string
	// Destination is a local directory or s3://bucket/prefix; empty means
	// the configured download directory.
	Destination string
	// Path and Query are appended to the data-plane endpoint.
	Path  string
	Query map[string]string
}

// StageRequest uploads a local file that a provider asset will point to.
type StageRequest struct {
	LocalFile string
	Bucket    string
	Key       string
}
