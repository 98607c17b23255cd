// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

// ExtractPolicyAndMetadata selects the policy to negotiate and the declared
// file type. When a dataset carries several policies the first one in
// document order is used. A missing file type yields an empty hint.
func ExtractPolicyAndMetadata(ds *dataspace.Dataset) (dataspace.Policy, string, error) {
	if ds == nil {
		return dataspace.Policy{}, "", fmt.Errorf("nil dataset: %w", dataspace.ErrNoPolicy)
	}
	policies := lo.Filter(ds.Policies, func(p dataspace.Policy, _ int) bool { return p.ID != "" })
	if len(policies) == 0 {
		return dataspace.Policy{}, "", fmt.Errorf("asset %s: %w", ds.ID, dataspace.ErrNoPolicy)
	}
	if len(policies) > 1 {
		log.Warnw("dataset has several policies, using the first", "asset", ds.ID,
			"selected", policies[0].ID, "policies", lo.Map(policies, func(p dataspace.Policy, _ int) string { return p.ID }))
	}
	return policies[0], FileTypeHint(ds), nil
}

// FileTypeHint reads the vendor file-type property. Known keys are tried in
// order, then any extension whose local name is fileType.
func FileTypeHint(ds *dataspace.Dataset) string {
	if ds.FileType != "" {
		return ds.FileType
	}
	keys := lo.Keys(ds.Extensions)
	slices.Sort(keys)
	for _, k := range keys {
		if strings.EqualFold(dataspace.LocalName(k), "fileType") {
			if s := dataspace.StringValue(ds.Extensions[k]); s != "" {
				return s
			}
		}
	}
	return ""
}
