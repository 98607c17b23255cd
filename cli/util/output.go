// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/workflow"
)

// Table writes rows aligned on tabs.
func Table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	write := func(cols []string) {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	write(header)
	for _, r := range rows {
		write(r)
	}
	return tw.Flush()
}

// Failure is the printable shape of a failed workflow.
type Failure struct {
	AssetID   string `json:"assetId"   yaml:"assetId"`
	Stage     string `json:"stage"     yaml:"stage"`
	Reason    string `json:"reason"    yaml:"reason"`
	Retryable bool   `json:"retryable" yaml:"retryable"`
}

func FailureOf(assetID string, err error) Failure {
	f := Failure{AssetID: assetID, Reason: err.Error(), Retryable: dataspace.IsRetryable(err)}
	var se *workflow.StageError
	if errors.As(err, &se) {
		f.Stage = string(se.Stage)
		f.Reason = se.Err.Error()
	}
	return f
}
