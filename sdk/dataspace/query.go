// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace

const (
	OperatorEqual = "="
	OperatorLike  = "like"
	OperatorIn    = "in"
)

// Criterion is one filter triple of a QuerySpec. OperandLeft may be a dotted
// or namespaced property path.
type Criterion struct {
	OperandLeft  string `json:"operandLeft"            yaml:"operandLeft"`
	Operator     string `json:"operator"               yaml:"operator"`
	OperandRight any    `json:"operandRight,omitempty" yaml:"operandRight,omitempty"`
}

type QuerySpec struct {
	Offset           int         `json:"offset"                     yaml:"offset"`
	Limit            int         `json:"limit"                      yaml:"limit"`
	SortOrder        string      `json:"sortOrder,omitempty"        yaml:"sortOrder,omitempty"`
	SortField        string      `json:"sortField,omitempty"        yaml:"sortField,omitempty"`
	FilterExpression []Criterion `json:"filterExpression,omitempty" yaml:"filterExpression,omitempty"`
}

// Eq builds an equality criterion.
func Eq(left string, right any) Criterion {
	return Criterion{OperandLeft: left, Operator: OperatorEqual, OperandRight: right}
}

// Like builds a pattern criterion (% is the connector wildcard).
func Like(left string, pattern string) Criterion {
	return Criterion{OperandLeft: left, Operator: OperatorLike, OperandRight: pattern}
}

// Payload renders q as a JSON-LD QuerySpec object for management requests.
func (q QuerySpec) Payload(edcNamespace string) map[string]any {
	out := map[string]any{
		"@context": EDCContext(edcNamespace),
		"@type":    TypeQuerySpec,
		"offset":   q.Offset,
		"limit":    q.Limit,
	}
	if q.SortOrder != "" {
		out["sortOrder"] = q.SortOrder
	}
	if q.SortField != "" {
		out["sortField"] = q.SortField
	}
	if len(q.FilterExpression) > 0 {
		out["filterExpression"] = q.FilterExpression
	}
	return out
}
