// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provider

const (
	AssetTypeData    = "data"
	AssetTypeModel   = "model"
	AssetTypeService = "service"
)

type HTTPSource struct {
	BaseURL string
	// ProxyPath and ProxyQuery let consumers append a path or query to BaseURL.
	ProxyPath  bool
	ProxyQuery bool
}

// S3Source points the asset at an object. With LocalFile set the file is
// uploaded first; an empty Key then defaults to the file name.
type S3Source struct {
	Bucket    string
	Key       string
	LocalFile string
}

type AssetRequest struct {
	ID          string
	Description string
	Type        string
	FileType    string
	ContentType string

	// exactly one of HTTP or S3
	HTTP *HTTPSource
	S3   *S3Source

	// Properties are merged over the generated ones.
	Properties map[string]any
}

type AssetResult struct {
	ID      string `json:"id"      yaml:"id"`
	Created bool   `json:"created" yaml:"created"`
	Source  string `json:"source"  yaml:"source"`
}

type ContractDefinitionRequest struct {
	ID             string
	AccessPolicyID string
	UsagePolicyID  string
	AssetID        string
}

type PublishRequest struct {
	Asset AssetRequest
	// ConsumerBPN restricts access and usage; defaults to the configured one.
	ConsumerBPN string
}

type PublishResult struct {
	AssetID              string `json:"assetId"                        yaml:"assetId"`
	AssetCreated         bool   `json:"assetCreated"                   yaml:"assetCreated"`
	Source               string `json:"source"                         yaml:"source"`
	AccessPolicyID       string `json:"accessPolicyId,omitempty"       yaml:"accessPolicyId,omitempty"`
	UsagePolicyID        string `json:"usagePolicyId,omitempty"        yaml:"usagePolicyId,omitempty"`
	ContractDefinitionID string `json:"contractDefinitionId,omitempty" yaml:"contractDefinitionId,omitempty"`
}
