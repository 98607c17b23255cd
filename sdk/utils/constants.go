// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

const (
	IniName            = ".dsctl.ini"
	CurrentEnvironment = "current_environment"
	UpdatedEnvKey      = "updated_environment"
	DefaultEnvironment = "default"

	BaseURLKey         = "base_url"
	APIKeyKey          = "api_key"
	LogLevelKey        = "log_level"
	ProviderURLKey     = "provider_url"
	ProviderBPNKey     = "provider_bpn"
	DownloadPathKey    = "artifact_download_path"
	NegotiationModeKey = "negotiation_mode"
	DeadlineKey        = "workflow_deadline"
	ParallelismKey     = "workflow_parallelism"
	FederatedKey       = "federated_connectors"
)

// Output formats accepted by -o.
const (
	FormatShort = "short"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)
