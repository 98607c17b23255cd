// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config is the whole configuration handed to the SDK services. It is a
// plain value (no viper/INI here); services keep their own copy.
type Config struct {
	Management  ManagementConfig
	Provider    ProviderConfig
	Catalog     CatalogConfig
	Negotiation NegotiationConfig
	EDR         EDRConfig
	Transfer    TransferConfig
	Workflow    WorkflowConfig
	S3          S3Config
	Federation  FederationConfig
	Log         LogConfig
}

// ManagementConfig addresses the local connector's Management API.
type ManagementConfig struct {
	BaseURL      string
	Path         string
	APIVersion   string
	APIKey       string
	BPN          string
	EDCNamespace string
	Protocol     string
}

// ProviderConfig identifies the counter-party connector.
type ProviderConfig struct {
	ProtocolURL string
	BPN         string
	// ConsumerBPN is the partner allowed by generated access/usage policies
	// when this client registers assets.
	ConsumerBPN string
}

type CatalogConfig struct {
	RequestLimit int
	MaxPages     int
}

const (
	NegotiationModeEDR      = "edr"
	NegotiationModeContract = "contract"
)

// PollConfig is the timing of one polling loop. Factor > 1 grows the
// interval up to MaxInterval.
type PollConfig struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxInterval time.Duration
	Factor      float64
}

type NegotiationConfig struct {
	Mode string
	Poll PollConfig
}

type EDRConfig struct {
	Poll         PollConfig
	TransferType string
}

type TransferConfig struct {
	DownloadDir  string
	FetchTimeout time.Duration
	Verbose      bool
}

type WorkflowConfig struct {
	// Deadline bounds a whole workflow run on top of the per-stage timeouts; 0 disables it.
	Deadline    time.Duration
	Parallelism int
}

type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
	Bucket      string
}

// Configured reports whether static credentials are present.
func (c S3Config) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// FederatedConnector is one provider queried by the federated catalog, in
// configuration order.
type FederatedConnector struct {
	BPN         string `json:"bpn"         yaml:"bpn"`
	ProtocolURL string `json:"protocolUrl" yaml:"protocolUrl"`
}

type FederationConfig struct {
	Connectors   []FederatedConnector
	DefaultLimit int
}

type LogConfig struct {
	Level              string
	ResponsePrintLimit int
}

const (
	DefaultManagementPath     = "/data"
	DefaultAPIVersion         = "v3"
	DefaultEDCNamespace       = "https://w3id.org/edc/v0.0.1/ns/"
	DefaultProtocol           = "dataspace-protocol-http"
	DefaultDSPPath            = "/api/v1/dsp"
	DefaultCatalogLimit       = 500
	DefaultCatalogMaxPages    = 20
	DefaultPollInterval       = time.Second
	DefaultPollTimeout        = 30 * time.Second
	DefaultTransferType       = "HttpData-PULL"
	DefaultDownloadDir        = "/tmp/consumer_artifacts"
	DefaultParallelism        = 4
	DefaultFederatedLimit     = 50
	DefaultLogLevel           = "info"
	DefaultResponsePrintLimit = 3000
)

// Default returns a Config with every optional field set to its default.
func Default() Config {
	return Config{
		Management: ManagementConfig{
			Path:         DefaultManagementPath,
			APIVersion:   DefaultAPIVersion,
			EDCNamespace: DefaultEDCNamespace,
			Protocol:     DefaultProtocol,
		},
		Catalog:     CatalogConfig{RequestLimit: DefaultCatalogLimit, MaxPages: DefaultCatalogMaxPages},
		Negotiation: NegotiationConfig{Mode: NegotiationModeEDR, Poll: PollConfig{Interval: DefaultPollInterval, Timeout: DefaultPollTimeout}},
		EDR:         EDRConfig{Poll: PollConfig{Interval: DefaultPollInterval, Timeout: DefaultPollTimeout}, TransferType: DefaultTransferType},
		Transfer:    TransferConfig{DownloadDir: DefaultDownloadDir},
		Workflow:    WorkflowConfig{Parallelism: DefaultParallelism},
		Federation:  FederationConfig{DefaultLimit: DefaultFederatedLimit},
		Log:         LogConfig{Level: DefaultLogLevel, ResponsePrintLimit: DefaultResponsePrintLimit},
	}
}

// WithDefaults fills zero-valued optional fields. Required fields are left
// untouched; see Validate.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Management.Path == "" {
		c.Management.Path = d.Management.Path
	}
	if c.Management.APIVersion == "" {
		c.Management.APIVersion = d.Management.APIVersion
	}
	if c.Management.EDCNamespace == "" {
		c.Management.EDCNamespace = d.Management.EDCNamespace
	}
	if c.Management.Protocol == "" {
		c.Management.Protocol = d.Management.Protocol
	}
	if c.Provider.ProtocolURL == "" && c.Management.BaseURL != "" {
		// same-host layout used by the reference deployments
		c.Provider.ProtocolURL = strings.TrimRight(c.Management.BaseURL, "/") + DefaultDSPPath
	}
	if c.Catalog.RequestLimit <= 0 {
		c.Catalog.RequestLimit = d.Catalog.RequestLimit
	}
	if c.Catalog.MaxPages <= 0 {
		c.Catalog.MaxPages = d.Catalog.MaxPages
	}
	if c.Negotiation.Mode == "" {
		c.Negotiation.Mode = d.Negotiation.Mode
	}
	c.Negotiation.Poll = c.Negotiation.Poll.withDefaults(d.Negotiation.Poll)
	c.EDR.Poll = c.EDR.Poll.withDefaults(d.EDR.Poll)
	if c.EDR.TransferType == "" {
		c.EDR.TransferType = d.EDR.TransferType
	}
	if c.Transfer.DownloadDir == "" {
		c.Transfer.DownloadDir = d.Transfer.DownloadDir
	}
	if c.Workflow.Parallelism <= 0 {
		c.Workflow.Parallelism = d.Workflow.Parallelism
	}
	if c.Federation.DefaultLimit <= 0 {
		c.Federation.DefaultLimit = d.Federation.DefaultLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.ResponsePrintLimit <= 0 {
		c.Log.ResponsePrintLimit = d.Log.ResponsePrintLimit
	}
	return c
}

func (p PollConfig) withDefaults(d PollConfig) PollConfig {
	if p.Interval <= 0 {
		p.Interval = d.Interval
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.Factor <= 0 {
		p.Factor = 1
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	return p
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Management.BaseURL == "" {
		errs = append(errs, errors.New("management base url is required (BASE_URL)"))
	}
	if c.Management.APIKey == "" {
		errs = append(errs, errors.New("management api key is required (API_KEY)"))
	}
	switch c.Negotiation.Mode {
	case "", NegotiationModeEDR, NegotiationModeContract:
	default:
		errs = append(errs, fmt.Errorf("unknown negotiation mode %q", c.Negotiation.Mode))
	}
	if err := c.Negotiation.Poll.validate("negotiation"); err != nil {
		errs = append(errs, err)
	}
	if err := c.EDR.Poll.validate("edr"); err != nil {
		errs = append(errs, err)
	}
	if c.Workflow.Deadline < 0 {
		errs = append(errs, errors.New("workflow deadline must not be negative"))
	}
	return errors.Join(errs...)
}

func (p PollConfig) validate(name string) error {
	if p.Interval == 0 && p.Timeout == 0 {
		return nil
	}
	if p.Interval <= 0 || p.Timeout <= 0 {
		return fmt.Errorf("%s polling interval and timeout must be positive", name)
	}
	if p.Interval > p.Timeout {
		return fmt.Errorf("%s polling interval %s exceeds timeout %s", name, p.Interval, p.Timeout)
	}
	return nil
}
