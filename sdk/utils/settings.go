// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

// Settings holds all logical keys. Tags:
// - vkey: viper key (also the INI key)
// - env: env names, comma separated, first is canonical. If empty, derived from vkey
// - persist: "true" to write the key into the INI
// - default: optional default
// - secret: "true" if sensitive, masked by `dsctl env list`
type Settings struct {
	BaseURL         string `vkey:"base_url"               env:"BASE_URL"                persist:"true"`
	APIKey          string `vkey:"api_key"                env:"API_KEY"                 persist:"true" secret:"true"`
	ManagementPath  string `vkey:"management_path"        env:"MANAGEMENT_PATH"         persist:"true" default:"/data"`
	APIVersion      string `vkey:"management_api_version" env:"MANAGEMENT_API_VERSION" persist:"true" default:"v3"`
	EDCNamespace    string `vkey:"edc_namespace"          env:"EDC_NAMESPACE"           persist:"true"`
	ParticipantBPN  string `vkey:"participant_bpn"        env:"PARTICIPANT_BPN"         persist:"true"`
	ProviderBPN     string `vkey:"provider_bpn"           env:"PROVIDER_BPN"            persist:"true"`
	ProviderURL     string `vkey:"provider_url"           env:"PROVIDER_URL"            persist:"true"`
	ConsumerBPN     string `vkey:"consumer_bpn"           env:"CONSUMER_BPN"            persist:"true"`
	DefaultAssetID  string `vkey:"default_asset_name"     env:"DEFAULT_ASSET_NAME"      persist:"true"`
	AssetID         string `vkey:"asset_id"               env:"ASSET_ID"                persist:"false"`
	AssetURL        string `vkey:"asset_url"              env:"ASSET_URL"               persist:"false"`
	AssetDesc       string `vkey:"asset_description"      env:"ASSET_DESCRIPTION"       persist:"false"`
	CatalogLimit    int    `vkey:"catalog_request_limit"  env:"CATALOG_REQUEST_LIMIT"   persist:"true" default:"500"`
	CatalogMaxPages int    `vkey:"catalog_max_pages"      env:"CATALOG_MAX_PAGES"       persist:"true" default:"20"`

	NegotiationMode     string        `vkey:"negotiation_mode"             env:"NEGOTIATION_MODE"             persist:"true" default:"edr"`
	NegotiationInterval time.Duration `vkey:"negotiation_polling_interval" env:"NEGOTIATION_POLLING_INTERVAL" persist:"true" default:"1s"`
	NegotiationTimeout  time.Duration `vkey:"negotiation_polling_timeout"  env:"NEGOTIATION_POLLING_TIMEOUT"  persist:"true" default:"30s"`
	EDRInterval         time.Duration `vkey:"edr_polling_interval"         env:"EDR_POLLING_INTERVAL"         persist:"true" default:"1s"`
	EDRTimeout          time.Duration `vkey:"edr_polling_timeout_seconds"  env:"EDR_POLLING_TIMEOUT_SECONDS"  persist:"true" default:"30"`
	PollingFactor       float64       `vkey:"polling_backoff_factor"       env:"POLLING_BACKOFF_FACTOR"       persist:"true" default:"1"`
	PollingMaxInterval  time.Duration `vkey:"polling_max_interval"         env:"POLLING_MAX_INTERVAL"         persist:"true"`
	TransferType        string        `vkey:"transfer_type"                env:"TRANSFER_TYPE"                persist:"true" default:"HttpData-PULL"`

	DownloadPath string        `vkey:"artifact_download_path" env:"ARTIFACT_DOWNLOAD_PATH" persist:"true" default:"/tmp/consumer_artifacts"`
	FetchTimeout time.Duration `vkey:"fetch_timeout"          env:"FETCH_TIMEOUT"          persist:"true"`
	Deadline     time.Duration `vkey:"workflow_deadline"      env:"WORKFLOW_DEADLINE"      persist:"true"`
	Parallelism  int           `vkey:"workflow_parallelism"   env:"WORKFLOW_PARALLELISM"   persist:"true" default:"4"`

	S3Endpoint     string `vkey:"s3_endpoint"      env:"S3_ENDPOINT,AWS_ENDPOINT_URL"          persist:"true"`
	S3AccessKey    string `vkey:"s3_access_key"    env:"S3_ACCESS_KEY,AWS_ACCESS_KEY_ID"       persist:"true" secret:"true"`
	S3SecretKey    string `vkey:"s3_secret_key"    env:"S3_SECRET_KEY,AWS_SECRET_ACCESS_KEY"   persist:"true" secret:"true"`
	S3SessionToken string `vkey:"s3_session_token" env:"S3_SESSION_TOKEN,AWS_SESSION_TOKEN"    persist:"false" secret:"true"`
	S3Region       string `vkey:"s3_region"        env:"S3_REGION,AWS_REGION"                  persist:"true" default:"eu-central-1"`
	S3Bucket       string `vkey:"s3_bucket"        env:"S3_BUCKET,DEFAULT_BUCKET_NAME"         persist:"true"`
	S3Secure       bool   `vkey:"s3_secure"        env:"S3_SECURE"                             persist:"true" default:"true"`

	FederatedConnectors string `vkey:"federated_connectors"    env:"FEDERATED_CONNECTORS"    persist:"true"`
	FederatedLimit      int    `vkey:"federated_default_limit" env:"FEDERATED_DEFAULT_LIMIT" persist:"true" default:"50"`

	LogLevel           string `vkey:"log_level"            env:"LOG_LEVEL"            persist:"true" default:"info"`
	ResponsePrintLimit int    `vkey:"response_print_limit" env:"RESPONSE_PRINT_LIMIT" persist:"true" default:"3000"`
}

// LoadOptions selects the sources merged by LoadSettings.
type LoadOptions struct {
	// EnvFile is an optional dotenv file (BASE_URL=..., API_KEY=...).
	EnvFile string
	// Environment selects the INI section; empty means DEFAULT.current_environment.
	Environment string
	// IniPath overrides ~/.dsctl.ini.
	IniPath string
	// Overrides are applied last (command line flags), keyed by vkey.
	Overrides map[string]any
}

type settingField struct {
	Key     string
	Envs    []string
	Persist bool
	Default string
	Secret  bool
}

func settingFields() []settingField {
	var out []settingField
	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		envs := strings.Split(f.Tag.Get("env"), ",")
		if envs[0] == "" {
			envs = []string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		}
		out = append(out, settingField{
			Key:     key,
			Envs:    envs,
			Persist: f.Tag.Get("persist") == "true",
			Default: f.Tag.Get("default"),
			Secret:  f.Tag.Get("secret") == "true",
		})
	}
	return out
}

// NewViper returns a viper instance with defaults and env bindings for every
// Settings key.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)
	for _, f := range settingFields() {
		_ = v.BindEnv(append([]string{f.Key}, f.Envs...)...)
		if f.Default != "" {
			v.SetDefault(f.Key, f.Default)
		}
	}
	return v
}

// LoadSettings merges, from lowest to highest precedence: defaults, the INI
// environment, the env file, the process environment and Overrides.
func LoadSettings(opts LoadOptions) (*Settings, *viper.Viper, error) {
	v := NewViper()

	iniPath := opts.IniPath
	if iniPath == "" {
		iniPath = getIniPath()
	}
	env, err := loadProfile(v, iniPath, opts.Environment)
	if err != nil {
		return nil, nil, err
	}
	v.Set(CurrentEnvironment, env)

	if opts.EnvFile != "" {
		f, err := os.Open(opts.EnvFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open env file: %w", err)
		}
		defer f.Close()
		if err := mergeEnvFile(v, f); err != nil {
			return nil, nil, fmt.Errorf("failed to read env file %s: %w", opts.EnvFile, err)
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	s, err := DecodeSettings(v)
	if err != nil {
		return nil, nil, err
	}
	return s, v, nil
}

// mergeEnvFile merges a dotenv file. Secondary names (DEFAULT_BUCKET_NAME,
// AWS_*) are mapped onto their key when the canonical name is absent.
func mergeEnvFile(v *viper.Viper, r io.Reader) error {
	v.SetConfigType("env")
	if err := v.MergeConfig(r); err != nil {
		return err
	}
	aliased := map[string]any{}
	for _, f := range settingFields() {
		if v.InConfig(strings.ToLower(f.Envs[0])) || v.InConfig(f.Key) {
			continue
		}
		for _, alias := range f.Envs[1:] {
			if k := strings.ToLower(alias); v.InConfig(k) {
				aliased[f.Key] = v.Get(k)
				break
			}
		}
	}
	if len(aliased) == 0 {
		return nil
	}
	return v.MergeConfigMap(aliased)
}

// DecodeSettings unmarshals v into Settings. Durations accept "30s" or a
// plain number of seconds.
func DecodeSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	hook := mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(s, viper.DecodeHook(hook), func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "vkey"
	}); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch d := data.(type) {
		case string:
			s := strings.TrimSpace(d)
			if s == "" {
				return time.Duration(0), nil
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return time.Duration(f * float64(time.Second)), nil
			}
			return data, nil
		case int:
			return time.Duration(d) * time.Second, nil
		case int64:
			return time.Duration(d) * time.Second, nil
		case float64:
			return time.Duration(d * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}

// ToConfig maps the flat settings onto the SDK configuration value.
func (s *Settings) ToConfig() (config.Config, error) {
	connectors, err := ParseConnectors(s.FederatedConnectors)
	if err != nil {
		return config.Config{}, err
	}

	endpoint := s.S3Endpoint
	if endpoint != "" && !strings.Contains(endpoint, "://") && !s.S3Secure {
		endpoint = "http://" + endpoint
	}

	poll := func(interval, timeout time.Duration) config.PollConfig {
		return config.PollConfig{
			Interval:    interval,
			Timeout:     timeout,
			MaxInterval: s.PollingMaxInterval,
			Factor:      s.PollingFactor,
		}
	}

	conf := config.Config{
		Management: config.ManagementConfig{
			BaseURL:      s.BaseURL,
			Path:         s.ManagementPath,
			APIVersion:   s.APIVersion,
			APIKey:       s.APIKey,
			BPN:          s.ParticipantBPN,
			EDCNamespace: s.EDCNamespace,
		},
		Provider: config.ProviderConfig{
			ProtocolURL: s.ProviderURL,
			BPN:         s.ProviderBPN,
			ConsumerBPN: s.ConsumerBPN,
		},
		Catalog:     config.CatalogConfig{RequestLimit: s.CatalogLimit, MaxPages: s.CatalogMaxPages},
		Negotiation: config.NegotiationConfig{Mode: strings.ToLower(s.NegotiationMode), Poll: poll(s.NegotiationInterval, s.NegotiationTimeout)},
		EDR:         config.EDRConfig{Poll: poll(s.EDRInterval, s.EDRTimeout), TransferType: s.TransferType},
		Transfer:    config.TransferConfig{DownloadDir: s.DownloadPath, FetchTimeout: s.FetchTimeout},
		Workflow:    config.WorkflowConfig{Deadline: s.Deadline, Parallelism: s.Parallelism},
		S3: config.S3Config{
			AccessKey:   s.S3AccessKey,
			SecretKey:   s.S3SecretKey,
			AccessToken: s.S3SessionToken,
			Region:      s.S3Region,
			EndpointURL: endpoint,
			Bucket:      s.S3Bucket,
		},
		Federation: config.FederationConfig{Connectors: connectors, DefaultLimit: s.FederatedLimit},
		Log:        config.LogConfig{Level: s.LogLevel, ResponsePrintLimit: s.ResponsePrintLimit},
	}
	return conf.WithDefaults(), nil
}

// ParseConnectors reads FEDERATED_CONNECTORS: either a JSON object
// {"BPNL...": "https://.../api/v1/dsp"} whose key order is the query order,
// or a JSON array of {"bpn", "protocolUrl"} objects.
func ParseConnectors(raw string) ([]config.FederatedConnector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []config.FederatedConnector
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("invalid federated connectors: %w", err)
		}
		return list, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("invalid federated connectors: expected a JSON object or array")
	}
	var out []config.FederatedConnector
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid federated connectors: %w", err)
		}
		bpn, _ := tok.(string)
		var url string
		if err := dec.Decode(&url); err != nil {
			return nil, fmt.Errorf("invalid federated connector %q: %w", bpn, err)
		}
		out = append(out, config.FederatedConnector{BPN: bpn, ProtocolURL: url})
	}
	return out, nil
}
