// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadSettingsDefaults(t *testing.T) {
	dir := t.TempDir()
	s, _, err := LoadSettings(LoadOptions{IniPath: filepath.Join(dir, "missing.ini")})
	require.NoError(t, err)

	assert.Equal(t, "/data", s.ManagementPath)
	assert.Equal(t, "v3", s.APIVersion)
	assert.Equal(t, 500, s.CatalogLimit)
	assert.Equal(t, 30*time.Second, s.EDRTimeout)
	assert.Equal(t, time.Second, s.NegotiationInterval)
	assert.Equal(t, "/tmp/consumer_artifacts", s.DownloadPath)
	assert.True(t, s.S3Secure)
}

func TestLoadSettingsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "consumer.env", `BASE_URL=http://consumer.local
API_KEY=file-key
PROVIDER_BPN=BPNL000000000001
EDR_POLLING_TIMEOUT_SECONDS=45
NEGOTIATION_POLLING_INTERVAL=2s
CATALOG_REQUEST_LIMIT=100
DEFAULT_BUCKET_NAME=assets
`)
	t.Setenv("API_KEY", "env-key")

	s, v, err := LoadSettings(LoadOptions{
		EnvFile:   envFile,
		IniPath:   filepath.Join(dir, "missing.ini"),
		Overrides: map[string]any{NegotiationModeKey: "contract"},
	})
	require.NoError(t, err)

	assert.Equal(t, "http://consumer.local", s.BaseURL)
	assert.Equal(t, "env-key", s.APIKey, "process env wins over env file")
	assert.Equal(t, "BPNL000000000001", s.ProviderBPN)
	assert.Equal(t, 45*time.Second, s.EDRTimeout)
	assert.Equal(t, 2*time.Second, s.NegotiationInterval)
	assert.Equal(t, 100, s.CatalogLimit)
	assert.Equal(t, "assets", s.S3Bucket)
	assert.Equal(t, "contract", s.NegotiationMode)
	assert.Equal(t, DefaultEnvironment, v.GetString(CurrentEnvironment))

	conf, err := s.ToConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://consumer.local/api/v1/dsp", conf.Provider.ProtocolURL)
	assert.Equal(t, config.NegotiationModeContract, conf.Negotiation.Mode)
	assert.Equal(t, 45*time.Second, conf.EDR.Poll.Timeout)
	assert.NoError(t, conf.Validate())
}

func TestProfilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, IniName)

	v := NewViper()
	v.Set(BaseURLKey, "http://staging.local")
	v.Set(APIKeyKey, "secret")
	require.NoError(t, SaveProfile(v, iniPath, "staging"))

	v = NewViper()
	v.Set(BaseURLKey, "http://prod.local")
	require.NoError(t, SaveProfile(v, iniPath, "prod"))

	s, v, err := LoadSettings(LoadOptions{IniPath: iniPath})
	require.NoError(t, err)
	assert.Equal(t, "staging", v.GetString(CurrentEnvironment))
	assert.Equal(t, "http://staging.local", s.BaseURL)

	require.NoError(t, UseProfile(iniPath, "prod"))
	s, _, err = LoadSettings(LoadOptions{IniPath: iniPath})
	require.NoError(t, err)
	assert.Equal(t, "http://prod.local", s.BaseURL)

	s, _, err = LoadSettings(LoadOptions{IniPath: iniPath, Environment: "staging"})
	require.NoError(t, err)
	assert.Equal(t, "secret", s.APIKey)

	_, _, err = LoadSettings(LoadOptions{IniPath: iniPath, Environment: "nope"})
	assert.Error(t, err)

	profiles, err := ListProfiles(iniPath)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "prod", profiles[0].Name)
	assert.True(t, profiles[0].Current)
	assert.Equal(t, "****", profiles[1].Values[APIKeyKey])
}

func TestParseConnectorsKeepsOrder(t *testing.T) {
	got, err := ParseConnectors(`{"BPNB": "http://b/api/v1/dsp", "BPNA": "http://a/api/v1/dsp"}`)
	require.NoError(t, err)
	assert.Equal(t, []config.FederatedConnector{
		{BPN: "BPNB", ProtocolURL: "http://b/api/v1/dsp"},
		{BPN: "BPNA", ProtocolURL: "http://a/api/v1/dsp"},
	}, got)

	got, err = ParseConnectors(`[{"bpn": "BPNA", "protocolUrl": "http://a"}]`)
	require.NoError(t, err)
	assert.Equal(t, "http://a", got[0].ProtocolURL)

	got, err = ParseConnectors("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseConnectors(`"nope"`)
	assert.Error(t, err)
}

func TestSecondsToDuration(t *testing.T) {
	v := NewViper()
	v.Set("edr_polling_timeout_seconds", "2.5")
	v.Set("negotiation_polling_timeout", "1m")
	s, err := DecodeSettings(v)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, s.EDRTimeout)
	assert.Equal(t, time.Minute, s.NegotiationTimeout)
}
