// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

const catalogJSON = `{
  "@id": "cat-1",
  "dspace:participantId": "BPNLPROVIDER",
  "dcat:dataset": [
    {
      "@id": "asset-1",
      "@type": "dcat:Dataset",
      "odrl:hasPolicy": [[{"@id": "offer-1", "@type": "odrl:Offer"}], {"@id": "offer-2"}],
      "tx:fileType": "aasx",
      "description": "robot snapshot",
      "vendor:extra": {"@value": "x"},
      "dcat:distribution": [
        {"dct:format": {"@id": "HttpData-PULL"}, "dcat:accessService": {"@id": "svc-1", "dcat:endpointURL": "http://provider/api/v1/dsp"}},
        {"dct:format": {"@id": "AmazonS3-PUSH"}, "dcat:accessService": "svc-1"}
      ]
    },
    {
      "@id": "asset-2",
      "odrl:hasPolicy": {"@id": "offer-3", "odrl:target": {"@id": "asset-2"}}
    }
  ]
}`

func TestParseCatalog(t *testing.T) {
	cat := dataspace.ParseCatalog(decode(t, catalogJSON))

	assert.Equal(t, "BPNLPROVIDER", cat.ParticipantID)
	require.Len(t, cat.Datasets, 2)

	ds := cat.Datasets[0]
	assert.Equal(t, "asset-1", ds.ID)
	assert.Equal(t, "aasx", ds.FileType)
	assert.Equal(t, "robot snapshot", ds.Description)
	require.Len(t, ds.Policies, 2)
	assert.Equal(t, "offer-1", ds.Policies[0].ID)
	assert.Contains(t, ds.Extensions, "vendor:extra")
	assert.NotContains(t, ds.Extensions, "tx:fileType")
	assert.NotContains(t, ds.Extensions, "dcat:distribution")
	assert.Equal(t, []dataspace.Distribution{
		{Format: "HttpData-PULL", AccessURL: "http://provider/api/v1/dsp", AccessService: "svc-1"},
		{Format: "AmazonS3-PUSH", AccessService: "svc-1"},
	}, ds.Distributions)

	found, ok := cat.Find("asset-2")
	require.True(t, ok)
	assert.Equal(t, "asset-2", found.Policies[0].Target)

	_, ok = cat.Find("missing")
	assert.False(t, ok)
}

func TestSingleDatasetObject(t *testing.T) {
	cat := dataspace.ParseCatalog(decode(t, `{"edc:datasets": {"@id": "only"}}`))
	require.Len(t, cat.Datasets, 1)
	assert.Equal(t, "only", cat.Datasets[0].ID)
}

func TestOfferFor(t *testing.T) {
	p := dataspace.ParsePolicy(decode(t, `{
		"@id": "offer-1",
		"odrl:permission": {"odrl:action": {"@id": "use"}},
		"http://www.w3.org/ns/odrl/2/target": "stale"
	}`))

	offer := p.OfferFor("asset-1", "BPNLPROVIDER")
	assert.Equal(t, "offer-1", offer["@id"])
	assert.Equal(t, dataspace.TypeOffer, offer["@type"])
	assert.Equal(t, map[string]any{"@id": "asset-1"}, offer["odrl:target"])
	assert.Equal(t, map[string]any{"@id": "BPNLPROVIDER"}, offer["odrl:assigner"])
	assert.NotContains(t, offer, "http://www.w3.org/ns/odrl/2/target")
	assert.NotContains(t, p.Raw, "odrl:target", "raw policy untouched")

	p.Raw["@type"] = "odrl:Set"
	assert.Equal(t, "odrl:Set", p.OfferFor("asset-1", "")["@type"])
}

func TestParseNegotiation(t *testing.T) {
	n := dataspace.ParseNegotiation(decode(t, `{
		"@id": "neg-1",
		"state": "FINALIZED",
		"contractAgreementId": "agr-1"
	}`))
	assert.Equal(t, "neg-1", n.ID)
	assert.Equal(t, "FINALIZED", n.State)
	assert.Equal(t, "agr-1", n.ContractAgreementID)

	n = dataspace.ParseNegotiation(decode(t, `{"@id": "neg-2", "edc:state": "TERMINATED", "edc:errorDetail": "policy rejected"}`))
	assert.Equal(t, "TERMINATED", n.State)
	assert.Equal(t, "policy rejected", n.ErrorDetail)
}

func TestParseDataAddress(t *testing.T) {
	da := dataspace.ParseDataAddress(decode(t, `{
		"@type": "DataAddress",
		"endpoint": "http://dp.local/public",
		"authorization": "token-1",
		"https://w3id.org/edc/v0.0.1/ns/authType": "bearer"
	}`))
	assert.Equal(t, dataspace.DataAddressHTTP, da.Type)
	assert.Equal(t, "Authorization", da.AuthKey)
	assert.Equal(t, "token-1", da.Authorization)
	assert.Equal(t, "bearer", da.AuthType)
	assert.False(t, da.IsS3())

	legacy := dataspace.ParseDataAddress(decode(t, `{"edc:endpoint": "http://dp", "edc:authCode": "code"}`))
	assert.Equal(t, "authCode", legacy.AuthKey)
	assert.Equal(t, "code", legacy.Authorization)

	s3 := dataspace.ParseDataAddress(decode(t, `{
		"type": "AmazonS3", "bucketName": "b", "keyName": "k/data.csv",
		"region": "eu-west-1", "accessKeyId": "AK", "secretAccessKey": "SK"
	}`))
	assert.True(t, s3.IsS3())
	assert.Equal(t, "b", s3.Bucket())
	assert.Equal(t, "k/data.csv", s3.Key())
	assert.Equal(t, "AK", s3.AccessKeyID())

	b, err := json.Marshal(da)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "token-1", "credential never serialized")
}

func TestRemoteErrorMessage(t *testing.T) {
	err := dataspace.NewRemoteError("POST /x", "http://h/x", 400, []byte(`[{"message": "bad querySpec", "type": "ValidationFailure"}]`))
	assert.Equal(t, "bad querySpec", err.Message)
	assert.Contains(t, err.Error(), "400")

	var re *dataspace.RemoteError
	wrapped := fmt.Errorf("catalog: %w", err)
	require.True(t, errors.As(wrapped, &re))
	assert.False(t, re.IsNotFound())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, dataspace.IsRetryable(&dataspace.NegotiationTimeoutError{NegotiationID: "n"}))
	assert.True(t, dataspace.IsRetryable(fmt.Errorf("edr: %w", &dataspace.EdrTimeoutError{AgreementID: "a"})))
	assert.True(t, dataspace.IsRetryable(&dataspace.RemoteError{StatusCode: 503}))
	assert.False(t, dataspace.IsRetryable(&dataspace.RemoteError{StatusCode: 404}))
	assert.False(t, dataspace.IsRetryable(&dataspace.NegotiationFailedError{State: "TERMINATED"}))
	assert.False(t, dataspace.IsRetryable(&dataspace.FetchError{StatusCode: 403}))
}

func TestQuerySpecPayload(t *testing.T) {
	q := dataspace.QuerySpec{Limit: 10, FilterExpression: []dataspace.Criterion{dataspace.Eq("agreementId", "agr-1")}}
	p := q.Payload("")
	assert.Equal(t, dataspace.TypeQuerySpec, p["@type"])
	assert.Equal(t, map[string]any{"@vocab": dataspace.NamespaceEDC}, p["@context"])
	assert.Len(t, p["filterExpression"], 1)
}
