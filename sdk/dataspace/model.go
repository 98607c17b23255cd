// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace

import (
	"maps"
	"strings"
	"time"
)

// Dataset is a provider offer as advertised in a catalog. Known properties
// are typed; everything else is kept in Extensions.
type Dataset struct {
	ID            string         `json:"id"                    yaml:"id"`
	Policies      []Policy       `json:"policies,omitempty"    yaml:"policies,omitempty"`
	ContentType   string         `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	FileType      string         `json:"fileType,omitempty"    yaml:"fileType,omitempty"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	AssetType     string         `json:"assetType,omitempty"     yaml:"assetType,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty" yaml:"distributions,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"    yaml:"extensions,omitempty"`
	Raw           map[string]any `json:"-"                       yaml:"-"`
}

// Distribution is one dcat:distribution of a dataset: a transfer format
// and the data service that serves it.
type Distribution struct {
	Format        string `json:"format,omitempty"      yaml:"format,omitempty"`
	AccessURL     string `json:"accessUrl,omitempty"   yaml:"accessUrl,omitempty"`
	AccessService string `json:"accessService,omitempty" yaml:"accessService,omitempty"`
}

// Policy is an odrl policy as issued by the provider. Raw is echoed back in
// contract requests and must keep the provider's @id.
type Policy struct {
	ID       string         `json:"id"                 yaml:"id"`
	Type     string         `json:"type"               yaml:"type"`
	Target   string         `json:"target,omitempty"   yaml:"target,omitempty"`
	Assigner string         `json:"assigner,omitempty" yaml:"assigner,omitempty"`
	Raw      map[string]any `json:"-"                  yaml:"-"`
}

// Catalog is one page of a provider catalog.
type Catalog struct {
	ParticipantID string         `json:"participantId,omitempty" yaml:"participantId,omitempty"`
	Datasets      []Dataset      `json:"datasets"                yaml:"datasets"`
	Raw           map[string]any `json:"-"                       yaml:"-"`
}

// Find returns the dataset with the given id, if present.
func (c *Catalog) Find(assetID string) (*Dataset, bool) {
	for i := range c.Datasets {
		if c.Datasets[i].ID == assetID {
			return &c.Datasets[i], true
		}
	}
	return nil, false
}

// ParseCatalog reads a catalog response body already decoded as a JSON object.
func ParseCatalog(raw map[string]any) *Catalog {
	cat := &Catalog{
		ParticipantID: LookupString(raw, KeysParticipant...),
		Raw:           raw,
	}
	v, _ := Lookup(raw, KeysDatasets...)
	for _, obj := range Objects(v) {
		cat.Datasets = append(cat.Datasets, ParseDataset(obj))
	}
	return cat
}

var knownDatasetKeys = func() map[string]struct{} {
	m := map[string]struct{}{"@id": {}, "@type": {}, "@context": {}, "id": {}}
	for _, group := range [][]string{KeysHasPolicy, KeysFileType, KeysContentType, KeysDescription, KeysAssetType, KeysDistribution} {
		for _, k := range group {
			m[k] = struct{}{}
		}
	}
	return m
}()

// ParseDataset maps a dcat:Dataset node onto Dataset.
func ParseDataset(obj map[string]any) Dataset {
	ds := Dataset{
		ID:          ID(obj),
		ContentType: LookupString(obj, KeysContentType...),
		FileType:    LookupString(obj, KeysFileType...),
		Description: LookupString(obj, KeysDescription...),
		AssetType:   LookupString(obj, KeysAssetType...),
		Raw:         obj,
	}
	if v, ok := Lookup(obj, KeysHasPolicy...); ok {
		for _, p := range Objects(v) {
			ds.Policies = append(ds.Policies, ParsePolicy(p))
		}
	}
	if v, ok := Lookup(obj, KeysDistribution...); ok {
		for _, d := range Objects(v) {
			ds.Distributions = append(ds.Distributions, parseDistribution(d))
		}
	}
	for k, v := range obj {
		if _, known := knownDatasetKeys[k]; known {
			continue
		}
		if ds.Extensions == nil {
			ds.Extensions = map[string]any{}
		}
		ds.Extensions[k] = v
	}
	return ds
}

func parseDistribution(obj map[string]any) Distribution {
	d := Distribution{
		Format:    LookupString(obj, "dct:format", NamespaceDCT+"format", "format"),
		AccessURL: LookupString(obj, "dcat:accessURL", NamespaceDCAT+"accessURL", "accessURL"),
	}
	if svc, ok := Lookup(obj, "dcat:accessService", NamespaceDCAT+"accessService", "accessService"); ok {
		if m, isObj := svc.(map[string]any); isObj {
			d.AccessService = ID(m)
			if d.AccessURL == "" {
				d.AccessURL = LookupString(m, "dcat:endpointURL", NamespaceDCAT+"endpointURL", "endpointURL")
			}
		} else {
			d.AccessService = StringValue(svc)
		}
	}
	return d
}

func ParsePolicy(obj map[string]any) Policy {
	return Policy{
		ID:       ID(obj),
		Type:     StringValue(obj["@type"]),
		Target:   LookupString(obj, "odrl:target", NamespaceODRL+"target", "target"),
		Assigner: LookupString(obj, "odrl:assigner", NamespaceODRL+"assigner", "assigner"),
		Raw:      obj,
	}
}

// Clone returns a shallow copy of the raw policy object.
func (p Policy) Clone() map[string]any {
	out := make(map[string]any, len(p.Raw))
	maps.Copy(out, p.Raw)
	return out
}

// OfferFor returns the policy as echoed in a contract request: the provider's
// @id is kept, target and assigner are set and @type defaults to odrl:Offer.
// Expanded or bare target/assigner keys are replaced by the compacted ones.
func (p Policy) OfferFor(assetID, assignerBPN string) map[string]any {
	offer := p.Clone()
	for _, k := range []string{NamespaceODRL + "target", "target", NamespaceODRL + "assigner", "assigner"} {
		delete(offer, k)
	}
	if p.ID != "" {
		offer["@id"] = p.ID
	}
	if StringValue(offer["@type"]) == "" {
		offer["@type"] = TypeOffer
	}
	offer["odrl:target"] = map[string]any{"@id": assetID}
	if assignerBPN == "" {
		assignerBPN = p.Assigner
	}
	if assignerBPN != "" {
		offer["odrl:assigner"] = map[string]any{"@id": assignerBPN}
	}
	return offer
}

// NegotiationHandle identifies a contract negotiation owned by the consumer connector.
type NegotiationHandle struct {
	ID        string    `json:"id"        yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Negotiation is the state of a contract negotiation as reported by the connector.
type Negotiation struct {
	ID                  string `json:"id"                            yaml:"id"`
	State               string `json:"state"                         yaml:"state"`
	ContractAgreementID string `json:"contractAgreementId,omitempty" yaml:"contractAgreementId,omitempty"`
	ErrorDetail         string `json:"errorDetail,omitempty"         yaml:"errorDetail,omitempty"`
	CounterPartyID      string `json:"counterPartyId,omitempty"      yaml:"counterPartyId,omitempty"`
	CounterPartyAddress string `json:"counterPartyAddress,omitempty" yaml:"counterPartyAddress,omitempty"`
}

func ParseNegotiation(obj map[string]any) Negotiation {
	return Negotiation{
		ID:                  ID(obj),
		State:               LookupString(obj, "state", "edc:state", NamespaceEDC+"state"),
		ContractAgreementID: LookupString(obj, "contractAgreementId", "edc:contractAgreementId", NamespaceEDC+"contractAgreementId"),
		ErrorDetail:         LookupString(obj, "errorDetail", "edc:errorDetail", NamespaceEDC+"errorDetail"),
		CounterPartyID:      LookupString(obj, "counterPartyId", "edc:counterPartyId", NamespaceEDC+"counterPartyId"),
		CounterPartyAddress: LookupString(obj, "counterPartyAddress", "edc:counterPartyAddress", NamespaceEDC+"counterPartyAddress"),
	}
}

// EDREntry is one entry of the consumer connector's EDR cache.
type EDREntry struct {
	TransferProcessID string `json:"transferProcessId"       yaml:"transferProcessId"`
	AgreementID       string `json:"agreementId"             yaml:"agreementId"`
	AssetID           string `json:"assetId,omitempty"       yaml:"assetId,omitempty"`
	ProviderID        string `json:"providerId,omitempty"    yaml:"providerId,omitempty"`
	NegotiationID     string `json:"negotiationId,omitempty" yaml:"negotiationId,omitempty"`
	CreatedAt         int64  `json:"createdAt,omitempty"     yaml:"createdAt,omitempty"`
}

func ParseEDREntry(obj map[string]any) EDREntry {
	e := EDREntry{
		TransferProcessID: LookupString(obj, "transferProcessId", "edc:transferProcessId", NamespaceEDC+"transferProcessId"),
		AgreementID:       LookupString(obj, "agreementId", "edc:agreementId", NamespaceEDC+"agreementId"),
		AssetID:           LookupString(obj, "assetId", "edc:assetId", NamespaceEDC+"assetId"),
		ProviderID:        LookupString(obj, "providerId", "edc:providerId", NamespaceEDC+"providerId"),
		NegotiationID:     LookupString(obj, "contractNegotiationId", "edc:contractNegotiationId", NamespaceEDC+"contractNegotiationId"),
	}
	if e.TransferProcessID == "" {
		e.TransferProcessID = ID(obj)
	}
	if v, ok := Lookup(obj, "createdAt", "edc:createdAt", NamespaceEDC+"createdAt"); ok {
		if f, ok := v.(float64); ok {
			e.CreatedAt = int64(f)
		}
	}
	return e
}

const (
	DataAddressHTTP = "HttpData"
	DataAddressS3   = "AmazonS3"
)

// DataAddress is the short-lived credential returned for an EDR. It must not
// be kept beyond the workflow that obtained it.
type DataAddress struct {
	Type          string            `json:"type"                    yaml:"type"`
	Endpoint      string            `json:"endpoint,omitempty"      yaml:"endpoint,omitempty"`
	Authorization string            `json:"-"                       yaml:"-"`
	AuthKey       string            `json:"authKey,omitempty"       yaml:"authKey,omitempty"`
	AuthType      string            `json:"authType,omitempty"      yaml:"authType,omitempty"`
	Properties    map[string]string `json:"-"                       yaml:"-"`
}

// ParseDataAddress accepts plain, edc-prefixed and expanded property names.
func ParseDataAddress(obj map[string]any) *DataAddress {
	props := map[string]string{}
	for k, v := range obj {
		if strings.HasPrefix(k, "@") {
			continue
		}
		if s := StringValue(v); s != "" {
			props[LocalName(k)] = s
		}
	}
	da := &DataAddress{
		Type:       props["type"],
		Endpoint:   props["endpoint"],
		AuthType:   props["authType"],
		AuthKey:    props["authKey"],
		Properties: props,
	}
	switch {
	case props["authorization"] != "":
		da.Authorization = props["authorization"]
		if da.AuthKey == "" {
			da.AuthKey = "Authorization"
		}
	case props["authCode"] != "":
		da.Authorization = props["authCode"]
		if da.AuthKey == "" {
			da.AuthKey = "authCode"
		}
	}
	if da.Type == "" && da.Endpoint != "" {
		da.Type = DataAddressHTTP
	}
	return da
}

// IsS3 reports whether the address grants direct object-store access.
func (d *DataAddress) IsS3() bool {
	return strings.EqualFold(LocalName(d.Type), DataAddressS3) || d.Properties["bucketName"] != ""
}

func (d *DataAddress) Bucket() string           { return d.Properties["bucketName"] }
func (d *DataAddress) Key() string              { return d.Properties["keyName"] }
func (d *DataAddress) Region() string           { return d.Properties["region"] }
func (d *DataAddress) EndpointOverride() string { return d.Properties["endpointOverride"] }
func (d *DataAddress) AccessKeyID() string      { return d.Properties["accessKeyId"] }
func (d *DataAddress) SecretAccessKey() string  { return d.Properties["secretAccessKey"] }
func (d *DataAddress) SessionToken() string     { return d.Properties["sessionToken"] }

// DownloadResult is the terminal artifact of a consumer workflow.
type DownloadResult struct {
	Filename    string `json:"filename"              yaml:"filename"`
	Size        int64  `json:"size"                  yaml:"size"`
	Path        string `json:"path"                  yaml:"path"`
	Extension   string `json:"extension,omitempty"   yaml:"extension,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Source      string `json:"source,omitempty"      yaml:"source,omitempty"`
}
