// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataspace

const (
	NamespaceEDC      = "https://w3id.org/edc/v0.0.1/ns/"
	NamespaceODRL     = "http://www.w3.org/ns/odrl/2/"
	NamespaceDCAT     = "https://www.w3.org/ns/dcat/"
	NamespaceDCT      = "http://purl.org/dc/terms/"
	NamespaceDSpace   = "https://w3id.org/dspace/v0.8/"
	NamespaceTX       = "https://w3id.org/tractusx/v0.0.1/ns/"
	NamespaceTXAuth   = "https://w3id.org/tractusx/auth/"
	NamespaceCXPolicy = "https://w3id.org/catenax/policy/"

	// ProtocolDSP is the protocol identifier sent in catalog and contract requests.
	ProtocolDSP = "dataspace-protocol-http"

	TypeCatalogRequest  = "CatalogRequest"
	TypeContractRequest = "ContractRequest"
	TypeTransferRequest = "TransferRequest"
	TypeQuerySpec       = "QuerySpec"
	TypeOffer           = "odrl:Offer"
)

// Term aliases tried, in order, when reading compacted or expanded JSON-LD documents.
var (
	KeysDatasets     = []string{"dcat:dataset", "edc:datasets", NamespaceDCAT + "dataset", "dataset"}
	KeysHasPolicy    = []string{"odrl:hasPolicy", NamespaceODRL + "hasPolicy", "hasPolicy"}
	KeysFileType     = []string{"tx:fileType", "edc:fileType", NamespaceTX + "fileType", NamespaceEDC + "fileType", "fileType"}
	KeysContentType  = []string{"contenttype", "edc:contenttype", NamespaceEDC + "contenttype", "contentType", "dct:format"}
	KeysDescription  = []string{"description", "edc:description", NamespaceEDC + "description", "dct:description", NamespaceDCT + "description"}
	KeysAssetType    = []string{"edc:type", NamespaceEDC + "type", "type"}
	KeysDistribution = []string{"dcat:distribution", NamespaceDCAT + "distribution", "distribution"}
	KeysParticipant  = []string{"dspace:participantId", NamespaceDSpace + "participantId", "participantId"}
)

// EDCContext returns the @context used for management requests, with the
// EDC namespace as vocabulary.
func EDCContext(edcNamespace string) map[string]any {
	if edcNamespace == "" {
		edcNamespace = NamespaceEDC
	}
	return map[string]any{"@vocab": edcNamespace}
}

// NegotiationContext is the @context sent with contract requests.
func NegotiationContext(edcNamespace string) map[string]any {
	if edcNamespace == "" {
		edcNamespace = NamespaceEDC
	}
	return map[string]any{
		"odrl":      NamespaceODRL,
		"edc":       edcNamespace,
		"cx-policy": NamespaceCXPolicy,
		"tx":        NamespaceTX,
	}
}
