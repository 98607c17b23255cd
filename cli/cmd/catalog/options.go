// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

var opts = &options{}

type options struct {
	ProviderURL string
	ProviderBPN string
	Filters     []string
	Likes       []string
	Offset      int
	Limit       int
	Federated   bool
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ProviderURL, "provider-url", "",
		"Provider DSP endpoint. Defaults to PROVIDER_URL.")
	flags.StringVar(&opts.ProviderBPN, "provider-bpn", "",
		"Provider business partner number. Defaults to PROVIDER_BPN.")
	flags.StringArrayVar(&opts.Filters, "filter", nil,
		"Equality criterion key=value; may be repeated.")
	flags.StringArrayVar(&opts.Likes, "like", nil,
		"LIKE criterion key=pattern with % wildcards; may be repeated.")
	flags.IntVar(&opts.Offset, "offset", 0, "Index of the first dataset.")
	flags.IntVar(&opts.Limit, "limit", 0, "Maximum number of datasets. Defaults to CATALOG_REQUEST_LIMIT.")
	flags.BoolVar(&opts.Federated, "federated", false,
		"Query every connector in FEDERATED_CONNECTORS instead of a single provider.")
}
