// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package consume

import "time"

var opts = &options{}

type options struct {
	ProviderURL string
	ProviderBPN string
	Destination string
	Mode        string
	Timeout     time.Duration
	Parallel    int
	Progress    bool
}

func init() {
	flags := Command.Flags()
	flags.StringVar(&opts.ProviderURL, "provider-url", "",
		"Provider DSP endpoint (counterPartyAddress). Defaults to PROVIDER_URL.")
	flags.StringVar(&opts.ProviderBPN, "provider-bpn", "",
		"Provider business partner number (counterPartyId). Defaults to PROVIDER_BPN.")
	flags.StringVar(&opts.Destination, "dest", "",
		"Local directory or s3://bucket/prefix to store the data. Defaults to ARTIFACT_DOWNLOAD_PATH.")
	flags.StringVar(&opts.Mode, "mode", "",
		"Negotiation mode: edr (the connector opens the transfer) or contract.")
	flags.DurationVar(&opts.Timeout, "timeout", 0,
		"Overall deadline for each asset, on top of the polling timeouts.")
	flags.IntVar(&opts.Parallel, "parallel", 0,
		"Assets retrieved concurrently when several ids are given.")
	flags.BoolVar(&opts.Progress, "progress", false,
		"Render download progress on stderr.")
}
