// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/edr"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/negotiation"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/transfer"
)

// Run retrieves one asset. The partial Result is returned together with a
// *StageError when a stage fails.
func (c *Consumer) Run(ctx context.Context, req Request) (*Result, error) {
	if req.AssetID == "" {
		return nil, errors.New("asset id not specified")
	}
	if c.conf.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.conf.Deadline)
		defer cancel()
	}

	res := &Result{AssetID: req.AssetID, Durations: map[Stage]time.Duration{}}
	fail := func(stage Stage, err error) (*Result, error) {
		log.Errorw("workflow failed", "asset", req.AssetID, "stage", stage, "error", err)
		return res, &StageError{Stage: stage, AssetID: req.AssetID, Err: err}
	}
	timed := func(stage Stage, start time.Time) {
		res.Durations[stage] += time.Since(start)
	}

	start := time.Now()
	ds, err := c.catalog.ResolveDataset(ctx, catalog.ResolveRequest{
		ProviderRef: catalog.ProviderRef{ProtocolURL: req.ProviderProtocolURL, PartyID: req.ProviderBPN},
		AssetID:     req.AssetID,
	})
	timed(StageCatalog, start)
	if err != nil {
		return fail(StageCatalog, err)
	}

	start = time.Now()
	policy, hint, err := catalog.ExtractPolicyAndMetadata(ds)
	timed(StagePolicy, start)
	if err != nil {
		return fail(StagePolicy, err)
	}
	res.PolicyID, res.FileTypeHint = policy.ID, hint

	start = time.Now()
	handle, err := c.negotiation.Initiate(ctx, negotiation.NegotiateRequest{
		CounterPartyAddress: req.ProviderProtocolURL,
		CounterPartyID:      req.ProviderBPN,
		AssetID:             ds.ID,
		Policy:              policy,
	})
	if err != nil {
		timed(StageNegotiation, start)
		return fail(StageNegotiation, err)
	}
	res.NegotiationID = handle.ID
	res.AgreementID, err = c.negotiation.Await(ctx, handle.ID)
	timed(StageNegotiation, start)
	if err != nil {
		return fail(StageNegotiation, err)
	}

	start = time.Now()
	if c.mode == config.NegotiationModeContract {
		if _, err := c.edr.StartTransfer(ctx, edr.TransferRequest{
			AgreementID:         res.AgreementID,
			AssetID:             ds.ID,
			CounterPartyAddress: req.ProviderProtocolURL,
			CounterPartyID:      req.ProviderBPN,
		}); err != nil {
			timed(StageEDR, start)
			return fail(StageEDR, err)
		}
	}
	entry, addr, err := c.edr.AcquireEDR(ctx, res.AgreementID)
	timed(StageEDR, start)
	if entry != nil {
		res.TransferProcessID = entry.TransferProcessID
	}
	if err != nil {
		return fail(StageEDR, err)
	}

	start = time.Now()
	download, err := c.transfer.FetchAndStore(ctx, transfer.FetchRequest{
		Address:      addr,
		FileTypeHint: hint,
		Destination:  req.Destination,
	})
	timed(StageFetch, start)
	if err != nil {
		var fe *dataspace.FetchError
		if errors.As(err, &fe) {
			return fail(StageFetch, err)
		}
		return fail(StageStore, err)
	}
	res.Download = download

	log.Infow("workflow completed", "asset", req.AssetID, "agreement", res.AgreementID, "path", download.Path)
	return res, nil
}
