// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package consume

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/workflow"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

var Command = &cobra.Command{
	Use:   "consume [asset-id...]",
	Short: "Negotiate and download assets from a provider",
	Long: `This command runs the consumer workflow for each asset: catalog lookup, contract
negotiation, EDR acquisition and data download.

Usage examples:

1. Download one asset into the default directory:

	dsctl consume asset-1

2. Several assets into a bucket, two at a time:

	dsctl consume asset-1 asset-2 asset-3 --dest s3://artifacts/run-1 --parallel 2

3. Pick the asset from the provider catalog:

	dsctl consume
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := util.EnvFromContext(cmd.Context())
		if err != nil {
			return err
		}
		conf, err := env.ConsumerConfig()
		if err != nil {
			return err
		}
		return runCommand(cmd, env, applyOptions(conf), args)
	},
}

func applyOptions(conf config.Config) config.Config {
	if opts.ProviderURL != "" {
		conf.Provider.ProtocolURL = opts.ProviderURL
	}
	if opts.ProviderBPN != "" {
		conf.Provider.BPN = opts.ProviderBPN
	}
	if opts.Mode != "" {
		conf.Negotiation.Mode = opts.Mode
	}
	if opts.Timeout > 0 {
		conf.Workflow.Deadline = opts.Timeout
	}
	if opts.Parallel > 0 {
		conf.Workflow.Parallelism = opts.Parallel
	}
	conf.Transfer.Verbose = opts.Progress
	return conf
}

func runCommand(cmd *cobra.Command, env *util.Env, conf config.Config, assetIDs []string) error {
	ctx := cmd.Context()
	consumer, err := workflow.NewConsumer(ctx, conf)
	if err != nil {
		return err
	}

	if len(assetIDs) == 0 {
		id, err := selectAsset(cmd, consumer.Catalog(), env.Settings.DefaultAssetID)
		if err != nil {
			return err
		}
		assetIDs = []string{id}
	}

	reqs := lo.Map(assetIDs, func(id string, _ int) workflow.Request {
		return workflow.Request{AssetID: id, Destination: opts.Destination}
	})
	out := cmd.OutOrStdout()

	if len(reqs) == 1 {
		res, err := consumer.Run(ctx, reqs[0])
		if err != nil {
			printFailure(cmd.ErrOrStderr(), util.FailureOf(reqs[0].AssetID, err))
			return err
		}
		return utils.PrintOutput(out, env.Output, res, func(w io.Writer) error {
			printSuccess(w, res)
			return nil
		})
	}

	items, batchErr := consumer.RunBatch(ctx, reqs)
	type itemView struct {
		Result  *workflow.Result `json:"result,omitempty"  yaml:"result,omitempty"`
		Failure *util.Failure    `json:"failure,omitempty" yaml:"failure,omitempty"`
	}
	views := lo.Map(items, func(it workflow.BatchItem, _ int) itemView {
		if it.Err != nil {
			f := util.FailureOf(it.Request.AssetID, it.Err)
			return itemView{Failure: &f}
		}
		return itemView{Result: it.Result}
	})
	if err := utils.PrintOutput(out, env.Output, views, func(w io.Writer) error {
		for _, v := range views {
			if v.Failure != nil {
				printFailure(w, *v.Failure)
				continue
			}
			printSuccess(w, v.Result)
		}
		return nil
	}); err != nil {
		return err
	}
	return batchErr
}

// selectAsset lists the provider catalog and asks which asset to retrieve.
// The configured default asset is used when stdin is not interactive.
func selectAsset(cmd *cobra.Command, svc *catalog.CatalogService, fallback string) (string, error) {
	if fallback != "" && !isTerminal(os.Stdin) {
		return fallback, nil
	}
	cat, err := svc.RequestCatalog(cmd.Context(), catalog.CatalogRequest{})
	if err != nil {
		return "", err
	}
	labels := lo.Map(cat.Datasets, func(ds dataspace.Dataset, _ int) string {
		if ds.Description == "" {
			return ds.ID
		}
		return fmt.Sprintf("%s  %s", ds.ID, utils.Truncate(ds.Description, 60))
	})
	idx, err := utils.SelectIndex(cmd.InOrStdin(), cmd.ErrOrStderr(), "Available assets:", labels)
	if err != nil {
		return "", err
	}
	return cat.Datasets[idx].ID, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func printSuccess(w io.Writer, res *workflow.Result) {
	fmt.Fprintf(w, "%s %s -> %s (%s)\n",
		color.GreenString("OK"), res.AssetID, res.Download.Path, utils.HumanSize(res.Download.Size))
}

func printFailure(w io.Writer, f util.Failure) {
	fmt.Fprintf(w, "%s %s\n  stage:  %s\n  reason: %s\n",
		color.RedString("FAILED"), f.AssetID, f.Stage, f.Reason)
	if f.Retryable {
		fmt.Fprintln(w, color.YellowString("  the failure is transient, the command can be retried"))
	}
}
