// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package provide

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/provider"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

var Command = &cobra.Command{
	Use:   "provide",
	Short: "Register an asset with its policies and contract definition",
	Long: `This command publishes an asset on the local connector: the asset itself, an access
and a usage policy restricted to the consumer BPN, and the contract definition tying them.
Existing resources are left untouched.

Usage examples:

1. An asset served over HTTP:

	dsctl provide --asset-id weather --asset-url https://data.local/weather.json --file-type json

2. A local file uploaded to the default bucket:

	dsctl provide --asset-id report --file ./report.csv --file-type csv
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := util.EnvFromContext(cmd.Context())
		if err != nil {
			return err
		}
		conf, err := env.ConsumerConfig()
		if err != nil {
			return err
		}
		req, err := buildRequest(env)
		if err != nil {
			return err
		}
		svc, err := provider.NewProviderService(cmd.Context(), conf)
		if err != nil {
			return err
		}
		return runCommand(cmd, env, svc, req)
	},
}

func buildRequest(env *util.Env) (provider.PublishRequest, error) {
	s := env.Settings
	asset := provider.AssetRequest{
		ID:          firstNonEmpty(opts.AssetID, s.AssetID),
		Description: firstNonEmpty(opts.Description, s.AssetDesc),
		Type:        opts.Type,
		FileType:    opts.FileType,
		ContentType: opts.ContentType,
	}
	if asset.ID == "" {
		return provider.PublishRequest{}, errors.New("asset id not specified")
	}
	if len(opts.Properties) > 0 {
		asset.Properties = make(map[string]any, len(opts.Properties))
		for k, v := range opts.Properties {
			asset.Properties[k] = v
		}
	}

	switch {
	case opts.File != "" || opts.Key != "":
		asset.S3 = &provider.S3Source{Bucket: opts.Bucket, Key: opts.Key, LocalFile: opts.File}
	default:
		url := firstNonEmpty(opts.AssetURL, s.AssetURL)
		if url == "" {
			return provider.PublishRequest{}, errors.New("either --asset-url or --file/--key is required")
		}
		asset.HTTP = &provider.HTTPSource{BaseURL: url}
	}
	return provider.PublishRequest{Asset: asset, ConsumerBPN: opts.ConsumerBPN}, nil
}

func runCommand(cmd *cobra.Command, env *util.Env, svc *provider.ProviderService, req provider.PublishRequest) error {
	if opts.Confirm {
		msg := fmt.Sprintf("Publish asset %s from %s? [Y/n] ", req.Asset.ID, sourceOf(req.Asset))
		if err := utils.WaitForConfirmation(cmd.InOrStdin(), cmd.ErrOrStderr(), msg); err != nil {
			return err
		}
	}

	res, err := svc.Publish(cmd.Context(), req)
	if err != nil {
		return err
	}
	return utils.PrintOutput(cmd.OutOrStdout(), env.Output, res, func(w io.Writer) error {
		state := color.GreenString("created")
		if !res.AssetCreated {
			state = color.YellowString("already registered")
		}
		fmt.Fprintf(w, "asset %s %s (%s)\n", res.AssetID, state, res.Source)
		if res.ContractDefinitionID == "" {
			fmt.Fprintln(w, "no consumer BPN configured, policies and contract definition skipped")
			return nil
		}
		fmt.Fprintf(w, "access policy:       %s\n", res.AccessPolicyID)
		fmt.Fprintf(w, "usage policy:        %s\n", res.UsagePolicyID)
		fmt.Fprintf(w, "contract definition: %s\n", res.ContractDefinitionID)
		return nil
	})
}

func sourceOf(a provider.AssetRequest) string {
	switch {
	case a.HTTP != nil:
		return a.HTTP.BaseURL
	case a.S3 != nil && a.S3.LocalFile != "":
		return a.S3.LocalFile
	case a.S3 != nil:
		return "s3://" + a.S3.Bucket + "/" + a.S3.Key
	default:
		return "unknown source"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
