// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/dataspace"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

var Command = &cobra.Command{
	Use:   "catalog",
	Short: "List the datasets offered by a provider",
	Long: `This command requests the provider catalog through the local connector.

Usage examples:

1. Datasets whose description mentions robots:

	dsctl catalog --like https://w3id.org/edc/v0.0.1/ns/description=%robot%

2. The first ten datasets of every federated connector:

	dsctl catalog --federated --limit 10 -o json
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
		svc, err := catalog.NewCatalogService(cmd.Context(), conf)
		if err != nil {
			return err
		}
		q, err := buildQuery()
		if err != nil {
			return err
		}
		return runCommand(cmd, env, svc, q)
	},
}

func buildQuery() (dataspace.QuerySpec, error) {
	q := dataspace.QuerySpec{Offset: opts.Offset, Limit: opts.Limit}
	parse := func(raw []string, build func(string, string) dataspace.Criterion) error {
		for _, f := range raw {
			k, v, ok := strings.Cut(f, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid criterion %q, expected key=value", f)
			}
			q.FilterExpression = append(q.FilterExpression, build(k, v))
		}
		return nil
	}
	if err := parse(opts.Filters, func(k, v string) dataspace.Criterion { return dataspace.Eq(k, v) }); err != nil {
		return q, err
	}
	if err := parse(opts.Likes, dataspace.Like); err != nil {
		return q, err
	}
	return q, nil
}

func runCommand(cmd *cobra.Command, env *util.Env, svc *catalog.CatalogService, q dataspace.QuerySpec) error {
	var datasets []dataspace.Dataset
	if opts.Federated {
		res, err := svc.FederatedQuery(cmd.Context(), catalog.FederatedRequest{Query: q})
		if err != nil {
			return err
		}
		for _, f := range res.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "connector %s unavailable: %s\n", f.BPN, f.Error)
		}
		datasets = res.Datasets
	} else {
		cat, err := svc.RequestCatalog(cmd.Context(), catalog.CatalogRequest{
			ProviderRef: catalog.ProviderRef{ProtocolURL: opts.ProviderURL, PartyID: opts.ProviderBPN},
			Query:       q,
		})
		if err != nil {
			return err
		}
		datasets = cat.Datasets
	}

	return utils.PrintOutput(cmd.OutOrStdout(), env.Output, datasets, func(w io.Writer) error {
		rows := lo.Map(datasets, func(ds dataspace.Dataset, _ int) []string {
			policies := lo.Map(ds.Policies, func(p dataspace.Policy, _ int) string { return p.ID })
			return []string{
				ds.ID,
				ds.FileType,
				utils.Truncate(strings.Join(policies, ","), 40),
				utils.Truncate(ds.Description, 50),
			}
		})
		return util.Table(w, []string{"ID", "FILE TYPE", "POLICIES", "DESCRIPTION"}, rows)
	})
}
