// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package federate

import (
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/proxy"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/services/catalog"
)

var addr string

var Command = &cobra.Command{
	Use:   "federate",
	Short: "Federated catalog over several connectors",
}

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serve the federated catalog over HTTP",
	Long: `This command starts an HTTP endpoint relaying catalog queries to every connector
listed in FEDERATED_CONNECTORS.

	POST /federated-catalog/query   QuerySpec body (optional), returns the datasets
	GET  /healthz
	GET  /metrics                   Prometheus metrics
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
		return proxy.ListenAndServe(cmd.Context(), addr, proxy.NewHandler(svc, conf.Federation.Connectors))
	},
}

func init() {
	serveCommand.Flags().StringVar(&addr, "addr", ":8080", "Listen address.")
	Command.AddCommand(serveCommand)
}
