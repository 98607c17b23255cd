// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/cmd/catalog"
	"github.com/scc-digitalhub/dataspace-client-sdk/cli/cmd/consume"
	"github.com/scc-digitalhub/dataspace-client-sdk/cli/cmd/env"
	"github.com/scc-digitalhub/dataspace-client-sdk/cli/cmd/federate"
	"github.com/scc-digitalhub/dataspace-client-sdk/cli/cmd/provide"
	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

var opts = &options{}

type options struct {
	EnvFile  string
	Env      string
	IniPath  string
	LogLevel string
	Output   string
}

var RootCommand = &cobra.Command{
	Use:   "dsctl",
	Short: "Consume and provide data through a dataspace connector",
	Long: `dsctl drives a dataspace connector through its management API: catalog queries,
contract negotiation, EDR-based downloads and asset registration.

Settings are read, from lowest to highest precedence, from the current environment
of ~/.dsctl.ini, the --env-file, the process environment and the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		overrides := map[string]any{}
		if opts.LogLevel != "" {
			overrides[utils.LogLevelKey] = opts.LogLevel
		}
		iniPath := opts.IniPath
		if iniPath == "" {
			iniPath = utils.IniPath()
		}

		settings, v, err := utils.LoadSettings(utils.LoadOptions{
			EnvFile:     opts.EnvFile,
			Environment: opts.Env,
			IniPath:     iniPath,
			Overrides:   overrides,
		})
		if err != nil {
			return err
		}
		if err := utils.SetupLogging(settings.LogLevel); err != nil {
			return err
		}
		conf, err := settings.ToConfig()
		if err != nil {
			return err
		}

		cmd.SetContext(util.ContextWithEnv(cmd.Context(), &util.Env{
			Settings: settings,
			Viper:    v,
			Config:   conf,
			IniPath:  iniPath,
			Output:   opts.Output,
		}))
		return nil
	},
}

func init() {
	flags := RootCommand.PersistentFlags()
	flags.StringVar(&opts.EnvFile, "env-file", "", "Dotenv file with the connector settings (BASE_URL, API_KEY, ...).")
	flags.StringVar(&opts.Env, "env", "", "Environment of ~/.dsctl.ini to use instead of the current one.")
	flags.StringVar(&opts.IniPath, "ini", "", "Location of the environment profiles.")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error. Overrides LOG_LEVEL.")
	flags.StringVarP(&opts.Output, "output", "o", utils.FormatShort, "Output format: short, json or yaml.")
	_ = flags.MarkHidden("ini")

	RootCommand.AddCommand(
		consume.Command,
		catalog.Command,
		provide.Command,
		federate.Command,
		env.Command,
	)
}
