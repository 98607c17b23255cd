// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/scc-digitalhub/dataspace-client-sdk/cli/util"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

var Command = &cobra.Command{
	Use:   "env",
	Short: "Manage the environment profiles stored in ~/.dsctl.ini",
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List the environments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := util.EnvFromContext(cmd.Context())
		if err != nil {
			return err
		}
		profiles, err := utils.ListProfiles(env.IniPath)
		if err != nil {
			return err
		}
		return utils.PrintOutput(cmd.OutOrStdout(), env.Output, profiles, func(w io.Writer) error {
			rows := lo.Map(profiles, func(p utils.Profile, _ int) []string {
				current := ""
				if p.Current {
					current = "*"
				}
				keys := slices.Sorted(maps.Keys(p.Values))
				return []string{current, p.Name, p.Values[utils.BaseURLKey], strings.Join(keys, ",")}
			})
			return util.Table(w, []string{"", "NAME", "BASE URL", "KEYS"}, rows)
		})
	},
}

var useCommand = &cobra.Command{
	Use:   "use <name>",
	Short: "Make an environment the current one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := util.EnvFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := utils.UseProfile(env.IniPath, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "current environment: %s\n", args[0])
		return nil
	},
}

var saveCommand = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the resolved settings (env file, process env, flags) as an environment",
	Long: `This command writes the settings in effect into ~/.dsctl.ini, so that later runs
do not need the env file.

	dsctl --env-file consumer.env env save staging
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := util.EnvFromContext(cmd.Context())
		if err != nil {
			return err
		}
		name := utils.DefaultEnvironment
		if len(args) == 1 {
			name = args[0]
		}
		if err := utils.SaveProfile(env.Viper, env.IniPath, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "environment %s saved to %s\n", name, env.IniPath)
		return nil
	},
}

func init() {
	Command.AddCommand(listCommand, useCommand, saveCommand)
}
