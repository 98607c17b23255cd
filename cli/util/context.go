// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"context"
	"errors"

	"github.com/spf13/viper"

	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/config"
	"github.com/scc-digitalhub/dataspace-client-sdk/sdk/utils"
)

// Env is what the root command resolved before running a subcommand.
type Env struct {
	Settings *utils.Settings
	Viper    *viper.Viper
	Config   config.Config
	IniPath  string
	Output   string
}

type envKey struct{}

func ContextWithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

func EnvFromContext(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, errors.New("failed to get environment from context")
	}
	return env, nil
}

// ConsumerConfig returns the configuration after checking the keys every
// connector call needs.
func (e *Env) ConsumerConfig() (config.Config, error) {
	if err := e.Config.Validate(); err != nil {
		return config.Config{}, err
	}
	return e.Config, nil
}
