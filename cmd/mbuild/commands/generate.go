// Copyright 2026 The mbuild Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/metabuild/mbuild/config"
	"github.com/metabuild/mbuild/generate"
	"github.com/metabuild/mbuild/logging"
	"github.com/metabuild/mbuild/manifest"
	"github.com/metabuild/mbuild/toolchain"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "generate [flags] <builddir>",
		Short: "Configure a build directory and write its build file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				ConfigFile: configFile,
				Environ:    c.environ,
				Flags:      cmd.Flags(),
				Overrides:  map[string]interface{}{"builddir": args[0]},
			})
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.BuildDir, 0777); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", cfg.BuildDir)
			}
			if _, err := cfg.Save(); err != nil {
				return err
			}
			return c.write(cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&configFile, "config", "", "configuration file read before the environment")
	return cmd
}

func (c *CLI) newRegenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate [builddir]",
		Short: "Rewrite the build file of a configured build directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builddir := "."
			if len(args) > 0 {
				builddir = args[0]
			}
			cfg, err := config.LoadSaved(builddir)
			if err != nil {
				return err
			}
			return c.write(cmd, cfg)
		},
	}
}

// write resolves the build description of cfg and writes the build file.
func (c *CLI) write(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	env, err := toolchain.NewEnv(cfg)
	if err != nil {
		return err
	}
	inputs, err := manifest.Load(env, cfg.SrcDir, logger)
	if err != nil {
		return err
	}
	_, err = generate.WriteFile(env, inputs, generate.WithLogger(logger))
	return err
}
