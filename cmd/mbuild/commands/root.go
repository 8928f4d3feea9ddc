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
// Package commands implements the command line interface of mbuild.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Version is the release of mbuild, set at link time.
var Version = "dev"

// CLI is the mbuild command line.
type CLI struct {
	rootCmd *cobra.Command
	environ []string
}

// Option configures a CLI.
type Option func(*CLI)

// WithEnviron replaces the process environment seen by configuration
// loading.
func WithEnviron(environ []string) Option {
	return func(c *CLI) {
		c.environ = environ
	}
}

// New returns the mbuild command line.
func New(opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mbuild",
		Short:         "Generate ninja build files from a build description",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{rootCmd: rootCmd}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newRegenerateCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
