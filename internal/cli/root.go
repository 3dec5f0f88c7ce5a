/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the patomic-probe command tree.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/logging"
	"github.com/srediag/patomic/pkg/config"
	"github.com/srediag/patomic/pkg/patomic"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Config  string

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for patomic-probe.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "patomic-probe",
		Short: "Inspect and exercise patomic providers",
		Long: `patomic-probe lists the registered atomic providers, prints the
capability matrix they produce for a width and memory order, and stress tests
the resulting operations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			_, err := opts.config()
			return err
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")

	cmd.AddCommand(NewProvidersCommand(opts))
	cmd.AddCommand(NewMatrixCommand(opts))
	cmd.AddCommand(NewHostCommand(opts))
	cmd.AddCommand(NewStressCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// config loads the configuration once and applies the log level.
func (o *RootOptions) config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}
	if o.Verbose {
		logging.SetLogLevel(logging.LevelInfo)
	} else {
		logging.SetLogLevel(cfg.LogLevel)
	}
	o.cfg = cfg
	return cfg, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// selection is the provider filter shared by matrix, stress and serve.
type selection struct {
	width int
	order api.Order
	kinds api.Kind
	ids   api.ID
}

type selectionFlags struct {
	width     int
	order     string
	kinds     []string
	providers []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.width, "width", "w", 0, "object width in bytes (default from config)")
	cmd.Flags().StringVarP(&f.order, "order", "o", "", "memory order (default from config)")
	cmd.Flags().StringSliceVar(&f.kinds, "kinds", nil, "provider kinds to include, e.g. BLTN,LIB")
	cmd.Flags().StringSliceVar(&f.providers, "ids", nil, "provider names to include, e.g. native,lock")
}

// resolve applies the flags that were given on top of c and verifies the
// result. Callers may adjust c before passing it in.
func (f *selectionFlags) resolve(cmd *cobra.Command, c config.Config) (selection, error) {
	if cmd.Flags().Changed("width") {
		c.Width = f.width
	}
	if cmd.Flags().Changed("order") {
		c.Order = f.order
	}
	if cmd.Flags().Changed("kinds") {
		c.Kinds = f.kinds
	}
	if cmd.Flags().Changed("ids") {
		c.Providers = f.providers
	}
	if err := config.VerifyConfig(&c); err != nil {
		return selection{}, WrapExitError(ExitCommandError, "invalid selection", err)
	}
	ids, err := c.IDFilter(patomic.Providers())
	if err != nil {
		return selection{}, WrapExitError(ExitCommandError, "invalid selection", err)
	}
	order, _ := c.MemoryOrder()
	kinds, _ := c.KindFilter()
	return selection{width: c.Width, order: order, kinds: kinds, ids: ids}, nil
}

// names lists the providers that s selects, in registry order.
func (s selection) names() []string {
	var out []string
	for _, p := range patomic.Providers() {
		if p.Kind&s.kinds != 0 && p.ID&s.ids != 0 {
			out = append(out, p.Name)
		}
	}
	return out
}
