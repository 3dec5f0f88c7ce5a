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

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/pkg/patomic"
)

// ProviderInfo describes one registry entry.
type ProviderInfo struct {
	ID            string `json:"id" yaml:"id"`
	Kind          string `json:"kind" yaml:"kind"`
	Name          string `json:"name" yaml:"name"`
	Transactional bool   `json:"transactional" yaml:"transactional"`
}

func NewProvidersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered providers in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviders(rootOpts.formatter(cmd))
		},
	}
}

func listProviders() []ProviderInfo {
	var out []ProviderInfo
	for _, p := range patomic.Providers() {
		out = append(out, ProviderInfo{
			ID:            fmt.Sprintf("%#x", uint32(p.ID)),
			Kind:          p.Kind.String(),
			Name:          p.Name,
			Transactional: p.OpsTransaction(api.OptionNone).Ops.Raw.TBegin != nil,
		})
	}
	return out
}

func runProviders(f *OutputFormatter) error {
	infos := listProviders()
	return f.Success("", infos, func(w io.Writer) {
		fmt.Fprintf(w, "%-5s %-5s %-8s %s\n", "ID", "KIND", "NAME", "TX")
		for _, p := range infos {
			fmt.Fprintf(w, "%-5s %-5s %-8s %s\n", p.ID, p.Kind, p.Name, yesNo(p.Transactional))
		}
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
