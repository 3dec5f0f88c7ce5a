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
	"strings"

	"github.com/spf13/cobra"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/pkg/feature"
	"github.com/srediag/patomic/pkg/patomic"
)

// CategoryReport is one row of the capability matrix.
type CategoryReport struct {
	Category string `json:"category" yaml:"category"`
	All      bool   `json:"all" yaml:"all"`
	Any      bool   `json:"any" yaml:"any"`
	Present  string `json:"present" yaml:"present"`
}

// DomainReport is the matrix of one table domain.
type DomainReport struct {
	Domain     string           `json:"domain" yaml:"domain"`
	Align      api.Align        `json:"align" yaml:"align"`
	Categories []CategoryReport `json:"categories" yaml:"categories"`
}

// Matrix is the output of the matrix command.
type Matrix struct {
	Width     int            `json:"width" yaml:"width"`
	Order     string         `json:"order" yaml:"order"`
	Kinds     string         `json:"kinds" yaml:"kinds"`
	Providers []string       `json:"providers" yaml:"providers"`
	Domains   []DomainReport `json:"domains" yaml:"domains"`
}

func NewMatrixCommand(rootOpts *RootOptions) *cobra.Command {
	var sel selectionFlags
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the capability matrix for a width and memory order",
		Long: `Print, for the implicit, explicit and transactional domains, which
operations of every category the selected providers supply once combined,
together with the alignment the combined table requires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			s, err := sel.resolve(cmd, *cfg)
			if err != nil {
				return err
			}
			return runMatrix(rootOpts.formatter(cmd), s)
		},
	}
	sel.register(cmd)
	return cmd
}

// BuildMatrix creates all three tables for s and reports what they support.
func BuildMatrix(width int, order api.Order, kinds api.Kind, ids api.ID) Matrix {
	s := selection{width: width, order: order, kinds: kinds, ids: ids}
	imp := patomic.Create(width, order, api.OptionNone, kinds, ids)
	exp := patomic.CreateExplicit(width, api.OptionNone, kinds, ids)
	tx := patomic.CreateTransaction(api.OptionNone, kinds, ids)

	return Matrix{
		Width:     width,
		Order:     order.String(),
		Kinds:     kinds.String(),
		Providers: s.names(),
		Domains: []DomainReport{
			domain("implicit", imp.Align, api.OpcatImplicit, func(c api.Opcat) (api.Opcat, api.Opcat, api.Opkind) {
				return feature.CheckAll(&imp.Ops, c), feature.CheckAny(&imp.Ops, c), feature.CheckLeaf(&imp.Ops, c, api.KindsOf(c))
			}),
			domain("explicit", exp.Align, api.OpcatExplicit, func(c api.Opcat) (api.Opcat, api.Opcat, api.Opkind) {
				return feature.CheckAllExplicit(&exp.Ops, c), feature.CheckAnyExplicit(&exp.Ops, c), feature.CheckLeafExplicit(&exp.Ops, c, api.KindsOf(c))
			}),
			domain("transaction", tx.Align, api.OpcatTransaction, func(c api.Opcat) (api.Opcat, api.Opcat, api.Opkind) {
				return feature.CheckAllTransaction(&tx.Ops, c), feature.CheckAnyTransaction(&tx.Ops, c), feature.CheckLeafTransaction(&tx.Ops, c, api.KindsOf(c))
			}),
		},
	}
}

// domain builds a report; check returns the unsatisfied bits of the all,
// any and leaf queries for one category.
func domain(name string, align api.Align, cats api.Opcat, check func(api.Opcat) (api.Opcat, api.Opcat, api.Opkind)) DomainReport {
	d := DomainReport{Domain: name, Align: align}
	for _, c := range api.Leaves {
		if cats&c == 0 {
			continue
		}
		all, anyOf, missing := check(c)
		d.Categories = append(d.Categories, CategoryReport{
			Category: c.String(),
			All:      all == 0,
			Any:      anyOf == 0,
			Present:  (api.KindsOf(c) &^ missing).Format(c),
		})
	}
	return d
}

func runMatrix(f *OutputFormatter, s selection) error {
	m := BuildMatrix(s.width, s.order, s.kinds, s.ids)
	f.VerboseLog("providers: %v", m.Providers)
	return f.Success("", m, func(w io.Writer) { writeMatrix(w, m) })
}

func writeMatrix(w io.Writer, m Matrix) {
	providers := strings.Join(m.Providers, ",")
	if providers == "" {
		providers = "none"
	}
	fmt.Fprintf(w, "width=%d order=%s kinds=%s providers=%s\n", m.Width, m.Order, m.Kinds, providers)
	for _, d := range m.Domains {
		fmt.Fprintf(w, "\n%s align=%d/%d/%d\n", d.Domain, d.Align.Recommended, d.Align.Minimum, d.Align.SizeWithin)
		for _, c := range d.Categories {
			fmt.Fprintf(w, "  %-6s  all=%-3s any=%-3s %s\n", c.Category, yesNo(c.All), yesNo(c.Any), c.Present)
		}
	}
}
