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
	"runtime"
	"sort"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	xcpu "golang.org/x/sys/cpu"
)

// HostReport describes the machine the probe runs on.
type HostReport struct {
	OS        string          `json:"os" yaml:"os"`
	Platform  string          `json:"platform" yaml:"platform"`
	Kernel    string          `json:"kernel" yaml:"kernel"`
	Arch      string          `json:"arch" yaml:"arch"`
	Model     string          `json:"model" yaml:"model"`
	Vendor    string          `json:"vendor" yaml:"vendor"`
	Logical   int             `json:"logical_cpus" yaml:"logical_cpus"`
	Physical  int             `json:"physical_cpus" yaml:"physical_cpus"`
	BigEndian bool            `json:"big_endian" yaml:"big_endian"`
	Features  map[string]bool `json:"features" yaml:"features"`
}

func NewHostCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Show CPU details relevant to atomic operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			r := probeHost(f)
			return f.Success("", r, func(w io.Writer) { writeHost(w, r) })
		},
	}
}

// probeHost never fails: fields gopsutil cannot read stay empty.
func probeHost(f *OutputFormatter) HostReport {
	r := HostReport{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		BigEndian: xcpu.IsBigEndian,
		Features:  isaFeatures(),
	}
	if hi, err := host.Info(); err == nil {
		r.Platform = hi.Platform + " " + hi.PlatformVersion
		r.Kernel = hi.KernelVersion
	} else {
		f.VerboseLog("host info: %v", err)
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		r.Model = infos[0].ModelName
		r.Vendor = infos[0].VendorID
	} else if err != nil {
		f.VerboseLog("cpu info: %v", err)
	}
	if n, err := cpu.Counts(true); err == nil {
		r.Logical = n
	}
	if n, err := cpu.Counts(false); err == nil {
		r.Physical = n
	}
	return r
}

// isaFeatures reports the instruction set extensions that decide which
// widths can be lock free.
func isaFeatures() map[string]bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return map[string]bool{
			"cx16":   xcpu.X86.HasCX16,
			"popcnt": xcpu.X86.HasPOPCNT,
			"sse42":  xcpu.X86.HasSSE42,
			"avx2":   xcpu.X86.HasAVX2,
		}
	case "arm64":
		return map[string]bool{
			"atomics": xcpu.ARM64.HasATOMICS,
			"asimd":   xcpu.ARM64.HasASIMD,
		}
	}
	return map[string]bool{}
}

func writeHost(w io.Writer, r HostReport) {
	fmt.Fprintf(w, "os:        %s %s\n", r.OS, r.Platform)
	fmt.Fprintf(w, "kernel:    %s\n", r.Kernel)
	fmt.Fprintf(w, "arch:      %s (big endian: %s)\n", r.Arch, yesNo(r.BigEndian))
	fmt.Fprintf(w, "cpu:       %s %s\n", r.Vendor, r.Model)
	fmt.Fprintf(w, "cpus:      %d logical, %d physical\n", r.Logical, r.Physical)
	names := make([]string, 0, len(r.Features))
	for n := range r.Features {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "feature:   %-8s %s\n", n, yesNo(r.Features[n]))
	}
}
