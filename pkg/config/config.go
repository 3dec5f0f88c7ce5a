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

// Package config holds the probe configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/logging"
)

const (
	defaultWidth            = 8
	defaultWorkers          = 4
	defaultIterations       = 10000
	defaultAttempts         = 8
	defaultQueueCapacity    = 1024
	defaultListen           = ":9464"
	defaultSelfTestInterval = 5 * time.Second

	maxWidth = 4096
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownName   = errors.New("config: unknown name")
)

// Stress configures the stress command.
type Stress struct {
	Workers       int    `yaml:"workers" json:"workers"`
	Iterations    int    `yaml:"iterations" json:"iterations"`
	Attempts      int    `yaml:"attempts" json:"attempts"`
	QueueCapacity int    `yaml:"queue_capacity" json:"queue_capacity"`
	SHMName       string `yaml:"shm_name" json:"shm_name"`
}

// Serve configures the serve command.
type Serve struct {
	Listen           string        `yaml:"listen" json:"listen"`
	SelfTestInterval time.Duration `yaml:"self_test_interval" json:"self_test_interval"`
}

// Config is the full probe configuration.
type Config struct {
	Width int    `yaml:"width" json:"width"`
	Order string `yaml:"order" json:"order"`
	// Kinds and Providers filter the registry by name. Empty means all.
	Kinds     []string `yaml:"kinds" json:"kinds"`
	Providers []string `yaml:"providers" json:"providers"`
	LogLevel  int      `yaml:"log_level" json:"log_level"`

	Stress Stress `yaml:"stress" json:"stress"`
	Serve  Serve  `yaml:"serve" json:"serve"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Width:    defaultWidth,
		Order:    api.SeqCst.String(),
		LogLevel: logging.LevelWarn,
		Stress: Stress{
			Workers:       defaultWorkers,
			Iterations:    defaultIterations,
			Attempts:      defaultAttempts,
			QueueCapacity: defaultQueueCapacity,
		},
		Serve: Serve{
			Listen:           defaultListen,
			SelfTestInterval: defaultSelfTestInterval,
		},
	}
}

// VerifyConfig reports the first problem in c.
func VerifyConfig(c *Config) error {
	if c.Width < 0 || c.Width > maxWidth {
		return fmt.Errorf("%w: width %d not in [0, %d]", ErrInvalidConfig, c.Width, maxWidth)
	}
	if _, err := c.MemoryOrder(); err != nil {
		return err
	}
	if _, err := c.KindFilter(); err != nil {
		return err
	}
	if c.LogLevel < logging.LevelTrace || c.LogLevel > logging.LevelNoPrint {
		return fmt.Errorf("%w: log level %d", ErrInvalidConfig, c.LogLevel)
	}
	s := c.Stress
	if s.Workers <= 0 {
		return fmt.Errorf("%w: stress workers must be positive, got %d", ErrInvalidConfig, s.Workers)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("%w: stress iterations must not be negative, got %d", ErrInvalidConfig, s.Iterations)
	}
	if s.Attempts < 0 {
		return fmt.Errorf("%w: stress attempts must not be negative, got %d", ErrInvalidConfig, s.Attempts)
	}
	// the ring buffer rounds up to a power of two
	if s.QueueCapacity < 2 {
		return fmt.Errorf("%w: queue capacity must be at least 2, got %d", ErrInvalidConfig, s.QueueCapacity)
	}
	if strings.ContainsRune(s.SHMName, '/') {
		return fmt.Errorf("%w: shm name %q must not contain '/'", ErrInvalidConfig, s.SHMName)
	}
	if c.Serve.Listen == "" {
		return fmt.Errorf("%w: serve listen address is empty", ErrInvalidConfig)
	}
	if c.Serve.SelfTestInterval <= 0 {
		return fmt.Errorf("%w: self test interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// MemoryOrder parses Order.
func (c *Config) MemoryOrder() (api.Order, error) {
	o, ok := api.ParseOrder(c.Order)
	if !ok {
		return 0, fmt.Errorf("%w: memory order %q", ErrUnknownName, c.Order)
	}
	return o, nil
}

// KindFilter combines Kinds into a filter. No kinds means every kind.
func (c *Config) KindFilter() (api.Kind, error) {
	if len(c.Kinds) == 0 {
		return api.KindAll, nil
	}
	var k api.Kind
	for _, name := range c.Kinds {
		v, ok := api.ParseKind(name)
		if !ok {
			return 0, fmt.Errorf("%w: kind %q", ErrUnknownName, name)
		}
		k |= v
	}
	return k, nil
}

// IDFilter maps Providers to an id filter using the given registry. No
// providers means every provider.
func (c *Config) IDFilter(registry []api.Provider) (api.ID, error) {
	if len(c.Providers) == 0 {
		return api.IDAll, nil
	}
	var ids api.ID
	for _, name := range c.Providers {
		found := false
		for _, p := range registry {
			if strings.EqualFold(p.Name, name) {
				ids |= p.ID
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: provider %q", ErrUnknownName, name)
		}
	}
	return ids, nil
}

// Load reads the YAML file at path over the defaults and applies the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := ApplyEnv(c, os.Getenv); err != nil {
		return nil, err
	}
	if err := VerifyConfig(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides c from PATOMIC_* variables looked up with getenv.
func ApplyEnv(c *Config, getenv func(string) string) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"PATOMIC_WIDTH", &c.Width},
		{"PATOMIC_WORKERS", &c.Stress.Workers},
		{"PATOMIC_ITERATIONS", &c.Stress.Iterations},
		{"PATOMIC_ATTEMPTS", &c.Stress.Attempts},
	}
	for _, e := range ints {
		v := getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, e.name, v, err)
		}
		*e.dst = n
	}
	if v := getenv("PATOMIC_ORDER"); v != "" {
		c.Order = v
	}
	if v := getenv("PATOMIC_KINDS"); v != "" {
		c.Kinds = splitList(v)
	}
	if v := getenv("PATOMIC_PROVIDERS"); v != "" {
		c.Providers = splitList(v)
	}
	if v := getenv("PATOMIC_SHM"); v != "" {
		c.Stress.SHMName = v
	}
	if v := getenv("PATOMIC_LISTEN"); v != "" {
		c.Serve.Listen = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
