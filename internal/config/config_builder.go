package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder accumulates partial configs from each source in priority
// order. Source errors are collected rather than aborting, so build can
// report them all at once.
type configBuilder struct {
	sources []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		sources: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected sources into one config. mergo only fills
// zero-valued fields, so a source appended earlier wins for every field it
// set. The merged result is validated before it is returned.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, src := range b.sources {
		if err := mergo.Merge(merged, src); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return merged, merged.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.sources = append(b.sources, ParseFlags())
	return b
}

// withJSON loads the JSON file only when an earlier source named one, so
// the file path itself can come from the environment or a flag.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, src := range b.sources {
		if src.JSONFilePath != "" {
			jsonPath = src.JSONFilePath
		}
	}
	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, jsonCfg)
	return b
}
