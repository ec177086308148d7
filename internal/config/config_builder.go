package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// sourceStack accumulates configuration read from individual sources.
// Sources are merged in the order they were added; mergo keeps the first
// non-zero value per field, so earlier sources take priority.
type sourceStack struct {
	layers  []*StructuredConfig
	loadErr error
}

func stackSources() *sourceStack {
	return &sourceStack{
		layers: make([]*StructuredConfig, 0, 4),
	}
}

// merged folds all collected layers into a single config and validates it.
func (s *sourceStack) merged() (*StructuredConfig, error) {
	if s.loadErr != nil {
		return nil, fmt.Errorf("reading config sources: %w", s.loadErr)
	}

	merged := new(StructuredConfig)
	for _, layer := range s.layers {
		if err := mergo.Merge(merged, layer); err != nil {
			return nil, fmt.Errorf("merging config sources: %w", err)
		}
	}

	return merged, merged.validate()
}

func (s *sourceStack) fromEnv() *sourceStack {
	layer := &StructuredConfig{}
	if err := parseEnv(layer); err != nil {
		s.loadErr = errors.Join(s.loadErr, err)
		return s
	}

	s.layers = append(s.layers, layer)
	return s
}

func (s *sourceStack) fromFlags() *sourceStack {
	s.layers = append(s.layers, ParseFlags())
	return s
}

// fromJSONFile reads the optional JSON file when an earlier source named
// one, so it must run after fromEnv and fromFlags.
func (s *sourceStack) fromJSONFile() *sourceStack {
	var path string
	for _, layer := range s.layers {
		if layer.JSONFilePath != "" {
			path = layer.JSONFilePath
		}
	}
	if path == "" {
		return s
	}

	layer, err := parseJSON(path)
	if err != nil {
		s.loadErr = errors.Join(s.loadErr, err)
		return s
	}

	s.layers = append(s.layers, layer)
	return s
}
