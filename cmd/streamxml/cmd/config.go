// Copyright 2025 EasyAgent
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

package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samhvw8/partial-xml-stream-parser-sub001"
)

// fileConfig is the YAML rendering of streamxml.ParserOptions. Every field
// is optional; omitted fields keep DefaultOptions()'s value.
type fileConfig struct {
	TextNodeName         *string  `yaml:"textNodeName"`
	AttributeNamePrefix  *string  `yaml:"attributeNamePrefix"`
	StopNodes            []string `yaml:"stopNodes"`
	MaxDepth             *int     `yaml:"maxDepth"`
	AlwaysCreateTextNode *bool    `yaml:"alwaysCreateTextNode"`
	ParsePrimitives      *bool    `yaml:"parsePrimitives"`
	AllowedRootNodes     []string `yaml:"allowedRootNodes"`
	IgnoreWhitespace     *bool    `yaml:"ignoreWhitespace"`
}

// loadOptions reads path (if non-empty) as YAML and layers it onto
// streamxml.DefaultOptions(). An empty path returns the defaults unchanged.
func loadOptions(path string) (streamxml.ParserOptions, error) {
	opts := streamxml.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, err
	}

	if fc.TextNodeName != nil {
		opts.TextNodeName = *fc.TextNodeName
	}
	if fc.AttributeNamePrefix != nil {
		opts.AttributeNamePrefix = *fc.AttributeNamePrefix
	}
	if fc.StopNodes != nil {
		opts.StopNodes = fc.StopNodes
	}
	if fc.MaxDepth != nil {
		opts.MaxDepth = fc.MaxDepth
	}
	if fc.AlwaysCreateTextNode != nil {
		opts.AlwaysCreateTextNode = *fc.AlwaysCreateTextNode
	}
	if fc.ParsePrimitives != nil {
		opts.ParsePrimitives = *fc.ParsePrimitives
	}
	if fc.AllowedRootNodes != nil {
		opts.AllowedRootNodes = fc.AllowedRootNodes
	}
	if fc.IgnoreWhitespace != nil {
		opts.IgnoreWhitespace = *fc.IgnoreWhitespace
	}

	return opts, opts.Validate()
}
