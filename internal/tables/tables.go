// SPDX-License-Identifier: MIT

// Package tables loads the alias and category lookup tables. A default set is
// embedded in the binary; an operator file can replace it.
package tables

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Figoh-cpu/code/internal/categorize"
	"github.com/Figoh-cpu/code/internal/normalize"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Document is the on-disk layout of a tables file.
type Document struct {
	CatchAll     string                   `yaml:"catchAll"`
	Categories   []categorize.Category    `yaml:"categories"`
	KeywordRules []categorize.KeywordRule `yaml:"keywordRules"`
	Aliases      []normalize.Alias        `yaml:"aliases"`
}

// Set is the loaded, immutable lookup data for one run.
type Set struct {
	Source     string
	Aliases    *normalize.AliasTable
	Categories *categorize.Table
}

// Default returns the embedded tables.
func Default() (*Set, error) {
	doc, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded tables: %w", err)
	}
	return doc.Build("embedded"), nil
}

// Load reads tables from path, or returns Default when path is empty.
func Load(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported tables format: %s (only YAML supported)", ext)
	}
	// #nosec G304 -- tables path is provided by the operator via CLI/ENV
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tables %s: %w", path, err)
	}
	return doc.Build(path), nil
}

// Parse decodes a single strict YAML document and checks it for obvious mistakes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("tables document is empty")
		}
		return nil, fmt.Errorf("strict tables parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("tables file contains multiple documents or trailing content")
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	var errs []error
	for i, c := range d.Categories {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is empty", i))
		}
	}
	for i, r := range d.KeywordRules {
		if strings.TrimSpace(r.Category) == "" {
			errs = append(errs, fmt.Errorf("keywordRules[%d]: category is empty", i))
		}
		if len(r.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("keywordRules[%d]: no keywords", i))
		}
	}
	for i, a := range d.Aliases {
		if strings.TrimSpace(a.Canonical) == "" {
			errs = append(errs, fmt.Errorf("aliases[%d]: canonical is empty", i))
		}
	}
	return errors.Join(errs...)
}

// Build freezes the document into lookup tables.
func (d *Document) Build(source string) *Set {
	return &Set{
		Source:     source,
		Aliases:    normalize.NewAliasTable(d.Aliases),
		Categories: categorize.NewTable(d.Categories, d.KeywordRules, d.CatchAll),
	}
}
