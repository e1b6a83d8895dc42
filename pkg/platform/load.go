package platform

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v4"
)

//go:embed platforms.yaml
var defaultTable []byte

type tableDoc struct {
	Platforms []signatureDoc `yaml:"platforms"`
}

type signatureDoc struct {
	Name     string              `yaml:"name"`
	Senders  []string            `yaml:"senders"`
	Subjects []string            `yaml:"subjects"`
	Fields   map[string][]string `yaml:"fields"`
}

// Default builds a Registry from the embedded signature table.
func Default() (*Registry, error) {
	return Load(defaultTable)
}

// LoadFile builds a Registry from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform table: %w", err)
	}
	return Load(data)
}

// Load parses a YAML signature table and compiles every pattern.
func Load(data []byte) (*Registry, error) {
	var doc tableDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse platform table: %w", err)
	}
	if len(doc.Platforms) == 0 {
		return nil, errors.New("platform table is empty")
	}

	sigs := make([]Signature, 0, len(doc.Platforms))
	seen := make(map[string]struct{}, len(doc.Platforms))
	for i, p := range doc.Platforms {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, fmt.Errorf("platform #%d: name is required", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("platform %q: duplicate name", name)
		}
		seen[name] = struct{}{}

		sig, err := compileSignature(name, p)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return newRegistry(sigs), nil
}

func compileSignature(name string, p signatureDoc) (Signature, error) {
	sig := Signature{Name: name, Fields: make(map[Field][]*regexp.Regexp, len(p.Fields))}

	var err error
	if sig.Senders, err = compileAll(p.Senders); err != nil {
		return Signature{}, fmt.Errorf("platform %q senders: %w", name, err)
	}
	if sig.Subjects, err = compileAll(p.Subjects); err != nil {
		return Signature{}, fmt.Errorf("platform %q subjects: %w", name, err)
	}
	if len(sig.Senders) == 0 && len(sig.Subjects) == 0 {
		return Signature{}, fmt.Errorf("platform %q: needs at least one sender or subject pattern", name)
	}

	for key, patterns := range p.Fields {
		f := Field(key)
		if !f.valid() {
			return Signature{}, fmt.Errorf("platform %q: unknown field %q", name, key)
		}
		res, err := compileAll(patterns)
		if err != nil {
			return Signature{}, fmt.Errorf("platform %q field %s: %w", name, key, err)
		}
		for _, re := range res {
			if re.NumSubexp() < 1 {
				return Signature{}, fmt.Errorf("platform %q field %s: pattern %q has no capture group", name, key, re.String())
			}
		}
		sig.Fields[f] = res
	}
	return sig, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
