package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cryptobot/internal/logger"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// FileConfig is the on-disk layout of a catalog file.
type FileConfig struct {
	Tokens    []Token    `yaml:"tokens"`
	FAQ       []FAQEntry `yaml:"faq"`
	Greetings []string   `yaml:"greetings"`
	Farewells []string   `yaml:"farewells"`
	Messages  Messages   `yaml:"messages"`
}

// Load builds the catalog from path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog failed: %w", err)
	}
	cat, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	logger.Infof("Catalog loaded from %s: %d tokens, %d faq entries", path, len(cat.tokens), len(cat.faq))
	return cat, nil
}

// Parse validates raw YAML against the catalog schema and builds a Catalog.
func Parse(raw []byte) (*Catalog, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse catalog failed: %w", err)
	}
	if err := checkUnique(cfg); err != nil {
		return nil, err
	}
	return New(cfg.Tokens, cfg.FAQ, cfg.Greetings, cfg.Farewells, cfg.Messages), nil
}

func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse catalog failed: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("catalog is empty")
	}
	// Round-trip through JSON so the validator sees plain JSON value types.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog is not representable as JSON: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(js, &normalized); err != nil {
		return err
	}
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("catalog schema violation: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("catalog.json")
}

func checkUnique(cfg FileConfig) error {
	seen := make(map[string]bool, len(cfg.Tokens))
	for _, tok := range cfg.Tokens {
		if seen[tok.ID] {
			return fmt.Errorf("duplicate token id %q", tok.ID)
		}
		seen[tok.ID] = true
	}
	seen = make(map[string]bool, len(cfg.FAQ))
	for _, entry := range cfg.FAQ {
		if seen[entry.ID] {
			return fmt.Errorf("duplicate faq id %q", entry.ID)
		}
		seen[entry.ID] = true
	}
	return nil
}
