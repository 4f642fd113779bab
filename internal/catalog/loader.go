package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"feedjoin/internal"
)

// File is the on-disk catalog. Empty sections keep the built-in defaults.
type File struct {
	Vendors          []VendorProfile               `yaml:"vendors,omitempty"`
	Synonyms         []Synonym                     `yaml:"synonyms,omitempty"`
	JoinKeys         *JoinKeys                     `yaml:"join_keys,omitempty"`
	IgnoredCustomers []string                      `yaml:"ignored_customers,omitempty"`
	Templates        []internal.TemplateDefinition `yaml:"templates,omitempty"`
	DefaultVendor    internal.VendorTag            `yaml:"default_vendor,omitempty"`
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}

	c := Default()
	if len(f.Vendors) > 0 {
		c.Vendors = f.Vendors
	}
	if len(f.Synonyms) > 0 {
		c.Synonyms = f.Synonyms
	}
	if f.JoinKeys != nil {
		c.JoinKeys = *f.JoinKeys
	}
	if len(f.IgnoredCustomers) > 0 {
		c.IgnoredCustomers = f.IgnoredCustomers
	}
	if len(f.Templates) > 0 {
		c.Templates = f.Templates
	}
	if f.DefaultVendor != "" {
		c.DefaultVendor = f.DefaultVendor
	}
	c.index = BuildIndex(c.Synonyms)
	return c, nil
}

// MappingFile is the editable form of a seeded MappingSet.
type MappingFile struct {
	Version  string              `yaml:"version"`
	Vendor   internal.VendorTag  `yaml:"vendor,omitempty"`
	Mappings internal.MappingSet `yaml:"templates"`
}

func LoadMappingFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file %s: %w", path, err)
	}
	var mf MappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parse mapping yaml: %w", err)
	}
	if mf.Version == "" {
		mf.Version = "1"
	}
	if mf.Mappings == nil {
		mf.Mappings = internal.MappingSet{}
	}
	return &mf, nil
}

func WriteMappingFile(mf *MappingFile, path string) error {
	if mf.Version == "" {
		mf.Version = "1"
	}
	data, err := yaml.Marshal(mf)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
