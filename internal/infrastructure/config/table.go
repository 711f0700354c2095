package config

import (
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"darion/internal/domain/sorter"
)

// tableFile is the YAML layout of a category table override.
// Omitted sections keep the built-in values.
//
//	types:
//	  images: [.jpg, .png]
//	mime:
//	  - prefix: image/
//	    category: images
//	sizes:
//	  - name: tiny
//	    min: 0
//	  - name: small
//	    min: 1 KiB
type tableFile struct {
	Types map[string][]string `yaml:"types"`
	MIME  []struct {
		Prefix   string `yaml:"prefix"`
		Category string `yaml:"category"`
	} `yaml:"mime"`
	Sizes []struct {
		Name string `yaml:"name"`
		Min  string `yaml:"min"`
	} `yaml:"sizes"`
}

// LoadCategoryTable returns the default table when path is empty,
// otherwise the table described by the YAML file at path.
func LoadCategoryTable(path string) (*sorter.Table, error) {
	if path == "" {
		return sorter.DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category table: %w", err)
	}
	return ParseCategoryTable(data)
}

// ParseCategoryTable builds a table from YAML
func ParseCategoryTable(data []byte) (*sorter.Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse category table: %w", err)
	}

	types := sorter.DefaultTypes()
	if len(file.Types) > 0 {
		types = make(map[sorter.Category][]string, len(file.Types))
		for name, exts := range file.Types {
			types[sorter.Category(name)] = exts
		}
	}

	rules := sorter.DefaultMIMERules()
	if len(file.MIME) > 0 {
		rules = make([]sorter.MIMERule, 0, len(file.MIME))
		for _, r := range file.MIME {
			rules = append(rules, sorter.MIMERule{Prefix: r.Prefix, Category: sorter.Category(r.Category)})
		}
	}

	sizes := sorter.DefaultSizeBuckets()
	if len(file.Sizes) > 0 {
		sizes = make([]sorter.SizeBucket, 0, len(file.Sizes))
		for _, s := range file.Sizes {
			min, err := humanize.ParseBytes(s.Min)
			if err != nil {
				return nil, fmt.Errorf("size bucket %s: %w", s.Name, err)
			}
			if min > math.MaxInt64 {
				return nil, fmt.Errorf("size bucket %s: lower bound %s exceeds %s", s.Name, s.Min, humanize.IBytes(math.MaxInt64))
			}
			sizes = append(sizes, sorter.SizeBucket{Name: sorter.Category(s.Name), Min: int64(min)})
		}
	}

	table, err := sorter.NewTable(types, rules, sizes)
	if err != nil {
		return nil, fmt.Errorf("invalid category table: %w", err)
	}
	return table, nil
}
