package sorter

import (
	"fmt"
	"sort"
	"strings"
)

// Size units used by the default buckets
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
	GiB int64 = 1 << 30
)

// SizeBucket is a size category whose range starts at Min (inclusive)
// and ends at the next bucket's Min.
type SizeBucket struct {
	Name Category
	Min  int64
}

// MIMERule maps a sniffed content type prefix to a category
type MIMERule struct {
	Prefix   string
	Category Category
}

// Table is the single source of truth for type and size classification
type Table struct {
	extensions map[string]Category
	mimeRules  []MIMERule
	sizes      []SizeBucket
}

var defaultTypes = map[Category][]string{
	"images":        {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".heic", ".tif", ".tiff", ".svg", ".ico", ".raw"},
	"documents":     {".pdf", ".doc", ".docx", ".odt", ".rtf", ".epub"},
	"spreadsheets":  {".xls", ".xlsx", ".ods", ".csv"},
	"presentations": {".ppt", ".pptx", ".odp", ".key"},
	"text":          {".txt", ".md", ".log", ".json", ".xml", ".yaml", ".yml", ".ini"},
	"audio":         {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a", ".wma", ".opus"},
	"video":         {".mp4", ".mov", ".mkv", ".avi", ".webm", ".wmv", ".flv", ".m4v"},
	"archives":      {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".tgz"},
}

var defaultMIMERules = []MIMERule{
	{Prefix: "image/", Category: "images"},
	{Prefix: "audio/", Category: "audio"},
	{Prefix: "video/", Category: "video"},
	{Prefix: "application/pdf", Category: "documents"},
	{Prefix: "application/ogg", Category: "audio"},
	{Prefix: "application/zip", Category: "archives"},
	{Prefix: "application/x-gzip", Category: "archives"},
	{Prefix: "application/x-rar-compressed", Category: "archives"},
	{Prefix: "application/x-7z-compressed", Category: "archives"},
	{Prefix: "text/", Category: "text"},
}

var defaultSizes = []SizeBucket{
	{Name: "tiny", Min: 0},
	{Name: "small", Min: KiB},
	{Name: "medium", Min: MiB},
	{Name: "large", Min: 100 * MiB},
	{Name: "huge", Min: GiB},
}

// DefaultTable returns the built-in classification table
func DefaultTable() *Table {
	t, err := NewTable(defaultTypes, defaultMIMERules, defaultSizes)
	if err != nil {
		panic(fmt.Sprintf("sorter: invalid default table: %v", err))
	}
	return t
}

// DefaultTypes returns a copy of the built-in extension families
func DefaultTypes() map[Category][]string {
	out := make(map[Category][]string, len(defaultTypes))
	for c, exts := range defaultTypes {
		out[c] = append([]string(nil), exts...)
	}
	return out
}

// DefaultMIMERules returns a copy of the built-in content type rules
func DefaultMIMERules() []MIMERule {
	return append([]MIMERule(nil), defaultMIMERules...)
}

// DefaultSizeBuckets returns a copy of the built-in size buckets
func DefaultSizeBuckets() []SizeBucket {
	return append([]SizeBucket(nil), defaultSizes...)
}

// NewTable validates and builds a classification table.
// Extensions are matched case-insensitively; a missing leading dot is added.
func NewTable(types map[Category][]string, mimeRules []MIMERule, sizes []SizeBucket) (*Table, error) {
	t := &Table{extensions: make(map[string]Category)}

	for category, exts := range types {
		if err := validCategoryName(category); err != nil {
			return nil, err
		}
		for _, ext := range exts {
			ext = normalizeExt(ext)
			if ext == "" {
				continue
			}
			if prev, ok := t.extensions[ext]; ok && prev != category {
				return nil, fmt.Errorf("extension %s mapped to both %s and %s", ext, prev, category)
			}
			t.extensions[ext] = category
		}
	}

	for _, rule := range mimeRules {
		if err := validCategoryName(rule.Category); err != nil {
			return nil, err
		}
		if rule.Prefix == "" {
			return nil, fmt.Errorf("empty mime prefix for %s", rule.Category)
		}
		t.mimeRules = append(t.mimeRules, MIMERule{Prefix: strings.ToLower(rule.Prefix), Category: rule.Category})
	}
	// longest prefix wins
	sort.SliceStable(t.mimeRules, func(i, j int) bool {
		return len(t.mimeRules[i].Prefix) > len(t.mimeRules[j].Prefix)
	})

	if len(sizes) == 0 {
		return nil, fmt.Errorf("at least one size bucket is required")
	}
	t.sizes = append([]SizeBucket(nil), sizes...)
	sort.SliceStable(t.sizes, func(i, j int) bool { return t.sizes[i].Min < t.sizes[j].Min })
	if t.sizes[0].Min != 0 {
		return nil, fmt.Errorf("smallest size bucket must start at 0, got %d", t.sizes[0].Min)
	}
	for i, b := range t.sizes {
		if err := validCategoryName(b.Name); err != nil {
			return nil, err
		}
		if i > 0 && b.Min == t.sizes[i-1].Min {
			return nil, fmt.Errorf("size buckets %s and %s share lower bound %d", t.sizes[i-1].Name, b.Name, b.Min)
		}
	}

	return t, nil
}

// TypeOf returns the category for an extension
func (t *Table) TypeOf(ext string) (Category, bool) {
	c, ok := t.extensions[normalizeExt(ext)]
	return c, ok
}

// TypeOfMIME returns the category for a sniffed content type
func (t *Table) TypeOfMIME(mime string) (Category, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return "", false
	}
	for _, rule := range t.mimeRules {
		if strings.HasPrefix(mime, rule.Prefix) {
			return rule.Category, true
		}
	}
	return "", false
}

// SizeOf returns the bucket a byte size falls into
func (t *Table) SizeOf(size int64) Category {
	for i := len(t.sizes) - 1; i >= 0; i-- {
		if size >= t.sizes[i].Min {
			return t.sizes[i].Name
		}
	}
	return t.sizes[0].Name
}

// SizeBuckets returns the buckets in ascending order
func (t *Table) SizeBuckets() []SizeBucket {
	return append([]SizeBucket(nil), t.sizes...)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func validCategoryName(c Category) error {
	name := string(c)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid category name %q", name)
	}
	return nil
}
