package sorter

import (
	"unicode"
	"unicode/utf8"
)

// DateLayout is the bucket label for the date criterion. Buckets are
// computed from the modification time in UTC.
const DateLayout = "2006-01"

// Classify maps a file to exactly one category. It never fails: anything
// a rule cannot place falls back to a defined category.
func Classify(entry FileEntry, criterion Criterion, table *Table) Category {
	if table == nil {
		table = DefaultTable()
	}

	switch criterion {
	case CriterionType:
		if c, ok := table.TypeOf(entry.Ext); ok {
			return c
		}
		if c, ok := table.TypeOfMIME(entry.MIME); ok {
			return c
		}
		return CategoryOther
	case CriterionDate:
		if entry.ModTime.IsZero() {
			return CategoryOther
		}
		return Category(entry.ModTime.UTC().Format(DateLayout))
	case CriterionSize:
		return table.SizeOf(entry.Size)
	case CriterionName:
		return nameCategory(entry.Name)
	default:
		return CategoryOther
	}
}

func nameCategory(name string) Category {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return CategoryOther
	}
	return Category(string(unicode.ToUpper(r)))
}
