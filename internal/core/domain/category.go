package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Profile selects the compiler settings a category is built with.
type Profile string

const (
	// ProfileApp builds browser-side extensions as ES modules.
	ProfileApp Profile = "app"
	// ProfileAPI builds server-side extensions as CommonJS modules.
	ProfileAPI Profile = "api"
)

// Valid reports whether p is a known profile.
func (p Profile) Valid() bool {
	return p == ProfileApp || p == ProfileAPI
}

// Category is one extension category. Name is the singular form ("panel"),
// Plural the directory name it lives under ("panels").
type Category struct {
	Name    string
	Plural  string
	Profile Profile
}

// String returns the singular category name.
func (c Category) String() string {
	return c.Name
}

// CategoryTable is an explicit singular/plural mapping of the supported categories.
type CategoryTable struct {
	ordered  []Category
	byName   map[string]Category
	byPlural map[string]Category
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() *CategoryTable {
	t, err := NewCategoryTable(
		Category{Name: "interface", Plural: "interfaces", Profile: ProfileApp},
		Category{Name: "display", Plural: "displays", Profile: ProfileApp},
		Category{Name: "layout", Plural: "layouts", Profile: ProfileApp},
		Category{Name: "module", Plural: "modules", Profile: ProfileApp},
		Category{Name: "panel", Plural: "panels", Profile: ProfileApp},
		Category{Name: "hook", Plural: "hooks", Profile: ProfileAPI},
		Category{Name: "endpoint", Plural: "endpoints", Profile: ProfileAPI},
		Category{Name: "operation", Plural: "operations", Profile: ProfileAPI},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// NewCategoryTable builds a table from the given categories. Names and
// plurals must be non-empty and unique across both columns.
func NewCategoryTable(categories ...Category) (*CategoryTable, error) {
	t := &CategoryTable{
		ordered:  make([]Category, 0, len(categories)),
		byName:   make(map[string]Category, len(categories)),
		byPlural: make(map[string]Category, len(categories)),
	}

	for _, c := range categories {
		if c.Name == "" || c.Plural == "" {
			return nil, zerr.With(ErrInvalidCategory, "category", c.Name)
		}
		if strings.ContainsAny(c.Name+c.Plural, `/\`) {
			return nil, zerr.With(ErrInvalidCategory, "category", c.Name)
		}
		if !c.Profile.Valid() {
			return nil, zerr.With(zerr.With(ErrInvalidProfile, "category", c.Name), "profile", string(c.Profile))
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, zerr.With(zerr.With(ErrInvalidCategory, "category", c.Name), "reason", "duplicate name")
		}
		if _, dup := t.byPlural[c.Plural]; dup {
			return nil, zerr.With(zerr.With(ErrInvalidCategory, "category", c.Name), "reason", "duplicate plural")
		}
		t.ordered = append(t.ordered, c)
		t.byName[c.Name] = c
		t.byPlural[c.Plural] = c
	}

	return t, nil
}

// Classify maps the last segment of a category directory path to its
// category. A single trailing separator is ignored.
func (t *CategoryTable) Classify(segment string) (Category, bool) {
	segment = strings.TrimSuffix(segment, "/")
	segment = strings.TrimSuffix(segment, string(filepath.Separator))
	if segment == "" {
		return Category{}, false
	}
	c, ok := t.byPlural[filepath.Base(segment)]
	return c, ok
}

// Lookup finds a category by its singular name.
func (t *CategoryTable) Lookup(name string) (Category, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// PluralOf returns the directory name for a singular category name.
func (t *CategoryTable) PluralOf(name string) (string, bool) {
	c, ok := t.byName[name]
	return c.Plural, ok
}

// All returns the categories in declaration order.
func (t *CategoryTable) All() []Category {
	out := make([]Category, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Plurals lists the accepted directory names, used in warnings.
func (t *CategoryTable) Plurals() []string {
	out := make([]string, len(t.ordered))
	for i, c := range t.ordered {
		out[i] = c.Plural
	}
	return out
}
