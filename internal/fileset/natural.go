package fileset

import (
	"sort"

	"ezsubs/pkg/types"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NaturalLess orders names the way a file browser does: digit runs compare
// by value ("ep2" < "ep10"), letters by locale collation ignoring case.
// A collator is not safe for concurrent use, so one is built per call site.
func NaturalLess(tag language.Tag) func(a, b string) bool {
	c := collate.New(tag, collate.Numeric, collate.IgnoreCase)
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}
}

// NaturalSort sorts names in place using the root locale.
func NaturalSort(names []string) {
	less := NaturalLess(language.Und)
	sort.SliceStable(names, func(i, j int) bool { return less(names[i], names[j]) })
}

// sortRefs orders refs by file name, falling back to the full path so
// equal names in different directories have a stable order.
func sortRefs(refs []types.FileRef, tag language.Tag) {
	c := collate.New(tag, collate.Numeric, collate.IgnoreCase)
	sort.SliceStable(refs, func(i, j int) bool {
		if cmp := c.CompareString(refs[i].Name(), refs[j].Name()); cmp != 0 {
			return cmp < 0
		}
		return refs[i].Path() < refs[j].Path()
	})
}
