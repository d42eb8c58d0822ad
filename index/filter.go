package index

import "github.com/RoaringBitmap/roaring/v2"

// Filter restricts a search to a set of entry positions. Filters are built
// from section tags and are cheap to construct per query.
type Filter struct {
	bm *roaring.Bitmap
}

// SectionFilter returns a filter matching entries whose metadata carries
// any of the given section tags. Unknown sections contribute nothing; a
// filter over only unknown sections matches no entries.
func (x *Index) SectionFilter(sections ...string) *Filter {
	bm := roaring.New()
	for _, section := range sections {
		if postings, ok := x.sections[section]; ok {
			bm.Or(postings)
		}
	}
	return &Filter{bm: bm}
}

// Sections returns the distinct section tags seen by the index.
func (x *Index) Sections() []string {
	out := make([]string, 0, len(x.sections))
	for section := range x.sections {
		out = append(out, section)
	}
	return out
}

func (f *Filter) contains(position uint32) bool {
	return f.bm.Contains(position)
}

// Cardinality returns the number of entry positions the filter matches.
func (f *Filter) Cardinality() uint64 {
	return f.bm.GetCardinality()
}
