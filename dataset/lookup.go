package dataset

// LookupIndex resolves airport codes to names. The first row carrying a
// code wins; later duplicates are kept only for iteration.
type LookupIndex struct {
	airports []Airport
	byCode   map[string]int
}

// NewLookupIndex builds an index over airports in table order.
func NewLookupIndex(airports []Airport) *LookupIndex {
	idx := &LookupIndex{
		airports: append([]Airport(nil), airports...),
		byCode:   make(map[string]int, len(airports)),
	}
	for i, a := range idx.airports {
		if _, ok := idx.byCode[a.Code]; !ok {
			idx.byCode[a.Code] = i
		}
	}
	return idx
}

// Name returns the airport name for code.
func (x *LookupIndex) Name(code string) (string, bool) {
	i, ok := x.byCode[code]
	if !ok {
		return "", false
	}
	return x.airports[i].Name, true
}

// Airports returns the table rows in their original order.
func (x *LookupIndex) Airports() []Airport {
	return x.airports
}

// Len is the number of lookup rows.
func (x *LookupIndex) Len() int {
	return len(x.airports)
}
