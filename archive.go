package zipstream

// archive holds parsed entry metadata and is embedded by the concrete
// readers so they share one set of lookup accessors.
type archive struct {
	entries []*Entry
	comment string
}

// Entries returns the archive's entries in original parse order.
func (a *archive) Entries() []*Entry {
	return a.entries
}

// Entry returns the first entry whose name matches exactly. Filenames are
// not required to be unique and the format has no index, so this is a
// linear scan and the first match wins.
func (a *archive) Entry(name string) (*Entry, bool) {
	i := a.EntryIndex(name)
	if i < 0 {
		return nil, false
	}
	return a.entries[i], true
}

// EntryIndex returns the index of the first entry whose name matches
// exactly, or -1 if there is none.
func (a *archive) EntryIndex(name string) int {
	for i, e := range a.entries {
		if e.name == name {
			return i
		}
	}
	return -1
}

// Comment returns the archive's trailing comment, or the empty string if
// there is none.
func (a *archive) Comment() string {
	return a.comment
}
