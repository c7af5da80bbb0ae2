package fsys

import (
	"sort"
	"strings"
)

// SortEntries orders entries in place: directories before files, then by name
// ignoring case. Names equal ignoring case fall back to byte order so the
// result never depends on the order the OS returned them in.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})
}

func entryLess(a, b Entry) bool {
	if a.IsDir != b.IsDir {
		return a.IsDir
	}
	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if la != lb {
		return la < lb
	}
	return a.Name < b.Name
}
