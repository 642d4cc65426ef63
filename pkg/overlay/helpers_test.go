package overlay

import (
	"path"
	"sort"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dirOf(p string) string { return path.Dir(p) }

func groupEntries(entries []Entry) []Group {
	var groups []Group
	index := map[string]int{}
	for _, e := range entries {
		i, ok := index[e.Group]
		if !ok {
			i = len(groups)
			index[e.Group] = i
			groups = append(groups, Group{Name: e.Group})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
