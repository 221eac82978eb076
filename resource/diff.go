package resource

// Diff is the minimal change set between two snapshots of the same resource
// slots. Each specifier id appears in at most one of New, Edited and Deleted.
type Diff struct {
	NeedUpdate bool
	New        []Resource
	Edited     []Resource
	Deleted    []Resource
}

// DiffResources compares an initial snapshot with the current one.
//
// Both snapshots are reduced to the resources that carry a non-empty value,
// keyed by specifier id; an empty value and a missing resource are the same.
// Values are compared by exact string equality. When a snapshot holds the
// same id more than once, its last entry is used. Output order follows the
// order of first appearance in the inputs.
//
// New entries take the checksum the initial snapshot recorded for their id,
// even when that entry is absent or empty, and no checksum otherwise.
func DiffResources(initial []Resource, current []Resource) Diff {
	initialByID := indexPresent(initial)
	initialChecksums := make(map[string]string, len(initial))
	for _, item := range initial {
		initialChecksums[item.ID()] = item.Checksum
	}
	currentByID := indexPresent(current)

	var diff Diff

	visited := make(map[string]struct{}, len(currentByID))
	for _, item := range current {
		id := item.ID()
		latest, ok := currentByID[id]
		if !ok {
			continue
		}
		if _, done := visited[id]; done {
			continue
		}
		visited[id] = struct{}{}

		before, existed := initialByID[id]
		switch {
		case !existed:
			created := latest
			created.Checksum = initialChecksums[id]
			diff.New = append(diff.New, created)
		case *before.Value != *latest.Value:
			edited := latest
			edited.Checksum = before.Checksum
			diff.Edited = append(diff.Edited, edited)
		}
	}

	visited = make(map[string]struct{}, len(initialByID))
	for _, item := range initial {
		id := item.ID()
		before, ok := initialByID[id]
		if !ok {
			continue
		}
		if _, done := visited[id]; done {
			continue
		}
		visited[id] = struct{}{}

		if _, stillPresent := currentByID[id]; stillPresent {
			continue
		}
		deleted := before
		deleted.Value = nil
		diff.Deleted = append(diff.Deleted, deleted)
	}

	diff.NeedUpdate = len(diff.New) > 0 || len(diff.Edited) > 0 || len(diff.Deleted) > 0
	return diff
}

func indexPresent(resources []Resource) map[string]Resource {
	index := make(map[string]Resource, len(resources))
	for _, item := range resources {
		if !item.Present() {
			continue
		}
		index[item.ID()] = item
	}
	return index
}

// Updates flattens the diff into a write request: new resources first, then
// edited, then deleted. Every entry carries the checksum of the initial
// snapshot for its id, so the backend can detect concurrent writes. A new
// entry the initial snapshot never listed carries none.
func (d Diff) Updates() []Update {
	updates := make([]Update, 0, len(d.New)+len(d.Edited)+len(d.Deleted))
	for _, group := range [][]Resource{d.New, d.Edited, d.Deleted} {
		for _, item := range group {
			updates = append(updates, Update{
				Specifier: item.Specifier,
				Path:      item.Path,
				Value:     item.Value,
				Checksum:  item.Checksum,
			})
		}
	}
	return updates
}

// IDs returns the specifier ids of every entry, grouped by change kind.
func (d Diff) IDs() (newIDs []string, editedIDs []string, deletedIDs []string) {
	for _, item := range d.New {
		newIDs = append(newIDs, item.ID())
	}
	for _, item := range d.Edited {
		editedIDs = append(editedIDs, item.ID())
	}
	for _, item := range d.Deleted {
		deletedIDs = append(deletedIDs, item.ID())
	}
	return newIDs, editedIDs, deletedIDs
}
