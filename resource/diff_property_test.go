package resource

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyLocales = []string{"en", "fr", "ja", "zh-HK"}

func snapshotFromValues(values []string) []Resource {
	snapshot := make([]Resource, 0, len(values))
	for idx, value := range values {
		locale := propertyLocales[idx%len(propertyLocales)]
		snapshot = append(snapshot, textResource(locale, "a.html", value, ""))
	}
	return snapshot
}

func TestDiffResourcesProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	valuesGen := gen.SliceOfN(len(propertyLocales), gen.OneConstOf("", "a", "b", "hello"))

	properties.Property("ids land in at most one category", prop.ForAll(
		func(before []string, after []string) bool {
			diff := DiffResources(snapshotFromValues(before), snapshotFromValues(after))
			seen := map[string]int{}
			for _, group := range [][]Resource{diff.New, diff.Edited, diff.Deleted} {
				for _, item := range group {
					seen[item.ID()]++
				}
			}
			for _, count := range seen {
				if count > 1 {
					return false
				}
			}
			return diff.NeedUpdate == (len(seen) > 0)
		},
		valuesGen, valuesGen,
	))

	properties.Property("a snapshot never differs from itself", prop.ForAll(
		func(values []string) bool {
			snapshot := snapshotFromValues(values)
			return !DiffResources(snapshot, snapshot).NeedUpdate
		},
		valuesGen,
	))

	properties.Property("applying the updates yields the current snapshot", prop.ForAll(
		func(before []string, after []string) bool {
			state := map[string]string{}
			for _, item := range snapshotFromValues(before) {
				if item.Present() {
					state[item.ID()] = *item.Value
				}
			}
			for _, update := range DiffResources(snapshotFromValues(before), snapshotFromValues(after)).Updates() {
				id := SpecifierID(update.Specifier)
				if update.IsDeletion() {
					delete(state, id)
					continue
				}
				state[id] = *update.Value
			}

			want := map[string]string{}
			for _, item := range snapshotFromValues(after) {
				if item.Present() {
					want[item.ID()] = *item.Value
				}
			}
			if len(state) != len(want) {
				return false
			}
			for id, value := range want {
				if state[id] != value {
					return false
				}
			}
			return true
		},
		valuesGen, valuesGen,
	))

	properties.TestingRun(t)
}
