package snapshot

import (
	"sort"

	"triday/internal/model"
)

// MergeMode selects how an imported snapshot meets the existing state.
type MergeMode string

const (
	// MergeCombine unions the two snapshots: items by id with the newer
	// UpdatedAt winning, action log deduplicated by entry id, categories
	// by id with existing entries kept.
	MergeCombine MergeMode = "combine"
	// MergeOverwrite discards the existing state entirely.
	MergeOverwrite MergeMode = "overwrite"
)

func (m MergeMode) Valid() bool {
	return m == MergeCombine || m == MergeOverwrite
}

// Merge is a pure function of (existing, incoming): neither argument is
// mutated.
func Merge(existing, incoming model.AppState, mode MergeMode) model.AppState {
	if mode == MergeOverwrite {
		out := incoming.Clone()
		normalize(&out)
		return out
	}
	return combine(existing, incoming)
}

func combine(existing, src model.AppState) model.AppState {
	out := existing.Clone()
	normalize(&out)
	incoming := src.Clone()

	byID := make(map[model.ItemID]int, len(out.Items))
	for i, it := range out.Items {
		byID[it.ID] = i
	}
	for _, in := range incoming.Items {
		if idx, ok := byID[in.ID]; ok {
			// Id collision: the later update wins.
			if in.UpdatedAt.After(out.Items[idx].UpdatedAt) {
				out.Items[idx] = in
			}
			continue
		}
		byID[in.ID] = len(out.Items)
		out.Items = append(out.Items, in)
	}

	seen := make(map[string]bool, len(out.Log))
	for _, e := range out.Log {
		seen[e.ID] = true
	}
	for _, e := range incoming.Log {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out.Log = append(out.Log, e)
	}
	sort.SliceStable(out.Log, func(i, j int) bool {
		if !out.Log[i].At.Equal(out.Log[j].At) {
			return out.Log[i].At.Before(out.Log[j].At)
		}
		return out.Log[i].ID < out.Log[j].ID
	})

	catSeen := make(map[string]bool, len(out.Categories))
	for _, c := range out.Categories {
		catSeen[c.ID] = true
	}
	for _, c := range incoming.Categories {
		if catSeen[c.ID] {
			continue
		}
		catSeen[c.ID] = true
		out.Categories = append(out.Categories, c)
	}

	return out
}
