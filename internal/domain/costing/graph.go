package costing

import (
	"sort"

	"github.com/google/uuid"
)

// TopoOrder orders the given subjects so that every subject comes after all
// subjects it depends on. deps maps a subject to the subjects it depends on;
// edges pointing outside the given set are ignored (those dependencies are
// already final in the store).
//
// Kahn's algorithm gives a structural bound: each node is visited exactly
// once, and any leftover nodes prove a cycle, which is surfaced as
// ErrCyclicDependency rather than iterated on.
func TopoOrder(ids []uuid.UUID, deps map[uuid.UUID][]uuid.UUID) ([]uuid.UUID, error) {
	inSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}

	indegree := make(map[uuid.UUID]int, len(ids))
	dependents := make(map[uuid.UUID][]uuid.UUID, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		for _, dep := range deps[id] {
			if !inSet[dep] {
				continue
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	// Deterministic order for equal-rank nodes keeps runs reproducible.
	sortIDs(ready)

	order := make([]uuid.UUID, 0, len(ids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := dependents[id]
		sortIDs(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(ids) {
		return nil, ErrCyclicDependency
	}
	return order, nil
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
