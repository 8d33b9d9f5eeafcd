package pagination

import (
	"cmp"

	"github.com/junaydb/kanban-board/domain"
)

// Strategy groups the behaviors one sort dimension contributes: decoding its
// cursor shape, computing the continuation cursor from the last row of a
// page, and ordering tasks in memory. The row-level filter predicates live in
// the task store, which exposes one bounded query per dimension.
type Strategy struct {
	SortBy SortBy

	// Decode validates a token against this dimension's cursor shape.
	Decode func(token string) (Cursor, error)

	// Next computes the continuation cursor from the last returned task.
	// Nil for position sort, where the next cursor is start+pageSize and
	// does not depend on row contents.
	Next func(last domain.Task) Cursor

	// Compare orders two tasks for this dimension, used when assembling
	// full per-column listings in memory.
	Compare func(order SortOrder) func(a, b domain.Task) int
}

// Strategies is the dispatch table keyed by sort dimension.
var Strategies = map[SortBy]Strategy{
	SortByCreated: {
		SortBy: SortByCreated,
		Decode: func(token string) (Cursor, error) { return Decode(token, SortByCreated) },
		Next: func(last domain.Task) Cursor {
			return CreatedCursor{PrevID: last.ID, PrevCreatedAt: last.CreatedAt}
		},
		Compare: CompareCreated,
	},
	SortByDueDate: {
		SortBy: SortByDueDate,
		Decode: func(token string) (Cursor, error) { return Decode(token, SortByDueDate) },
		Next: func(last domain.Task) Cursor {
			return DueDateCursor{PrevID: last.ID, PrevDueDate: last.DueDate}
		},
		Compare: CompareDueDate,
	},
	SortByPosition: {
		SortBy: SortByPosition,
		Decode: func(token string) (Cursor, error) { return Decode(token, SortByPosition) },
	},
}

// For resolves the strategy for a sort dimension.
func For(by SortBy) (Strategy, error) {
	strat, ok := Strategies[by]
	if !ok {
		return Strategy{}, domain.NewError(domain.ErrCodeInvalid, "invalid sortBy: "+string(by))
	}
	return strat, nil
}

// CompareCreated orders by (createdAt, id), both components following the
// requested direction. The id tie-break keeps the order total when tasks
// share a creation timestamp.
func CompareCreated(order SortOrder) func(a, b domain.Task) int {
	return func(a, b domain.Task) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if order == OrderDesc {
			c = -c
		}
		return c
	}
}

// CompareDueDate orders by (dueDate, id) with tasks lacking a due date
// sorting last regardless of direction, ties among them broken by ascending
// id.
func CompareDueDate(order SortOrder) func(a, b domain.Task) int {
	return func(a, b domain.Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return cmp.Compare(a.ID, b.ID)
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		c := a.DueDate.Compare(*b.DueDate)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if order == OrderDesc {
			c = -c
		}
		return c
	}
}

// SlicePage bounds one page of a position array.
func SlicePage(ids []int64, start, pageSize int) []int64 {
	if start >= len(ids) {
		return nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

// OrderByPositions reorders fetched tasks to match the position array. The
// store's natural result order is not trusted. Ids that no longer resolve to
// a live task in the column are skipped: the arrays are client-maintained and
// can briefly disagree with task status, which must not be fatal.
func OrderByPositions(ids []int64, tasks []domain.Task) []domain.Task {
	byID := make(map[int64]domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	ordered := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered
}
