package pagination

import (
	"slices"
	"testing"
	"time"

	"github.com/junaydb/kanban-board/domain"
)

func mkTask(id int64, created time.Time, due *time.Time) domain.Task {
	return domain.Task{ID: id, CreatedAt: created, DueDate: due}
}

func taskIDs(tasks []domain.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestForRejectsUnknownSortBy(t *testing.T) {
	if _, err := For(SortBy("priority")); err == nil {
		t.Fatal("expected error")
	}
}

func TestCompareCreatedOrdersWithIDTieBreak(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		mkTask(3, base, nil),
		mkTask(1, base.Add(time.Hour), nil),
		mkTask(2, base, nil),
	}

	asc := slices.Clone(tasks)
	slices.SortFunc(asc, CompareCreated(OrderAsc))
	if got := taskIDs(asc); !slices.Equal(got, []int64{2, 3, 1}) {
		t.Fatalf("ASC order wrong: %v", got)
	}

	desc := slices.Clone(tasks)
	slices.SortFunc(desc, CompareCreated(OrderDesc))
	if got := taskIDs(desc); !slices.Equal(got, []int64{1, 3, 2}) {
		t.Fatalf("DESC order wrong: %v", got)
	}
}

func TestCompareDueDateNullsSortLastBothDirections(t *testing.T) {
	early := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		mkTask(5, early, nil),
		mkTask(2, early, &late),
		mkTask(4, early, nil),
		mkTask(1, early, &early),
	}

	asc := slices.Clone(tasks)
	slices.SortFunc(asc, CompareDueDate(OrderAsc))
	if got := taskIDs(asc); !slices.Equal(got, []int64{1, 2, 4, 5}) {
		t.Fatalf("ASC order wrong: %v", got)
	}

	// Dated tasks reverse, the undated block stays last with ascending ids.
	desc := slices.Clone(tasks)
	slices.SortFunc(desc, CompareDueDate(OrderDesc))
	if got := taskIDs(desc); !slices.Equal(got, []int64{2, 1, 4, 5}) {
		t.Fatalf("DESC order wrong: %v", got)
	}
}

func TestStrategyNextCursorFollowsLastRow(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	next := Strategies[SortByCreated].Next(mkTask(10, created, nil))
	if c := next.(CreatedCursor); c.PrevID != 10 || !c.PrevCreatedAt.Equal(created) {
		t.Fatalf("unexpected created cursor: %+v", c)
	}

	next = Strategies[SortByDueDate].Next(mkTask(11, created, &due))
	if c := next.(DueDateCursor); c.PrevID != 11 || c.PrevDueDate == nil || !c.PrevDueDate.Equal(due) {
		t.Fatalf("unexpected dueDate cursor: %+v", c)
	}

	// A page that ended inside the undated block continues with a null key.
	next = Strategies[SortByDueDate].Next(mkTask(12, created, nil))
	if c := next.(DueDateCursor); c.PrevDueDate != nil {
		t.Fatalf("expected nil PrevDueDate, got %v", c.PrevDueDate)
	}
}

func TestSlicePage(t *testing.T) {
	ids := []int64{5, 3, 8, 1, 9}

	if got := SlicePage(ids, 0, 2); !slices.Equal(got, []int64{5, 3}) {
		t.Fatalf("first page wrong: %v", got)
	}
	if got := SlicePage(ids, 4, 2); !slices.Equal(got, []int64{9}) {
		t.Fatalf("short last page wrong: %v", got)
	}
	if got := SlicePage(ids, 5, 2); got != nil {
		t.Fatalf("expected nil past the end, got %v", got)
	}
}

func TestOrderByPositionsSkipsStaleIDs(t *testing.T) {
	now := time.Now()
	tasks := []domain.Task{
		mkTask(3, now, nil),
		mkTask(5, now, nil),
		mkTask(8, now, nil),
	}

	ordered := OrderByPositions([]int64{5, 99, 3, 8}, tasks)
	if got := taskIDs(ordered); !slices.Equal(got, []int64{5, 3, 8}) {
		t.Fatalf("expected array order without stale id, got %v", got)
	}
}
