package board

import (
	"context"
	"errors"
	"testing"

	"github.com/junaydb/kanban-board/domain"
)

type stubBoardRepo struct {
	findByID    func(ctx context.Context, boardID int64) (*domain.Board, error)
	listByUser  func(ctx context.Context, userID string) ([]domain.Board, error)
	findByTitle func(ctx context.Context, userID, title string) (*domain.Board, error)
	countByUser func(ctx context.Context, userID string) (int64, error)
	insert      func(ctx context.Context, board *domain.Board) (*domain.Board, error)
	rename      func(ctx context.Context, boardID int64, title string) error
	delete      func(ctx context.Context, boardID int64) error
	isOwnedBy   func(ctx context.Context, boardID int64, userID string) (bool, error)
}

func (s *stubBoardRepo) FindByID(ctx context.Context, boardID int64) (*domain.Board, error) {
	return s.findByID(ctx, boardID)
}

func (s *stubBoardRepo) ListByUser(ctx context.Context, userID string) ([]domain.Board, error) {
	return s.listByUser(ctx, userID)
}

func (s *stubBoardRepo) FindByTitle(ctx context.Context, userID, title string) (*domain.Board, error) {
	return s.findByTitle(ctx, userID, title)
}

func (s *stubBoardRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return s.countByUser(ctx, userID)
}

func (s *stubBoardRepo) Insert(ctx context.Context, board *domain.Board) (*domain.Board, error) {
	return s.insert(ctx, board)
}

func (s *stubBoardRepo) Rename(ctx context.Context, boardID int64, title string) error {
	return s.rename(ctx, boardID, title)
}

func (s *stubBoardRepo) Delete(ctx context.Context, boardID int64) error {
	return s.delete(ctx, boardID)
}

func (s *stubBoardRepo) IsOwnedBy(ctx context.Context, boardID int64, userID string) (bool, error) {
	return s.isOwnedBy(ctx, boardID, userID)
}

func TestVerifyOwnershipRejectsForeignBoard(t *testing.T) {
	repo := &stubBoardRepo{
		isOwnedBy: func(_ context.Context, boardID int64, userID string) (bool, error) {
			return userID == "alice", nil
		},
	}
	uc := New(repo, nil)

	if err := uc.VerifyOwnership(context.Background(), 1, "alice"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := uc.VerifyOwnership(context.Background(), 1, "mallory"); !errors.Is(err, domain.ErrBoardOwnership) {
		t.Fatalf("expected ErrBoardOwnership, got %v", err)
	}
}

func TestCreateBoardEnforcesCap(t *testing.T) {
	repo := &stubBoardRepo{
		countByUser: func(context.Context, string) (int64, error) {
			return domain.MaxBoardsPerUser, nil
		},
	}
	uc := New(repo, nil)

	_, err := uc.CreateBoard(context.Background(), &domain.Board{UserID: "alice", Title: "eleventh"})
	if !errors.Is(err, domain.ErrBoardLimit) {
		t.Fatalf("expected ErrBoardLimit, got %v", err)
	}
}

func TestCreateBoardRejectsDuplicateTitle(t *testing.T) {
	repo := &stubBoardRepo{
		countByUser: func(context.Context, string) (int64, error) { return 2, nil },
		findByTitle: func(_ context.Context, _, title string) (*domain.Board, error) {
			return &domain.Board{ID: 1, UserID: "alice", Title: title}, nil
		},
	}
	uc := New(repo, nil)

	_, err := uc.CreateBoard(context.Background(), &domain.Board{UserID: "alice", Title: "Work"})
	if !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestCreateBoardInsertsWhenTitleIsFree(t *testing.T) {
	repo := &stubBoardRepo{
		countByUser: func(context.Context, string) (int64, error) { return 2, nil },
		findByTitle: func(context.Context, string, string) (*domain.Board, error) {
			return nil, domain.ErrBoardNotFound
		},
		insert: func(_ context.Context, board *domain.Board) (*domain.Board, error) {
			board.ID = 7
			return board, nil
		},
	}
	uc := New(repo, nil)

	created, err := uc.CreateBoard(context.Background(), &domain.Board{UserID: "alice", Title: "Work"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("expected assigned id, got %d", created.ID)
	}
}

func TestCreateBoardRejectsBlankTitle(t *testing.T) {
	uc := New(&stubBoardRepo{}, nil)

	if _, err := uc.CreateBoard(context.Background(), &domain.Board{UserID: "alice", Title: " "}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRenameSameTitleIsNoOp(t *testing.T) {
	renamed := false
	repo := &stubBoardRepo{
		findByID: func(context.Context, int64) (*domain.Board, error) {
			return &domain.Board{ID: 1, UserID: "alice", Title: "Work"}, nil
		},
		rename: func(context.Context, int64, string) error {
			renamed = true
			return nil
		},
	}
	uc := New(repo, nil)

	result, err := uc.Rename(context.Background(), 1, "Work")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if result.Renamed {
		t.Fatal("same-title rename must be reported as unchanged")
	}
	if renamed {
		t.Fatal("same-title rename must not hit the store")
	}
	if result.Board.Title != "Work" {
		t.Fatalf("unexpected board title %q", result.Board.Title)
	}
}

func TestRenameUpdatesTitle(t *testing.T) {
	repo := &stubBoardRepo{
		findByID: func(context.Context, int64) (*domain.Board, error) {
			return &domain.Board{ID: 1, UserID: "alice", Title: "Work"}, nil
		},
		rename: func(_ context.Context, _ int64, title string) error {
			if title != "Play" {
				t.Fatalf("unexpected title %q", title)
			}
			return nil
		},
	}
	uc := New(repo, nil)

	result, err := uc.Rename(context.Background(), 1, "Play")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if !result.Renamed || result.Board.Title != "Play" {
		t.Fatalf("unexpected result %+v", result)
	}
}

// cascadeStore models the transactional board delete: the board row, its
// tasks and its positions row all go in one operation.
type cascadeStore struct {
	stubBoardRepo
	boards    map[int64]*domain.Board
	tasks     map[int64]map[int64]*domain.Task
	positions map[int64]*domain.TaskPositions
}

func newCascadeStore() *cascadeStore {
	return &cascadeStore{
		boards:    map[int64]*domain.Board{},
		tasks:     map[int64]map[int64]*domain.Task{},
		positions: map[int64]*domain.TaskPositions{},
	}
}

func (s *cascadeStore) FindByID(_ context.Context, boardID int64) (*domain.Board, error) {
	board, ok := s.boards[boardID]
	if !ok {
		return nil, domain.ErrBoardNotFound
	}
	return board, nil
}

func (s *cascadeStore) Delete(_ context.Context, boardID int64) error {
	if _, ok := s.boards[boardID]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(s.tasks, boardID)
	delete(s.positions, boardID)
	delete(s.boards, boardID)
	return nil
}

func (s *cascadeStore) lookupTask(boardID, taskID int64) (*domain.Task, error) {
	task, ok := s.tasks[boardID][taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func TestDeleteBoardCascades(t *testing.T) {
	store := newCascadeStore()
	store.boards[1] = &domain.Board{ID: 1, UserID: "alice", Title: "Work"}
	store.tasks[1] = map[int64]*domain.Task{
		10: {ID: 10, BoardID: 1, Title: "a", Status: domain.StatusTodo},
		11: {ID: 11, BoardID: 1, Title: "b", Status: domain.StatusDone},
	}
	store.positions[1] = &domain.TaskPositions{BoardID: 1, TodoPos: []int64{10}, DonePos: []int64{11}}
	uc := New(store, nil)

	if err := uc.DeleteBoard(context.Background(), 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := uc.GetBoard(context.Background(), 1); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
	if _, err := store.lookupTask(1, 10); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("task survived board delete: %v", err)
	}
	if _, ok := store.positions[1]; ok {
		t.Fatal("positions row survived board delete")
	}

	if err := uc.DeleteBoard(context.Background(), 1); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

func TestRenameMissingBoard(t *testing.T) {
	repo := &stubBoardRepo{
		findByID: func(context.Context, int64) (*domain.Board, error) {
			return nil, domain.ErrBoardNotFound
		},
	}
	uc := New(repo, nil)

	if _, err := uc.Rename(context.Background(), 404, "anything"); !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}
