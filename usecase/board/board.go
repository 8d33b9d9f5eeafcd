package board

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/repository"
)

type UseCase struct {
	boards repository.BoardRepository
	logger *zap.Logger
}

func New(boards repository.BoardRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		boards: boards,
		logger: logger,
	}
}

// RenameResult distinguishes a real rename from a no-op with the current
// title, so callers can skip cache invalidation on the latter.
type RenameResult struct {
	Board   *domain.Board
	Renamed bool
}

// VerifyOwnership gates every board-scoped operation.
func (uc *UseCase) VerifyOwnership(ctx context.Context, boardID int64, userID string) error {
	owned, err := uc.boards.IsOwnedBy(ctx, boardID, userID)
	if err != nil {
		return err
	}
	if !owned {
		uc.logger.Warn("board ownership check failed",
			zap.Int64("board_id", boardID),
			zap.String("user_id", userID))
		return domain.ErrBoardOwnership
	}
	return nil
}

func (uc *UseCase) ListBoards(ctx context.Context, userID string) ([]domain.Board, error) {
	return uc.boards.ListByUser(ctx, userID)
}

func (uc *UseCase) GetBoard(ctx context.Context, boardID int64) (*domain.Board, error) {
	return uc.boards.FindByID(ctx, boardID)
}

// CreateBoard inserts a board after checking the per-user cap and title
// uniqueness. The pre-check gives a clean error for the common case; the
// unique index still catches two concurrent creates racing past it.
func (uc *UseCase) CreateBoard(ctx context.Context, board *domain.Board) (*domain.Board, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}

	count, err := uc.boards.CountByUser(ctx, board.UserID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxBoardsPerUser {
		return nil, domain.ErrBoardLimit
	}

	switch _, err := uc.boards.FindByTitle(ctx, board.UserID, board.Title); {
	case err == nil:
		return nil, domain.ErrDuplicateTitle
	case !errors.Is(err, domain.ErrBoardNotFound):
		return nil, err
	}

	return uc.boards.Insert(ctx, board)
}

// Rename updates the board title. Submitting the current title is reported
// as an unchanged result rather than a write.
func (uc *UseCase) Rename(ctx context.Context, boardID int64, title string) (*RenameResult, error) {
	board, err := uc.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.Title == title {
		return &RenameResult{Board: board}, nil
	}

	renamed := &domain.Board{ID: board.ID, UserID: board.UserID, Title: title, CreatedAt: board.CreatedAt}
	if err := renamed.Validate(); err != nil {
		return nil, err
	}
	if err := uc.boards.Rename(ctx, boardID, title); err != nil {
		return nil, err
	}
	return &RenameResult{Board: renamed, Renamed: true}, nil
}

// DeleteBoard removes the board together with its tasks and positions row.
func (uc *UseCase) DeleteBoard(ctx context.Context, boardID int64) error {
	return uc.boards.Delete(ctx, boardID)
}
