package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mlefevre/todopro/internal/model"
)

// ListTasks returns every task owned by ownerID, ordered by manual order
// ascending with newest-first as the tie-break.
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID int64) ([]*model.Task, error) {
	var tasks []*model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM Task WHERE UserId = ? ORDER BY OrderIndex ASC, CreatedAt DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for owner %d: %w", ownerID, err)
	}
	return tasks, nil
}

// AddTask validates the title, assigns the next manual order index for the
// owner, stamps CreatedAt/UpdatedAt, inserts the row, and stores the
// generated id back on t.
func (s *SQLiteStore) AddTask(ctx context.Context, t *model.Task) error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return fmt.Errorf("task title must not be empty: %w", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return fmt.Errorf("task title exceeds %d characters: %w", model.MaxTitleLength, ErrInvalidInput)
	}
	t.Title = title
	if t.Category == "" {
		t.Category = model.DefaultCategory
	}

	next, err := s.NextOrderIndex(ctx, t.UserID)
	if err != nil {
		return err
	}
	t.OrderIndex = next

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO Task (
			UserId, OrderIndex, Title, IsDone, Category, Priority,
			DueDate, CreatedAt, UpdatedAt, TagsRaw, SubtasksJson
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.OrderIndex, t.Title, t.IsDone, t.Category, t.Priority,
		t.DueDate, t.CreatedAt, t.UpdatedAt, t.TagsRaw, t.SubtasksJSON,
	)
	if err != nil {
		return writeFailed("adding task", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return writeFailed("adding task", err)
	}
	t.ID = id
	return nil
}

// UpdateTask refreshes UpdatedAt and persists the full record.
func (s *SQLiteStore) UpdateTask(ctx context.Context, t *model.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title must not be empty: %w", ErrInvalidInput)
	}

	t.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE Task SET
			UserId = ?, OrderIndex = ?, Title = ?, IsDone = ?, Category = ?,
			Priority = ?, DueDate = ?, UpdatedAt = ?, TagsRaw = ?, SubtasksJson = ?
		WHERE Id = ?`,
		t.UserID, t.OrderIndex, t.Title, t.IsDone, t.Category,
		t.Priority, t.DueDate, t.UpdatedAt, t.TagsRaw, t.SubtasksJSON,
		t.ID,
	)
	if err != nil {
		return writeFailed(fmt.Sprintf("updating task %d", t.ID), err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", t.ID, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task row by id.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM Task WHERE Id = ?", id)
	if err != nil {
		return writeFailed(fmt.Sprintf("deleting task %d", id), err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearCompleted deletes every done task for the owner one row at a time and
// reports how many were removed. A mid-batch failure returns the count so
// far; rows already deleted stay deleted and the operation is not retried.
func (s *SQLiteStore) ClearCompleted(ctx context.Context, ownerID int64) (int, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		"SELECT Id FROM Task WHERE UserId = ? AND IsDone = 1", ownerID)
	if err != nil {
		return 0, fmt.Errorf("listing completed tasks for owner %d: %w", ownerID, err)
	}

	deleted := 0
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM Task WHERE Id = ?", id); err != nil {
			return deleted, writeFailed(fmt.Sprintf("clearing completed task %d", id), err)
		}
		deleted++
	}
	return deleted, nil
}

// NextOrderIndex returns max(OrderIndex)+1 for the owner, or 1 when the owner
// has no tasks yet.
func (s *SQLiteStore) NextOrderIndex(ctx context.Context, ownerID int64) (int, error) {
	var max int
	err := s.db.GetContext(ctx, &max,
		"SELECT COALESCE(MAX(OrderIndex), 0) FROM Task WHERE UserId = ?", ownerID)
	if err != nil {
		return 0, fmt.Errorf("getting max order index for owner %d: %w", ownerID, err)
	}
	return max + 1, nil
}

// PersistOrder writes each task's in-memory OrderIndex back to storage in the
// given sequence. Callers are responsible for having assigned contiguous
// 1..N values beforehand. Only the OrderIndex column changes; reordering does
// not count as a content edit, so UpdatedAt is left alone.
func (s *SQLiteStore) PersistOrder(ctx context.Context, tasks []*model.Task) error {
	for _, t := range tasks {
		_, err := s.db.ExecContext(ctx,
			"UPDATE Task SET OrderIndex = ? WHERE Id = ?", t.OrderIndex, t.ID)
		if err != nil {
			return writeFailed(fmt.Sprintf("persisting order of task %d", t.ID), err)
		}
	}
	return nil
}
