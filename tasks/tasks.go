// Package tasks is the per-user task list over the tasks table.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhihnguyen/to-do-calendar/store"
)

type (
	Task struct {
		ID          int64
		UserID      int64
		Description string
		Done        bool
	}

	Store struct {
		st *store.Store
	}
)

var ErrEmptyDescription = errors.New("task description must not be empty")

func New(st *store.Store) *Store {
	return &Store{st: st}
}

func (s *Store) Create(ctx context.Context, userID int64, description string) (int64, error) {
	if description == "" {
		return 0, ErrEmptyDescription
	}
	res, err := s.st.DB().ExecContext(ctx,
		`insert into tasks(user_id, task_desc, is_complete) values (?, ?, ?)`,
		userID, description, false)
	if err != nil {
		return 0, fmt.Errorf("unable to create task, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unable to read id of new task, cause %w", err)
	}
	return id, nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := s.st.DB().QueryContext(ctx,
		`select task_id, user_id, task_desc, is_complete from tasks where user_id = ? order by task_id asc`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		err = rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Done)
		if err != nil {
			return nil, fmt.Errorf("unable to scan task row, cause %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	return out, nil
}
