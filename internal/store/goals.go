package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

func dayKey(t time.Time) string {
	return t.Local().Format(dayLayout)
}

func parseDay(s string) time.Time {
	t, _ := time.ParseInLocation(dayLayout, s, time.Local)
	return t
}

func (s *Store) CreateGoal(typ string, target float64, day time.Time) (*Goal, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO goals (id, type, target, day, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, typ, target, dayKey(day), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetGoal(id)
}

func (s *Store) GetGoal(id string) (*Goal, error) {
	g, err := scanGoal(s.db.QueryRow(
		`SELECT id, type, target, progress, day, created_at, updated_at FROM goals WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return g, nil
}

// ListGoals returns the goals set for the calendar day containing day.
func (s *Store) ListGoals(day time.Time) ([]Goal, error) {
	rows, err := s.db.Query(
		`SELECT id, type, target, progress, day, created_at, updated_at
		 FROM goals WHERE day = ? ORDER BY created_at, rowid`, dayKey(day),
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoalProgress(id string, progress float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE goals SET progress = ?, updated_at = ? WHERE id = ?`, progress, now, id,
	)
	return err
}

func (s *Store) UpdateGoalTarget(id string, target float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE goals SET target = ?, updated_at = ? WHERE id = ?`, target, now, id,
	)
	return err
}

func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete goal %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanGoal(r scanner) (*Goal, error) {
	g := &Goal{}
	var day, createdAt, updatedAt string
	if err := r.Scan(&g.ID, &g.Type, &g.Target, &g.Progress, &day, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	g.Day = parseDay(day)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return g, nil
}
