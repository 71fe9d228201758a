package store

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) StartSession(kind string, plannedSec int64, cycles int) (*TimerSession, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO timer_sessions (kind, planned_sec, cycles, status, started_at)
		 VALUES (?, ?, ?, 'running', ?)`,
		kind, plannedSec, cycles, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

func (s *Store) GetSession(id int64) (*TimerSession, error) {
	ts := &TimerSession{}
	var startedAt string
	var completedAt sql.NullString

	err := s.db.QueryRow(
		`SELECT id, kind, planned_sec, cycles, completed_cycles, status, started_at, completed_at
		 FROM timer_sessions WHERE id = ?`, id,
	).Scan(&ts.ID, &ts.Kind, &ts.PlannedSec, &ts.Cycles, &ts.CompletedCycles, &ts.Status, &startedAt, &completedAt)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	ts.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		ts.CompletedAt = &t
	}
	return ts, nil
}

func (s *Store) CompleteSession(id int64, completedCycles int) error {
	return s.closeSession(id, "completed", completedCycles)
}

func (s *Store) CancelSession(id int64, completedCycles int) error {
	return s.closeSession(id, "cancelled", completedCycles)
}

func (s *Store) closeSession(id int64, status string, completedCycles int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE timer_sessions SET status = ?, completed_at = ?, completed_cycles = ?
		 WHERE id = ? AND status = 'running'`,
		status, now, completedCycles, id,
	)
	if err != nil {
		return fmt.Errorf("%s session %d: %w", status, id, err)
	}
	return nil
}

// GetSessionStats counts completed sessions started in [from, to) and sums
// their planned seconds.
func (s *Store) GetSessionStats(from, to time.Time) (completed int, totalSec int64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(planned_sec), 0)
		FROM timer_sessions
		WHERE status = 'completed'
		  AND started_at >= ? AND started_at < ?`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&completed, &totalSec)
	return
}

func (s *Store) ListSessions(limit int) ([]TimerSession, error) {
	query := `SELECT id FROM timer_sessions ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]TimerSession, 0, len(ids))
	for _, id := range ids {
		ts, err := s.GetSession(id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *ts)
	}
	return sessions, nil
}
