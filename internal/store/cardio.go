package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const cardioColumns = `id, kind, started_at, distance_km, duration_sec, notes, created_at`

// AddCardioLog inserts l, assigning an id when it has none.
func (s *Store) AddCardioLog(l CardioLog) (*CardioLog, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Kind == "" {
		l.Kind = "run"
	}
	if l.StartedAt.IsZero() {
		l.StartedAt = time.Now()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO cardio_logs (id, kind, started_at, distance_km, duration_sec, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Kind, l.StartedAt.UTC().Format(time.RFC3339), l.DistanceKm, l.DurationSec, l.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cardio log: %w", err)
	}
	return s.GetCardioLog(l.ID)
}

func (s *Store) GetCardioLog(id string) (*CardioLog, error) {
	row := s.db.QueryRow(`SELECT `+cardioColumns+` FROM cardio_logs WHERE id = ?`, id)
	l, err := scanCardio(row)
	if err != nil {
		return nil, fmt.Errorf("get cardio log %s: %w", id, err)
	}
	return l, nil
}

func (s *Store) ListCardioLogs(f CardioFilter) ([]CardioLog, error) {
	query := `SELECT ` + cardioColumns + ` FROM cardio_logs WHERE 1=1`
	var args []any

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cardio logs: %w", err)
	}
	defer rows.Close()

	var logs []CardioLog
	for rows.Next() {
		l, err := scanCardio(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// AllCardioLogs returns every cardio log, newest first.
func (s *Store) AllCardioLogs() ([]CardioLog, error) {
	return s.ListCardioLogs(CardioFilter{})
}

func (s *Store) UpdateCardioNotes(id, notes string) error {
	_, err := s.db.Exec(`UPDATE cardio_logs SET notes = ? WHERE id = ?`, notes, id)
	return err
}

func (s *Store) DeleteCardioLog(id string) error {
	res, err := s.db.Exec(`DELETE FROM cardio_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cardio log %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete cardio log %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetDailyDistance buckets logs started in [from, to) by local calendar day,
// oldest day first. Days without logs are omitted.
func (s *Store) GetDailyDistance(from, to time.Time) ([]DailyDistance, error) {
	logs, err := s.ListCardioLogs(CardioFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("daily distance: %w", err)
	}

	byDay := make(map[time.Time]*DailyDistance)
	for _, l := range logs {
		local := l.StartedAt.Local()
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
		d, ok := byDay[day]
		if !ok {
			d = &DailyDistance{Day: day}
			byDay[day] = d
		}
		d.DistanceKm += l.DistanceKm
		d.DurationSec += l.DurationSec
		d.Count++
	}

	out := make([]DailyDistance, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCardio(r scanner) (*CardioLog, error) {
	l := &CardioLog{}
	var startedAt, createdAt string
	if err := r.Scan(&l.ID, &l.Kind, &startedAt, &l.DistanceKm, &l.DurationSec, &l.Notes, &createdAt); err != nil {
		return nil, err
	}
	l.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return l, nil
}
