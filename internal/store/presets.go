package store

import (
	"fmt"
	"time"
)

const presetColumns = `id, name, kind, work_sec, rest_sec, inhale_sec, hold1_sec, exhale_sec, hold2_sec, cycles, created_at`

func (s *Store) CreatePreset(p Preset) (*Preset, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO presets (name, kind, work_sec, rest_sec, inhale_sec, hold1_sec, exhale_sec, hold2_sec, cycles, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Kind, p.Work, p.Rest, p.Inhale, p.Hold1, p.Exhale, p.Hold2, p.Cycles, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert preset: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetPreset(id)
}

func (s *Store) GetPreset(id int64) (*Preset, error) {
	p, err := scanPreset(s.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get preset %d: %w", id, err)
	}
	return p, nil
}

// ListPresets returns presets of the given kind, or all presets when kind
// is empty, ordered by name.
func (s *Store) ListPresets(kind string) ([]Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

func (s *Store) DeletePreset(id int64) error {
	_, err := s.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	return err
}

func scanPreset(r scanner) (*Preset, error) {
	p := &Preset{}
	var createdAt string
	err := r.Scan(&p.ID, &p.Name, &p.Kind, &p.Work, &p.Rest, &p.Inhale, &p.Hold1, &p.Exhale, &p.Hold2, &p.Cycles, &createdAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}
