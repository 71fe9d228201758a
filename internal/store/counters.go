package store

import (
	"fmt"
	"time"
)

// IncrementCounter adds delta to the named counter for day.
func (s *Store) IncrementCounter(day time.Time, name string, delta float64) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_counters (day, name, value) VALUES (?, ?, ?)
		 ON CONFLICT(day, name) DO UPDATE SET value = value + excluded.value`,
		dayKey(day), name, delta,
	)
	if err != nil {
		return fmt.Errorf("increment counter %q: %w", name, err)
	}
	return nil
}

// SetCounter overwrites the named counter for day.
func (s *Store) SetCounter(day time.Time, name string, value float64) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_counters (day, name, value) VALUES (?, ?, ?)
		 ON CONFLICT(day, name) DO UPDATE SET value = excluded.value`,
		dayKey(day), name, value,
	)
	if err != nil {
		return fmt.Errorf("set counter %q: %w", name, err)
	}
	return nil
}

func (s *Store) GetCounters(day time.Time) (Counters, error) {
	var c Counters
	rows, err := s.db.Query(`SELECT name, value FROM daily_counters WHERE day = ?`, dayKey(day))
	if err != nil {
		return c, fmt.Errorf("get counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return c, err
		}
		switch name {
		case CounterExercises:
			c.Exercises = int(value)
		case CounterIntervals:
			c.Intervals = int(value)
		case CounterCalories:
			c.Calories = value
		}
	}
	return c, rows.Err()
}
