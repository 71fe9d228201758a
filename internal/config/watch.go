package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Watch reloads the config at path whenever it changes and passes the result
// to onChange. The file's directory is watched so that editors that replace
// the file on save are seen too. The returned func stops the watcher.
func Watch(path string, onChange func(Config, error)) (func(), error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	name := filepath.Clean(path)
	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					select {
					case <-done:
						return
					default:
					}
					cfg, err := Load(path)
					slog.Debug("config_event", "event", "reloaded", "path", path, "error", err)
					onChange(cfg, err)
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config_event", "event", "watch_error", "error", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}
	return cleanup, nil
}
