package pricing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists usage events as one JSON object per line.
type Store struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenStore opens (creating if needed) the append-only usage log at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating usage log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}
	return &Store{path: path, file: f}, nil
}

// Record appends one usage event as a JSON line.
func (s *Store) Record(event UsageEvent) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding usage event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing usage event: %w", err)
	}
	return nil
}

// LoadAll reads every event currently in the log.
func (s *Store) LoadAll() ([]UsageEvent, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading usage log: %w", err)
	}
	defer f.Close()

	var events []UsageEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event UsageEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parsing usage log line: %w", err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning usage log: %w", err)
	}
	return events, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
