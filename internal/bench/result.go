package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ckb-tps-bench/bench/internal/monitor"
)

// Result is one benchmark outcome: the configuration that was run and the
// stabilized network metrics it produced.
type Result struct {
	TransactionType TransactionType `json:"transaction_type"`
	SendDelayMs     uint64          `json:"send_delay_ms"`
	Metrics         monitor.Metrics `json:"metrics"`
}

// ResultWriter appends one JSON object per line to a metrics file, the
// on-disk output format SPEC_FULL.md's benchmark driver section specifies.
type ResultWriter struct {
	mu sync.Mutex
	f  *os.File
}

// NewResultWriter opens (creating if necessary) path for appending.
func NewResultWriter(path string) (*ResultWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open metrics file %s: %w", path, err)
	}
	return &ResultWriter{f: f}, nil
}

// Append marshals r as a single JSON line and flushes it to disk.
func (w *ResultWriter) Append(r Result) error {
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal benchmark result: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.Write(line); err != nil {
		return fmt.Errorf("write metrics line: %w", err)
	}
	return w.f.Sync()
}

// Close releases the underlying file handle.
func (w *ResultWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
