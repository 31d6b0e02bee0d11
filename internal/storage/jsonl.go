package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"arbScope/internal/model"
)

// JsonlSink appends opportunities to a JSONL file, one record per line.
type JsonlSink struct {
	path string
	mu   sync.Mutex
}

func NewJsonlSink(path string) *JsonlSink {
	return &JsonlSink{path: path}
}

// PutOpportunities appends a batch of opportunities as JSON lines.
func (s *JsonlSink) PutOpportunities(_ context.Context, opps []model.ArbitrageOpportunity) error {
	if len(opps) == 0 {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, opp := range opps {
		line, err := json.Marshal(opp)
		if err != nil {
			return fmt.Errorf("marshal opportunity: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write opportunity: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
