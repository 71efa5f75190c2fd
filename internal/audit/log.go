package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Menü değişikliklerinin izi. Veritabanı olmadığı için JSONL dosyasına
// ekleniyor; satır başına bir kayıt, en yeni en sonda.

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionImport Action = "import"
)

type Entry struct {
	CreatedAt   string `json:"created_at"`
	UserEmail   string `json:"user_email"`
	EntityType  string `json:"entity_type"` // "menu_item" | "order"
	EntityID    string `json:"entity_id"`
	Action      Action `json:"action"`
	Description string `json:"description"`
}

type Log struct {
	mu       sync.Mutex
	filePath string
}

func NewLog(filePath string) *Log {
	return &Log{filePath: filePath}
}

func (l *Log) Write(e Entry) error {
	e.CreatedAt = time.Now().Format(time.RFC3339)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.filePath), 0o755); err != nil {
		return fmt.Errorf("audit dizini oluşturulamadı: %w", err)
	}

	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("audit dosyası açılamadı: %w", err)
	}
	defer f.Close()

	blob, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(blob, '\n')); err != nil {
		return fmt.Errorf("audit log yazılamadı: %w", err)
	}
	return nil
}

// List: en yeni başta, limit kadar
func (l *Log) List(limit int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue // bozuk satırı atla
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// en yeni başta
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
