package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Masa eşlemesi: müşteri oturumu başına bir masa numarası. Tarayıcıdaki
// localStorage karşılığı, o yüzden dosyada tutuluyor ve restart'ı atlatıyor.

var ErrInvalidTable = errors.New("geçersiz masa numarası")

type Store struct {
	mu       sync.RWMutex
	filePath string
	maxTable int
	tables   map[string]int // session id -> masa no
}

func NewStore(filePath string, maxTable int) (*Store, error) {
	s := &Store{
		filePath: filePath,
		maxTable: maxTable,
		tables:   make(map[string]int),
	}

	blob, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("oturum dosyası okunamadı: %w", err)
		}
		return s, nil
	}
	if err := json.Unmarshal(blob, &s.tables); err != nil {
		// Bozuk dosya yüzünden servisi düşürme, sıfırdan başla
		log.Printf("[WARN] oturum dosyası çözülemedi, sıfırlanıyor: %v", err)
		s.tables = make(map[string]int)
	}
	return s, nil
}

// Establish: masa numarasını doğrular ve oturuma bağlar. sessionID boşsa
// yeni oturum açılır, doluysa mevcut oturumun masası güncellenir.
func (s *Store) Establish(sessionID string, table int) (string, error) {
	if table < 1 || table > s.maxTable {
		return "", fmt.Errorf("%w: %d (1-%d arası olmalı)", ErrInvalidTable, table, s.maxTable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.tables[sessionID] = table

	if err := s.save(); err != nil {
		log.Printf("[WARN] oturum dosyası yazılamadı: %v", err)
	}
	return sessionID, nil
}

// Table: oturuma bağlı masa. İkinci dönüş değeri masa hiç kurulmadıysa false.
func (s *Store) Table(sessionID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[sessionID]
	return t, ok
}

// save: kilit çağıranda
func (s *Store) save() error {
	blob, err := json.MarshalIndent(s.tables, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.filePath, blob, 0o644)
}
