// Package history persists analysis results per user.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/xplshn/tacgen/pkg/analyzer"
	"github.com/xplshn/tacgen/pkg/ir"
	"github.com/xplshn/tacgen/pkg/symbols"
	"github.com/xplshn/tacgen/pkg/token"
)

type Record struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Language         analyzer.Language `json:"language"`
	SourceCode       string            `json:"sourceCode"`
	Tokens           []token.Token     `json:"tokens"`
	ThreeAddressCode []ir.TAC          `json:"threeAddressCode"`
	Quadruples       []ir.Quadruple    `json:"quadruples"`
	SymbolTable      symbols.Table     `json:"symbolTable"`
	Timestamp        time.Time         `json:"timestamp"`
}

// NewRecord builds a record for res. The ID is an xxhash of the user, the
// source and the timestamp.
func NewRecord(userID string, res *analyzer.Result, at time.Time) Record {
	h := xxhash.New()
	h.WriteString(userID)
	h.WriteString("\x00")
	h.WriteString(res.SourceCode)
	h.WriteString("\x00")
	h.WriteString(strconv.FormatInt(at.UnixNano(), 10))
	return Record{
		ID:               fmt.Sprintf("%016x", h.Sum64()),
		UserID:           userID,
		Language:         res.Language,
		SourceCode:       res.SourceCode,
		Tokens:           res.Tokens,
		ThreeAddressCode: res.ThreeAddressCode,
		Quadruples:       res.Quadruples,
		SymbolTable:      res.SymbolTable,
		Timestamp:        at,
	}
}

var ErrNoUser = errors.New("history: record has no user ID")

// Store appends records and lists a user's records newest first.
type Store interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context, userID string) ([]Record, error)
}

func newestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.After(recs[j].Timestamp) })
}

// MemStore keeps records in memory.
type MemStore struct {
	mu      sync.Mutex
	records []Record
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Append(ctx context.Context, rec Record) error {
	if rec.UserID == "" {
		return ErrNoUser
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemStore) List(ctx context.Context, userID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	newestFirst(out)
	return out, nil
}

// FileStore appends one JSON document per line to a file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Append(ctx context.Context, rec Record) error {
	if rec.UserID == "" {
		return ErrNoUser
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("writing history file: %w", err)
	}
	return f.Close()
}

func (s *FileStore) List(ctx context.Context, userID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: decoding history record: %w", s.path, lineNo, err)
		}
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	newestFirst(out)
	return out, nil
}
