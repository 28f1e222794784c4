package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every profile's session in a single JSON document.
// Writes go to a temp file first and are renamed into place.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileDocument struct {
	Sessions map[string]json.RawMessage `json:"sessions"`
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context, profile string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	payload, ok := doc.Sessions[profile]
	if !ok {
		return nil, ErrNoSession
	}
	var sealed string
	if err := json.Unmarshal(payload, &sealed); err == nil {
		return []byte(sealed), nil
	}
	return []byte(payload), nil
}

func (s *FileStore) Save(_ context.Context, profile string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	// Sealed payloads are not JSON; store them as a JSON string.
	if !json.Valid(payload) {
		quoted, err := json.Marshal(string(payload))
		if err != nil {
			return err
		}
		payload = quoted
	}
	doc.Sessions[profile] = json.RawMessage(payload)
	return s.write(doc)
}

func (s *FileStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Sessions[profile]; !ok {
		return nil
	}
	delete(doc.Sessions, profile)
	return s.write(doc)
}

// Ping checks that the session file is readable or can be created
func (s *FileStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

func (s *FileStore) read() (*fileDocument, error) {
	doc := &fileDocument{Sessions: map[string]json.RawMessage{}}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if doc.Sessions == nil {
		doc.Sessions = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (s *FileStore) write(doc *fileDocument) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
