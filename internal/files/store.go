package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded binaries on the local filesystem, one directory
// per project. URLs it returns are relative paths served back through the
// authenticated /files endpoint.
type Store struct {
	basePath string
}

func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("files base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create files base path: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) Save(projectID uuid.UUID, name string, content []byte) (string, error) {
	name = filepath.Base(name)
	dir := filepath.Join(s.basePath, projectID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create project directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/files/" + projectID.String() + "/" + name, nil
}

// Open resolves a stored path back to its content. The path is the URL-ish
// form produced by Save with the /files prefix stripped.
func (s *Store) Open(path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")
	cleaned := filepath.Clean(path)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("invalid file path")
	}
	content, err := os.ReadFile(filepath.Join(s.basePath, cleaned))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return content, nil
}
