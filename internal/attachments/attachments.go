// Package attachments stores trade image attachments. References are owned
// by the trade record that holds them; orphaned blobs are an accepted
// byproduct and are never collected.
package attachments

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tradelog/internal/errors"
)

// Store is the attachment persistence surface.
type Store interface {
	// Save writes a blob and returns its reference.
	Save(data []byte) (string, error)
	// Load returns the blob for a reference. A missing reference returns
	// (nil, false, nil): absent, never an error.
	Load(ref string) ([]byte, bool, error)
	// Delete removes the blob for a reference.
	Delete(ref string) error
}

// FileStore keeps attachments as files in a single directory, named by a
// generated reference.
type FileStore struct {
	dir string
}

// NewFileStore creates the attachment directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating attachment directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes a blob and returns the generated reference.
func (s *FileStore) Save(data []byte) (string, error) {
	ref := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0644); err != nil {
		return "", fmt.Errorf("saving attachment: %w", err)
	}
	return ref, nil
}

// Load returns the blob for a reference, or absent when the backing file is
// gone. Callers render a placeholder for absent attachments.
func (s *FileStore) Load(ref string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(ref)))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading attachment: %w", err)
	}
	return data, true, nil
}

// Delete removes the blob for a reference. Deleting a missing reference
// reports ErrAttachmentMissing.
func (s *FileStore) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if os.IsNotExist(err) {
		return errors.ErrAttachmentMissing
	}
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	return nil
}
