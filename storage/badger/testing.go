package badger

import "github.com/ivanbaha/opensearch-demo/storage"

// NewMemorySource creates an in-memory paper source for testing.
// Caller must close the returned repository when done.
func NewMemorySource() (storage.PaperSourceWriter, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	repo, err := NewSourceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return repo, nil
}
