// Package storage defines the collaborator contracts of the sync
// pipeline: the source document store holding stat and reference
// records, and the checkpoint store that makes runs resumable.
//
// The badger subpackage implements PaperSource on BadgerDB for local
// and test use; FileCheckpointStore persists checkpoints as a JSON
// file.
package storage
