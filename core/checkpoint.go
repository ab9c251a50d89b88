package core

import "time"

// maxCheckpointErrors bounds the checkpoint error log. Older entries are
// dropped first.
const maxCheckpointErrors = 50

// CheckpointError is a timestamped entry in the checkpoint error log.
type CheckpointError struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// Checkpoint is the persisted cursor and counters marking sync
// progress. LastKey == nil means "from the beginning". The Running flag
// is advisory and corrected at process start so a crash cannot leave it
// stuck true.
type Checkpoint struct {
	LastKey         *string           `json:"lastKey"`
	TotalRetrieved  int64             `json:"totalRetrieved"`
	TotalIndexed    int64             `json:"totalIndexed"`
	LastInteraction time.Time         `json:"lastInteraction"`
	StartedAt       time.Time         `json:"startedAt"`
	Running         bool              `json:"running"`
	Errors          []CheckpointError `json:"errors,omitempty"`
}

// NewCheckpoint returns a fresh checkpoint positioned at the beginning.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{}
}

// Touch updates the last-interaction timestamp.
func (c *Checkpoint) Touch() {
	c.LastInteraction = time.Now().UTC()
}

// Advance moves the cursor past key and adds the batch counters.
func (c *Checkpoint) Advance(key string, retrieved, indexed int) {
	k := key
	c.LastKey = &k
	c.TotalRetrieved += int64(retrieved)
	c.TotalIndexed += int64(indexed)
	c.Touch()
}

// RecordError appends a timestamped message to the error log, trimming
// the oldest entries beyond the bound.
func (c *Checkpoint) RecordError(msg string) {
	c.Errors = append(c.Errors, CheckpointError{At: time.Now().UTC(), Message: msg})
	if len(c.Errors) > maxCheckpointErrors {
		c.Errors = c.Errors[len(c.Errors)-maxCheckpointErrors:]
	}
	c.Touch()
}
