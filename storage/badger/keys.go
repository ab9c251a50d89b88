package badger

// Key prefixes for different record types. Stat keys sort
// lexicographically by paper key, which is what makes ascending-cursor
// page scans work.
const (
	statPrefix = "stat:"
	refPrefix  = "ref:"
)

// makeStatKey generates the storage key for a stat record.
func makeStatKey(key string) []byte {
	return []byte(statPrefix + key)
}

// makeRefKey generates the storage key for a reference record.
func makeRefKey(key string) []byte {
	return []byte(refPrefix + key)
}

// makeStatSeekKey generates the smallest storage key strictly greater
// than the stat key for afterKey. Appending a zero byte is enough
// because paper keys never contain NUL.
func makeStatSeekKey(afterKey string) []byte {
	return append(makeStatKey(afterKey), 0)
}
