// Package ingestion syncs paper records from the source store into the
// search index: it pages through stats, joins their references, cleans
// the text, embeds it, and bulk-indexes the result while keeping a
// resumable checkpoint.
package ingestion
