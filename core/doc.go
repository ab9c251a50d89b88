// Package core defines the domain model shared across the system:
// source-store records, the denormalized IndexedPaper search document,
// and the sync checkpoint.
//
// Types here carry no behavior beyond derivations of their own fields;
// mapping between source records and search documents lives in the
// ingestion package.
package core
