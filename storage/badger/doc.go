// Package badger implements the paper source store on BadgerDB.
package badger
