// Package store writes documents into, and reads them back from, the
// document table.
//
// Table and column names come from docload.TableConfig and are always quoted
// with pgx.Identifier, so any valid PostgreSQL identifier can be used.
package store
