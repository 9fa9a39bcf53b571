package store

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/pkg/docload"
)

// Query templates. Placeholders are table, id column, object column,
// in that order, each already sanitized.
const (
	// Parameter $1: document key (uuid), $2: document body (jsonb)
	insertDocumentTemplate = `INSERT INTO %s (%s, %s) VALUES ($1, $2)`

	// Parameter $1: uuid[] of document keys
	selectDocumentsTemplate = `SELECT %[2]s, %[3]s FROM %[1]s WHERE %[2]s = ANY($1)`
)

type queries struct {
	insert string
	fetch  string
}

func buildQueries(t docload.TableConfig) queries {
	table := pgx.Identifier{t.Name}
	if t.Schema != "" {
		table = pgx.Identifier{t.Schema, t.Name}
	}
	tbl := table.Sanitize()
	id := pgx.Identifier{t.IDColumn}.Sanitize()
	obj := pgx.Identifier{t.ObjectColumn}.Sanitize()

	return queries{
		insert: fmt.Sprintf(insertDocumentTemplate, tbl, id, obj),
		fetch:  fmt.Sprintf(selectDocumentsTemplate, tbl, id, obj),
	}
}
