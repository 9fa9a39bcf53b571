package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/docload/pkg/docload"
)

func TestParseDocumentIDs(t *testing.T) {
	canonical := "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	want := uuid.MustParse(canonical)

	t.Run("accepts textual forms and drops duplicates", func(t *testing.T) {
		ids, err := parseDocumentIDs([]string{
			canonical,
			"{3FA85F64-5717-4562-B3FC-2C963F66AFA6}",
			"urn:uuid:" + canonical,
			"3fa85f6457174562b3fc2c963f66afa6",
			"00000000-0000-0000-0000-000000000001",
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{want, uuid.MustParse("00000000-0000-0000-0000-000000000001")}, ids)
	})

	t.Run("invalid id is a config error", func(t *testing.T) {
		_, err := parseDocumentIDs([]string{canonical, "not-a-uuid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"not-a-uuid"`)
		assert.Equal(t, docload.ExitConfigError, docload.ExitCodeForError(err))
	})
}

func TestWriteDocuments(t *testing.T) {
	var buf bytes.Buffer
	docs := [][]byte{[]byte(`{"id":"a"}`), []byte(`{"id":"b"}`)}

	require.NoError(t, writeDocuments(&buf, docs))
	assert.Equal(t, "{\"id\":\"a\"}\n{\"id\":\"b\"}\n", buf.String())
}

func TestBuildFetchConfig(t *testing.T) {
	isolateEnv(t)
	getFlags = getFlagValues{}
	getFlags.connection = "postgresql://localhost/docs"
	getFlags.table = "events"
	t.Setenv("DOCLOAD_TABLE", "ignored")

	cfg, err := buildFetchConfig(context.Background(), getCmd, false)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "events", cfg.Table.Name)
	assert.Equal(t, docload.DefaultIDColumn, cfg.Table.IDColumn)
}
