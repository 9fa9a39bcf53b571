package testing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/docload/internal/db"
	"github.com/vvka-141/docload/internal/logging"
	"github.com/vvka-141/docload/internal/services"
	"github.com/vvka-141/docload/internal/testinfra"
	"github.com/vvka-141/docload/pkg/docload"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: DOCLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("DOCLOAD_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("DOCLOAD_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// Connect opens a direct connection for assertions. It is closed on cleanup.
func Connect(t *testing.T, connString string) *pgx.Conn {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { conn.Close(context.Background()) })
	return conn
}

// CreateDocumentTable creates a uniquely named documents table with the
// default column layout and drops it on cleanup.
func CreateDocumentTable(t *testing.T, connString string) docload.TableConfig {
	t.Helper()

	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		t.Fatalf("random suffix: %v", err)
	}

	table := docload.DefaultTableConfig()
	table.Name = "documents_" + hex.EncodeToString(suffix)
	name := pgx.Identifier{table.Name}.Sanitize()

	conn := Connect(t, connString)
	ctx := context.Background()
	ddl := fmt.Sprintf(`CREATE TABLE %s (doc_id uuid PRIMARY KEY, object jsonb NOT NULL)`, name)
	if _, err := conn.Exec(ctx, ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() {
		c, err := pgx.Connect(context.Background(), connString)
		if err != nil {
			return
		}
		defer c.Close(context.Background())
		_, _ = c.Exec(context.Background(), "DROP TABLE IF EXISTS "+name)
	})
	return table
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, conn *pgx.Conn, table docload.TableConfig) int {
	t.Helper()

	var n int
	sql := "SELECT count(*) FROM " + pgx.Identifier{table.Name}.Sanitize()
	if err := conn.QueryRow(context.Background(), sql).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

// NewTestLoader creates a LoadService wired with the real connector factory.
func NewTestLoader(t *testing.T, progress docload.ProgressReporter) *services.LoadService {
	t.Helper()
	return services.NewLoadService(db.NewConnector, logging.NewNullLogger(), progress)
}

// NewTestFetcher creates a FetchService wired with the real connector factory.
func NewTestFetcher(t *testing.T) *services.FetchService {
	t.Helper()
	return services.NewFetchService(db.NewConnector, logging.NewNullLogger())
}

// WriteFeed writes lines to a temporary feed file and returns its path.
func WriteFeed(t *testing.T, lines ...string) string {
	t.Helper()

	path := t.TempDir() + "/feed.ndjson"
	var content []byte
	for _, l := range lines {
		content = append(content, l...)
		content = append(content, '\n')
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

// RecordingProgress collects reported counts.
type RecordingProgress struct {
	Counts []int
}

func (r *RecordingProgress) Done(count int) {
	r.Counts = append(r.Counts, count)
}
