package ent_repo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	ent_repo "github.com/SimpnicServerTeam/scs-blog-server/internal/repository/ent"
)

// newTestDriver opens a private in-memory SQLite database and runs the migration.
func newTestDriver(t *testing.T) *entsql.Driver {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	drv, err := ent_repo.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })

	require.NoError(t, ent_repo.Migrate(context.Background(), drv))
	return drv
}
