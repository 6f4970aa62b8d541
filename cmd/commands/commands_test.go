package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/blueprints-backend/internal/data/aggregates"
	"github.com/yungbote/blueprints-backend/internal/data/repos"
	repotest "github.com/yungbote/blueprints-backend/internal/data/repos/testutil"
	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/services"
)

func newService(t *testing.T) services.BlueprintService {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	agg := aggregates.NewBlueprintAggregate(aggregates.BlueprintAggregateDeps{
		Base:       aggregates.BaseDeps{DB: db, Log: log},
		Blueprints: repos.NewBlueprintRepo(db, log),
		Points:     repos.NewBlueprintPointRepo(db, log),
	})
	return services.NewBlueprintService(log, agg, nil, nil)
}

const seedYAML = `
blueprints:
  - author: acme
    name: tower
    points:
      - {x: 0, y: 0}
      - {x: 10, y: 0}
      - {x: 10, y: 10}
  - author: acme
    name: bridge
    points: []
  - author: globex
    name: tower
`

func TestReadSeedFile(t *testing.T) {
	f, err := ReadSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, f.Blueprints, 3)
	assert.Equal(t, "acme", f.Blueprints[0].Author)
	assert.Equal(t, []types.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, f.Blueprints[0].Points)
	assert.Empty(t, f.Blueprints[2].Points)
}

func TestReadSeedFileRejectsUnknownFields(t *testing.T) {
	_, err := ReadSeedFile(strings.NewReader("blueprints:\n  - author: a\n    title: b\n"))
	assert.Error(t, err)
}

func TestReadSeedFileEmpty(t *testing.T) {
	f, err := ReadSeedFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Blueprints)
}

func TestSeedCreatesAndSkipsDuplicates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.AddNewBlueprint(ctx, "globex", "tower", nil)
	require.NoError(t, err)

	f, err := ReadSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)
	// Same key twice in one run: exactly one wins.
	entries := append(f.Blueprints, SeedBlueprint{Author: "acme", Name: "tower"})

	report, err := Seed(ctx, svc, entries, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme:bridge", "acme:tower"}, report.Created)
	assert.Equal(t, []string{"acme:tower", "globex:tower"}, report.Duplicates)

	all, err := svc.GetAllBlueprints(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSeedStopsOnInvalidEntry(t *testing.T) {
	svc := newService(t)
	_, err := Seed(context.Background(), svc, []SeedBlueprint{{Author: "", Name: "x"}}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidBlueprint)
}

func TestRootHelpListsCommands(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	for _, name := range []string{"serve", "migrate", "seed", "events"} {
		assert.Contains(t, out, name)
	}
}

func TestMigrateAndSeedCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "bp.db"))
	t.Setenv("METRICS_ENABLED", "false")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "migrated sqlite schema")

	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	buf.Reset()
	rootCmd.SetArgs([]string{"seed", "--file", path, "--concurrency", "2"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "created 3 blueprint(s), skipped 0 duplicate(s)")

	buf.Reset()
	rootCmd.SetArgs([]string{"seed", "--file", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "skipped acme:tower: already exists")
	assert.Contains(t, buf.String(), "created 0 blueprint(s), skipped 3 duplicate(s)")
}
