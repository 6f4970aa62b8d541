//go:build integration

package aggregates_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/blueprints-backend/internal/data/aggregates"
	dbpkg "github.com/yungbote/blueprints-backend/internal/data/db"
	"github.com/yungbote/blueprints-backend/internal/data/repos"
	repotest "github.com/yungbote/blueprints-backend/internal/data/repos/testutil"
	types "github.com/yungbote/blueprints-backend/internal/domain"
	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
)

// setupPostgres starts a Postgres container and returns a migrated gorm handle.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "blueprints",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgC.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate Postgres container: %v", err)
		}
	})

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := dbpkg.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "postgres",
		Password: "postgres",
		Name:     "blueprints",
	}
	db, err := dbpkg.Open(postgres.Open(cfg.PostgresDSN()), nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := dbpkg.AutoMigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPostgresAggregate(t *testing.T, db *gorm.DB) domainagg.BlueprintAggregate {
	t.Helper()
	log := repotest.Logger(t)
	return aggregates.NewBlueprintAggregate(aggregates.BlueprintAggregateDeps{
		Base:       aggregates.BaseDeps{DB: db, Log: log},
		Blueprints: repos.NewBlueprintRepo(db, log),
		Points:     repos.NewBlueprintPointRepo(db, log),
	})
}

func TestPostgresConcurrentCreateSameKey(t *testing.T) {
	db := setupPostgres(t)
	agg := newPostgresAggregate(t, db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const writers = 16
	results := make([]error, writers)
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			_, err := agg.Save(ctx, domainagg.SaveBlueprintInput{
				Author: "race",
				Name:   "same",
				Points: []types.Point{{X: i, Y: i}},
			})
			results[i] = err
			return nil
		})
	}
	_ = g.Wait()

	ok, conflicts := 0, 0
	for i, err := range results {
		switch {
		case err == nil:
			ok++
		case domainagg.IsCode(err, domainagg.CodeConflict):
			conflicts++
		default:
			t.Fatalf("writer %d: unexpected error %v", i, err)
		}
	}
	if ok != 1 || conflicts != writers-1 {
		t.Fatalf("expected exactly one winner, got ok=%d conflicts=%d", ok, conflicts)
	}
	if n := repotest.CountRows(t, ctx, db, &types.BlueprintPoint{}); n != 1 {
		t.Fatalf("losers must not leave points behind, got %d rows", n)
	}
}

func TestPostgresConcurrentAppendsKeepEveryPoint(t *testing.T) {
	db := setupPostgres(t)
	agg := newPostgresAggregate(t, db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := agg.Save(ctx, domainagg.SaveBlueprintInput{Author: "race", Name: "line", Points: []types.Point{{X: -1, Y: -1}}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	const appends = 32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < appends; i++ {
		i := i
		g.Go(func() error {
			if _, err := agg.AppendPoint(gctx, domainagg.AppendPointInput{Author: "race", Name: "line", X: i, Y: i}); err != nil {
				return fmt.Errorf("append %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("%v", err)
	}

	got, err := agg.FindByAuthorAndName(ctx, "race", "line")
	if err != nil {
		t.Fatalf("FindByAuthorAndName: %v", err)
	}
	if len(got.Points) != appends+1 {
		t.Fatalf("expected %d points, got %d", appends+1, len(got.Points))
	}
	if got.Points[0].X != -1 {
		t.Fatalf("initial point must stay first, got %+v", got.Points[0])
	}
	seen := map[int]bool{}
	for i, p := range got.Points {
		if p.Ordinal != i {
			t.Fatalf("ordinal gap at %d: %d", i, p.Ordinal)
		}
		if seen[p.X] {
			t.Fatalf("point %d present twice", p.X)
		}
		seen[p.X] = true
	}
}
