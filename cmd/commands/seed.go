package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/blueprints-backend/internal/app"
	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/services"
)

var (
	seedFile        string
	seedConcurrency int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load blueprints from a YAML file",
	Long: `Create every blueprint listed in a YAML file.

File format:
  blueprints:
    - author: acme
      name: tower
      points:
        - {x: 0, y: 0}
        - {x: 10, y: 0}

Blueprints that already exist are reported and skipped. Any other failure
stops the run.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the seed YAML file")
	seedCmd.Flags().IntVarP(&seedConcurrency, "concurrency", "c", 4, "Number of blueprints created in parallel")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

type SeedFile struct {
	Blueprints []SeedBlueprint `yaml:"blueprints"`
}

type SeedBlueprint struct {
	Author string        `yaml:"author"`
	Name   string        `yaml:"name"`
	Points []types.Point `yaml:"points"`
}

type SeedReport struct {
	Created    []string
	Duplicates []string
}

func ReadSeedFile(r io.Reader) (SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return SeedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

// Seed creates each entry with at most concurrency calls in flight.
func Seed(ctx context.Context, svc services.BlueprintService, entries []SeedBlueprint, concurrency int) (SeedReport, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var (
		mu     sync.Mutex
		report SeedReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			_, err := svc.AddNewBlueprint(gctx, e.Author, e.Name, e.Points)
			key := e.Author + ":" + e.Name
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Created = append(report.Created, key)
			case errors.Is(err, types.ErrBlueprintExists):
				report.Duplicates = append(report.Duplicates, key)
			default:
				return fmt.Errorf("seed %s: %w", key, err)
			}
			return nil
		})
	}
	err := g.Wait()
	sort.Strings(report.Created)
	sort.Strings(report.Duplicates)
	return report, err
}

func runSeed(cmd *cobra.Command, _ []string) error {
	fh, err := os.Open(seedFile)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()
	file, err := ReadSeedFile(fh)
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := Seed(cmd.Context(), a.Services.Blueprint, file.Blueprints, seedConcurrency)
	out := cmd.OutOrStdout()
	for _, key := range report.Duplicates {
		fmt.Fprintf(out, "skipped %s: already exists\n", key)
	}
	fmt.Fprintf(out, "created %d blueprint(s), skipped %d duplicate(s)\n", len(report.Created), len(report.Duplicates))
	return err
}
