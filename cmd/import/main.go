package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/boq-builder/internal/catalog"
	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/db"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/migrate"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

// catalogFile accepts either a bare list of items or {"items": [...]}.
type catalogFile struct {
	Items []map[string]any `json:"items" yaml:"items"`
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "import"})

	_ = godotenv.Load()

	file := flag.String("file", "", "catalog file to import (.json, .yaml or .yml)")
	stopOnError := flag.Bool("stop-on-error", false, "abort at the first invalid record (overrides BOQ_IMPORT_STOP_ON_ERROR)")
	dryRun := flag.Bool("dry-run", false, "parse the file and report the record count without writing")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	stop := cfg.Import.StopOnError
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "stop-on-error" {
			stop = *stopOnError
		}
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":           cfg.App.Env,
		"file":          *file,
		"stop_on_error": stop,
	})

	records, err := loadRecords(*file)
	requireResource(ctx, logg, "catalog file", err)
	ctx = logg.WithField(ctx, "records", len(records))

	if *dryRun {
		logg.Info(ctx, "dry run, nothing imported")
		return
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg, nil)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "migrations", migrate.MaybeRun(ctx, cfg, logg, dbClient))

	rules := validation.NewContextFromSettings(cfg.Validation)
	svc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient, rules, nil, logg)
	requireResource(ctx, logg, "catalog service", err)

	report, err := svc.ImportItems(ctx, records, stop)
	if report != nil {
		fmt.Printf("created: %d updated: %d failed: %d\n", report.Created, report.Updated, len(report.Failures))
		for _, f := range report.Failures {
			fmt.Printf("  #%d %s: %s\n", f.Index, f.ID, strings.Join(f.Messages, "; "))
		}
	}
	if err != nil {
		errs := multierr.Errors(err)
		logg.Error(logg.WithField(ctx, "failures", len(errs)), "catalog import had failures", err)
		os.Exit(2)
	}
}

func loadRecords(path string) ([]validation.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		items, err = decodeJSON(raw)
	case ".yaml", ".yml":
		items, err = decodeYAML(raw)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]validation.Record, 0, len(items))
	for _, item := range items {
		records = append(records, validation.Record(item))
	}
	return records, nil
}

func decodeJSON(raw []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if trimmed[0] == '[' {
		var items []map[string]any
		if err := dec.Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var doc catalogFile
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func decodeYAML(raw []byte) ([]map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, errors.New("empty file")
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var items []map[string]any
		if err := node.Content[0].Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var doc catalogFile
	if err := node.Content[0].Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
