package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-hasone/pkg/entity"
	"github.com/goliatone/go-hasone/pkg/hasone"
	"github.com/goliatone/go-hasone/pkg/layout"
	"github.com/goliatone/go-hasone/pkg/openapi"
	"github.com/goliatone/go-hasone/pkg/orchestrator"
	"github.com/goliatone/go-hasone/pkg/render"
	"github.com/goliatone/go-hasone/pkg/renderers/tui"
	"github.com/goliatone/go-hasone/pkg/store"
	"github.com/goliatone/go-hasone/pkg/store/sqlite"
)

func main() {
	layoutDir := flag.String("layout", "layouts", "directory holding JSON/YAML layout files")
	formID := flag.String("form", "", "layout form id to render")
	schemaPath := flag.String("schema", "", "OpenAPI document to build the form from instead of a layout")
	component := flag.String("component", "", "component schema name used with -schema")
	dbPath := flag.String("db", ":memory:", "sqlite database path")
	renderer := flag.String("renderer", "vanilla", "renderer to use (vanilla, tui)")
	interactive := flag.Bool("interactive", false, "prompt for an action on every composite")
	parentID := flag.Int64("parent-id", 0, "existing parent record id (a new record is created when 0)")
	parentTitle := flag.String("parent-title", "Untitled", "title of the parent record created when -parent-id is 0")
	baseLink := flag.String("base-link", "", "base URL the action links are derived from")
	presets := flag.String("presets", "", "JSON preset file applied to the fields before attaching")
	output := flag.String("output", "", "output file (stdout if empty)")
	verbose := flag.Bool("verbose", false, "log debug traces to stderr")
	flag.Parse()

	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	driver, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	records, err := store.New(driver)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer records.Close()

	form, err := loadForm(ctx, records, *layoutDir, *formID, *schemaPath, *component)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	parent, err := loadParent(ctx, records, form.Type, *parentID, *parentTitle)
	if err != nil {
		log.Fatalf("Failed to load parent record: %v", err)
	}

	options := []orchestrator.Option{
		orchestrator.WithCatalog(records),
		orchestrator.WithLogger(logger),
		orchestrator.WithFieldOptions(hasone.WithBaseLink(*baseLink)),
	}
	if *presets != "" {
		data, err := os.ReadFile(*presets)
		if err != nil {
			log.Fatalf("Failed to read presets: %v", err)
		}
		transformer, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			log.Fatalf("Failed to parse presets: %v", err)
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}
	gen := orchestrator.New(options...)

	result, err := gen.GenerateForm(ctx, orchestrator.FormRequest{
		Form:     form,
		Parent:   parent,
		Renderer: *renderer,
	})
	if err != nil {
		log.Fatalf("Failed to generate form: %v", err)
	}

	if *interactive {
		if err := interact(ctx, gen, records, parent, result.Composites); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
		return
	}

	if *output != "" {
		if err := os.WriteFile(*output, result.Output, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(result.Output))
	}
}

func loadForm(ctx context.Context, records *store.Store, layoutDir, formID, schemaPath, component string) (layout.Form, error) {
	if strings.TrimSpace(schemaPath) != "" {
		return loadSchemaForm(ctx, records, schemaPath, component)
	}

	layouts, err := layout.LoadFS(os.DirFS(layoutDir))
	if err != nil {
		return layout.Form{}, err
	}
	for _, def := range layouts.Types() {
		if err := records.Define(def); err != nil {
			return layout.Form{}, err
		}
	}
	if formID == "" {
		ids := layouts.Forms()
		if len(ids) != 1 {
			return layout.Form{}, fmt.Errorf("-form is required when %s holds %d forms", layoutDir, len(ids))
		}
		formID = ids[0]
	}
	form, ok := layouts.Form(formID)
	if !ok {
		return layout.Form{}, fmt.Errorf("form %q not found in %s", formID, layoutDir)
	}
	if form.Type == "" {
		return layout.Form{}, fmt.Errorf("form %q does not name a record type", formID)
	}
	return form, nil
}

// loadSchemaForm defines the component and every has-one target found in the
// document, then derives the form from the component.
func loadSchemaForm(ctx context.Context, records *store.Store, path, component string) (layout.Form, error) {
	if component == "" {
		return layout.Form{}, fmt.Errorf("-component is required with -schema")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Form{}, err
	}
	schema, err := openapi.LoadSchema(ctx, data, component)
	if err != nil {
		return layout.Form{}, err
	}
	if err := records.Define(schema.TypeDef()); err != nil {
		return layout.Form{}, err
	}
	for _, rel := range schema.HasOne() {
		def := store.TypeDef{Name: rel.Target}
		if target, err := openapi.LoadSchema(ctx, data, rel.Target); err == nil {
			def = target.TypeDef()
		}
		if err := records.Define(def); err != nil {
			return layout.Form{}, err
		}
	}
	return schema.Form(), nil
}

func loadParent(ctx context.Context, records *store.Store, typeName string, id int64, title string) (*store.Record, error) {
	if id > 0 {
		return records.Get(ctx, typeName, id)
	}
	return records.Create(ctx, typeName, title)
}

func interact(ctx context.Context, gen *orchestrator.Orchestrator, records *store.Store, parent *store.Record, composites []*hasone.CompositeField) error {
	r, err := gen.Renderer("tui")
	if err != nil {
		return err
	}
	prompt, ok := r.(*tui.Renderer)
	if !ok {
		return fmt.Errorf("renderer %q does not support prompts", r.Name())
	}

	return promptComposites(ctx, prompt, records, parent, composites)
}

// promptComposites runs one prompt per composite. Composites that offer no
// actions only print their summary.
func promptComposites(ctx context.Context, prompt *tui.Renderer, records *store.Store, parent *store.Record, composites []*hasone.CompositeField) error {
	for _, field := range composites {
		target := parent.RelationTarget(field.Name())
		create := func(ctx context.Context, title string) (entity.Record, error) {
			record, err := records.Create(ctx, target, title)
			if err != nil {
				return nil, err
			}
			return record, nil
		}
		if _, err := prompt.Interact(ctx, field, render.RenderOptions{}, create); err != nil {
			if errors.Is(err, tui.ErrNoActions) {
				continue
			}
			return fmt.Errorf("%s: %w", field.Name(), err)
		}
	}
	return nil
}
