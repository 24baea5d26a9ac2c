package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zaroganos/oakvar-mcp/internal/oakvar"
	"github.com/Zaroganos/oakvar-mcp/internal/storage/resultdb"
)

// handlerFunc forwards normalized arguments to the toolkit and returns
// the raw, pre-envelope result.
type handlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher maps procedure names onto toolkit calls. The table is built
// once from the catalogue and never mutated; dispatch itself holds no
// per-request state.
type Dispatcher struct {
	lib      oakvar.Library
	handlers map[string]handlerFunc
}

// NewDispatcher builds the closed dispatch table over the given library.
func NewDispatcher(lib oakvar.Library) *Dispatcher {
	d := &Dispatcher{lib: lib}
	d.handlers = map[string]handlerFunc{
		"oakvar_version":          d.version,
		"oakvar_system_check":     d.systemCheck,
		"oakvar_system_setup":     d.systemSetup,
		"oakvar_modules_dir":      d.modulesDir,
		"oakvar_module_list":      d.moduleList,
		"oakvar_module_info":      d.moduleInfo,
		"oakvar_module_install":   d.moduleInstall,
		"oakvar_module_uninstall": d.moduleUninstall,
		"oakvar_module_update":    d.moduleUpdate,
		"oakvar_run":              d.runPipeline,
		"oakvar_report":           d.report,
		"oakvar_sqliteinfo":       d.sqliteInfo,
		"oakvar_filtersqlite":     d.filterSQLite,
		"oakvar_query":            d.query,
		"oakvar_new_module":       d.newModule,
		"oakvar_new_exampleinput": d.newExampleInput,
		"oakvar_module_pack":      d.modulePack,
		"oakvar_store_fetch":      d.storeFetch,
		"oakvar_store_register":   d.storeRegister,
	}
	return d
}

// Dispatch normalizes arguments against the catalogue, forwards to the
// matching handler, and converts every outcome into one envelope. It
// never lets an error escape: unknown names, toolkit failures, and
// rejected queries all come back as failure envelopes.
//
// The serving layer registers only catalogued tools, so the protocol
// rejects an unknown tool name before it reaches here; the unknown-name
// envelope covers callers invoking Dispatch directly.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) Envelope {
	proc, known := ByName(name)
	handler, wired := d.handlers[name]
	if !known || !wired {
		return FailureEnvelope(fmt.Sprintf("Unknown procedure: %s", name))
	}
	if raw == nil {
		raw = map[string]any{}
	}
	data, err := handler(ctx, proc.Normalize(raw))
	if err != nil {
		return FailureEnvelope(err.Error())
	}
	return SuccessEnvelope(data)
}

// --- System ---

func (d *Dispatcher) version(ctx context.Context, _ map[string]any) (any, error) {
	version, err := d.lib.Version(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"version": version}, nil
}

func (d *Dispatcher) systemCheck(ctx context.Context, _ map[string]any) (any, error) {
	passed, err := d.lib.SystemCheck(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"check_passed": passed}, nil
}

func (d *Dispatcher) systemSetup(ctx context.Context, args map[string]any) (any, error) {
	err := d.lib.SystemSetup(ctx, oakvar.SetupOptions{
		Clean:     boolArg(args, "clean"),
		RefreshDB: boolArg(args, "refresh_db"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": "System setup completed"}, nil
}

func (d *Dispatcher) modulesDir(ctx context.Context, args map[string]any) (any, error) {
	dir, err := d.lib.ModulesDir(ctx, stringArg(args, "directory"))
	if err != nil {
		return nil, err
	}
	var value any
	if dir != "" {
		value = dir
	}
	return map[string]any{"modules_dir": value}, nil
}

// --- Modules ---

func (d *Dispatcher) moduleList(ctx context.Context, args map[string]any) (any, error) {
	modules, err := d.lib.ListModules(ctx, oakvar.ListOptions{
		Names:       stringListArg(args, "module_names"),
		Types:       stringListArg(args, "module_types"),
		SearchStore: boolArg(args, "search_store"),
		Tags:        stringListArg(args, "tags"),
	})
	if err != nil {
		return nil, err
	}
	count := 0
	if items, ok := modules.([]any); ok {
		count = len(items)
	}
	return map[string]any{"modules": modules, "count": count}, nil
}

func (d *Dispatcher) moduleInfo(ctx context.Context, args map[string]any) (any, error) {
	name := stringArg(args, "module_name")
	info, err := d.lib.ModuleInfo(ctx, name, boolArg(args, "local"))
	if errors.Is(err, oakvar.ErrModuleNotFound) {
		return nil, fmt.Errorf("Module '%s' not found", name)
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (d *Dispatcher) moduleInstall(ctx context.Context, args map[string]any) (any, error) {
	names := stringListArg(args, "module_names")
	if len(names) > 0 {
		err := d.lib.InstallModules(ctx, names, oakvar.InstallOptions{
			Overwrite:        boolArg(args, "overwrite"),
			SkipDependencies: boolArg(args, "skip_dependencies"),
		})
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{"installed": names}, nil
}

func (d *Dispatcher) moduleUninstall(ctx context.Context, args map[string]any) (any, error) {
	names := stringListArg(args, "module_names")
	if len(names) > 0 {
		if err := d.lib.UninstallModules(ctx, names); err != nil {
			return nil, err
		}
	}
	return map[string]any{"uninstalled": names}, nil
}

func (d *Dispatcher) moduleUpdate(ctx context.Context, args map[string]any) (any, error) {
	if err := d.lib.UpdateModules(ctx, stringListArg(args, "module_name_patterns")); err != nil {
		return nil, err
	}
	return map[string]any{"message": "Update completed"}, nil
}

// --- Pipeline ---

func (d *Dispatcher) runPipeline(ctx context.Context, args map[string]any) (any, error) {
	result, err := d.lib.Run(ctx, oakvar.RunOptions{
		Inputs:      stringListArg(args, "inputs"),
		Annotators:  stringListArg(args, "annotators"),
		ReportTypes: stringListArg(args, "report_types"),
		OutputDir:   stringArg(args, "output_dir"),
		Genome:      stringArg(args, "genome"),
		RunName:     stringArg(args, "run_name"),
		Cores:       intArg(args, "mp", 0),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": "Pipeline completed", "result": result}, nil
}

func (d *Dispatcher) report(ctx context.Context, args map[string]any) (any, error) {
	reports, err := d.lib.Report(ctx, oakvar.ReportOptions{
		DBPath:      stringArg(args, "dbpath"),
		ReportTypes: stringListArg(args, "report_types"),
		OutputDir:   stringArg(args, "output_dir"),
		FilterPath:  stringArg(args, "filterpath"),
		FilterSQL:   stringArg(args, "filtersql"),
		Columns:     stringListArg(args, "cols"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": "Report generation completed", "reports": reports}, nil
}

// --- Data ---

func (d *Dispatcher) sqliteInfo(ctx context.Context, args map[string]any) (any, error) {
	return d.lib.SQLiteInfo(ctx, stringArg(args, "dbpath"))
}

func (d *Dispatcher) filterSQLite(ctx context.Context, args map[string]any) (any, error) {
	err := d.lib.FilterSQLite(ctx, oakvar.FilterOptions{
		DBPaths:        stringListArg(args, "dbpaths"),
		FilterPath:     stringArg(args, "filterpath"),
		FilterSQL:      stringArg(args, "filtersql"),
		IncludeSamples: stringListArg(args, "includesample"),
		ExcludeSamples: stringListArg(args, "excludesample"),
		Suffix:         stringArg(args, "suffix"),
		OutputDir:      stringArg(args, "out"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": "Filtering completed"}, nil
}

// query executes an ad-hoc read statement directly against the result
// database. A rejected statement is a logical failure, never a crash of
// the serving process.
func (d *Dispatcher) query(ctx context.Context, args map[string]any) (any, error) {
	stmt, err := GuardQuery(stringArg(args, "sql"), intArg(args, "limit", DefaultQueryLimit))
	if err != nil {
		return nil, err
	}
	return resultdb.Query(ctx, stringArg(args, "dbpath"), stmt)
}

// --- Development ---

func (d *Dispatcher) newModule(ctx context.Context, args map[string]any) (any, error) {
	name := stringArg(args, "module_name")
	dir, err := d.lib.NewModule(ctx, name, stringArg(args, "module_type"))
	if err != nil {
		return nil, err
	}
	var directory any
	if dir != "" {
		directory = dir
	}
	return map[string]any{
		"message":   fmt.Sprintf("Module '%s' created", name),
		"directory": directory,
	}, nil
}

func (d *Dispatcher) newExampleInput(ctx context.Context, args map[string]any) (any, error) {
	path, err := d.lib.NewExampleInput(ctx, stringArg(args, "directory"))
	if err != nil {
		return nil, err
	}
	var value any
	if path != "" {
		value = path
	}
	return map[string]any{"message": "Example input created", "path": value}, nil
}

func (d *Dispatcher) modulePack(ctx context.Context, args map[string]any) (any, error) {
	name := stringArg(args, "module_name")
	files, err := d.lib.PackModule(ctx, name, stringArg(args, "outdir"), boolArg(args, "code_only"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"message": fmt.Sprintf("Module '%s' packed", name),
		"files":   files,
	}, nil
}

// --- Store ---

func (d *Dispatcher) storeFetch(ctx context.Context, args map[string]any) (any, error) {
	if err := d.lib.StoreFetch(ctx, boolArg(args, "refresh_db"), boolArg(args, "clean")); err != nil {
		return nil, err
	}
	return map[string]any{"message": "Store cache fetched"}, nil
}

func (d *Dispatcher) storeRegister(ctx context.Context, args map[string]any) (any, error) {
	name := stringArg(args, "module_name")
	err := d.lib.StoreRegister(ctx, name,
		stringListArg(args, "code_url"),
		stringListArg(args, "data_url"),
	)
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": fmt.Sprintf("Module '%s' registered", name)}, nil
}

// --- Argument readers ---
//
// Arguments arrive as decoded JSON, so numbers are float64 and lists are
// []any. The readers tolerate the shapes normalization guarantees plus
// the raw Go types substituted by defaults.

func stringArg(args map[string]any, key string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return ""
}

func boolArg(args map[string]any, key string) bool {
	if value, ok := args[key].(bool); ok {
		return value
	}
	return false
}

func intArg(args map[string]any, key string, fallback int) int {
	switch value := args[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return fallback
	}
}

func stringListArg(args map[string]any, key string) []string {
	switch value := args[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{value}
	default:
		return nil
	}
}
