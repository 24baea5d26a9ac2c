package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Kind identifies the declared shape of a procedure parameter.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindInteger
	KindStringList
	KindEnum
)

// Parameter describes one named input of a procedure. Required parameters
// carry no default; enum parameters carry a closed value set.
type Parameter struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
	Default     any
	Enum        []string
}

// Procedure describes one callable toolkit operation: a stable name, a
// human-readable description, and an ordered parameter set.
type Procedure struct {
	Name        string
	Description string
	Params      []Parameter
}

// moduleTypes is the closed set of module template types.
var moduleTypes = []string{"annotator", "reporter", "converter", "mapper", "postaggregator"}

// procedures is the process-wide capability catalogue. Built once,
// never mutated; every discovery request enumerates the same set.
var procedures = []Procedure{
	// System
	{
		Name:        "oakvar_version",
		Description: "Get the installed OakVar version",
	},
	{
		Name:        "oakvar_system_check",
		Description: "Perform OakVar system checkup to verify installation",
	},
	{
		Name:        "oakvar_system_setup",
		Description: "Setup or configure OakVar system",
		Params: []Parameter{
			{Name: "clean", Description: "Perform clean installation", Kind: KindBoolean, Default: false},
			{Name: "refresh_db", Description: "Refresh store server data", Kind: KindBoolean, Default: false},
		},
	},
	{
		Name:        "oakvar_modules_dir",
		Description: "Get or set the OakVar modules directory",
		Params: []Parameter{
			{Name: "directory", Description: "New modules directory path (optional, omit to get current)", Kind: KindString},
		},
	},
	// Modules
	{
		Name:        "oakvar_module_list",
		Description: "List installed and/or available OakVar modules",
		Params: []Parameter{
			{Name: "module_names", Description: "Module name patterns to filter (regex supported)", Kind: KindStringList, Default: []any{".*"}},
			{Name: "module_types", Description: "Filter by module types (annotator, reporter, etc.)", Kind: KindStringList},
			{Name: "search_store", Description: "Include modules from OakVar store (not just locally installed)", Kind: KindBoolean, Default: false},
			{Name: "tags", Description: "Filter by tags (regex supported)", Kind: KindStringList},
		},
	},
	{
		Name:        "oakvar_module_info",
		Description: "Get detailed information about a specific module",
		Params: []Parameter{
			{Name: "module_name", Description: "Name of the module to get info for", Kind: KindString, Required: true},
			{Name: "local", Description: "Only check local installation (skip store lookup)", Kind: KindBoolean, Default: false},
		},
	},
	{
		Name:        "oakvar_module_install",
		Description: "Install OakVar modules from the store",
		Params: []Parameter{
			{Name: "module_names", Description: "List of module names to install", Kind: KindStringList, Required: true},
			{Name: "overwrite", Description: "Overwrite existing modules", Kind: KindBoolean, Default: false},
			{Name: "skip_dependencies", Description: "Skip installing module dependencies", Kind: KindBoolean, Default: false},
		},
	},
	{
		Name:        "oakvar_module_uninstall",
		Description: "Uninstall OakVar modules",
		Params: []Parameter{
			{Name: "module_names", Description: "List of module names to uninstall", Kind: KindStringList, Required: true},
		},
	},
	{
		Name:        "oakvar_module_update",
		Description: "Update installed OakVar modules to latest versions",
		Params: []Parameter{
			{Name: "module_name_patterns", Description: "Module name patterns to update (regex supported)", Kind: KindStringList, Default: []any{}},
		},
	},
	// Pipeline
	{
		Name:        "oakvar_run",
		Description: "Run the OakVar annotation pipeline on input files",
		Params: []Parameter{
			{Name: "inputs", Description: "Paths to input files (VCF, etc.)", Kind: KindStringList, Required: true},
			{Name: "annotators", Description: "List of annotator modules to run", Kind: KindStringList},
			{Name: "report_types", Description: "Report types to generate (e.g., 'vcf', 'excel', 'csv')", Kind: KindStringList},
			{Name: "output_dir", Description: "Output directory for results", Kind: KindString},
			{Name: "genome", Description: "Genome assembly (e.g., 'hg38', 'hg19')", Kind: KindString},
			{Name: "run_name", Description: "Name for this analysis run", Kind: KindString},
			{Name: "mp", Description: "Number of cores to use for parallel processing", Kind: KindInteger},
		},
	},
	{
		Name:        "oakvar_report",
		Description: "Generate reports from an existing OakVar result database",
		Params: []Parameter{
			{Name: "dbpath", Description: "Path to OakVar result SQLite database", Kind: KindString, Required: true},
			{Name: "report_types", Description: "Report types to generate", Kind: KindStringList},
			{Name: "output_dir", Description: "Output directory for reports", Kind: KindString},
			{Name: "filterpath", Description: "Path to filter configuration file", Kind: KindString},
			{Name: "filtersql", Description: "SQL filter expression", Kind: KindString},
			{Name: "cols", Description: "Specific columns to include in report", Kind: KindStringList},
		},
	},
	// Data
	{
		Name:        "oakvar_sqliteinfo",
		Description: "Get information about an OakVar result SQLite database",
		Params: []Parameter{
			{Name: "dbpath", Description: "Path to the SQLite database file", Kind: KindString, Required: true},
		},
	},
	{
		Name:        "oakvar_filtersqlite",
		Description: "Create a filtered copy of an OakVar result database",
		Params: []Parameter{
			{Name: "dbpaths", Description: "Paths to SQLite database files to filter", Kind: KindStringList, Required: true},
			{Name: "filterpath", Description: "Path to filter configuration file", Kind: KindString},
			{Name: "filtersql", Description: "SQL filter expression", Kind: KindString},
			{Name: "includesample", Description: "Samples to include", Kind: KindStringList},
			{Name: "excludesample", Description: "Samples to exclude", Kind: KindStringList},
			{Name: "suffix", Description: "Suffix for filtered output file", Kind: KindString, Default: "filtered"},
			{Name: "out", Description: "Output directory", Kind: KindString, Default: "."},
		},
	},
	{
		Name:        "oakvar_query",
		Description: "Execute a SQL query on an OakVar result database",
		Params: []Parameter{
			{Name: "dbpath", Description: "Path to the SQLite database file", Kind: KindString, Required: true},
			{Name: "sql", Description: "SQL query to execute (SELECT only for safety)", Kind: KindString, Required: true},
			{Name: "limit", Description: "Maximum number of rows to return", Kind: KindInteger, Default: 100},
		},
	},
	// Development
	{
		Name:        "oakvar_new_module",
		Description: "Create a new OakVar module template",
		Params: []Parameter{
			{Name: "module_name", Description: "Name for the new module", Kind: KindString, Required: true},
			{Name: "module_type", Description: "Type of module (annotator, reporter, converter, etc.)", Kind: KindEnum, Required: true, Enum: moduleTypes},
		},
	},
	{
		Name:        "oakvar_new_exampleinput",
		Description: "Create an example input file for testing",
		Params: []Parameter{
			{Name: "directory", Description: "Directory to create the example input file in", Kind: KindString, Default: "."},
		},
	},
	{
		Name:        "oakvar_module_pack",
		Description: "Pack a module for distribution/registration",
		Params: []Parameter{
			{Name: "module_name", Description: "Name of the module to pack", Kind: KindString, Required: true},
			{Name: "outdir", Description: "Output directory for the packed module", Kind: KindString},
			{Name: "code_only", Description: "Pack only code (not data)", Kind: KindBoolean, Default: false},
		},
	},
	// Store
	{
		Name:        "oakvar_store_fetch",
		Description: "Fetch/refresh the OakVar store cache",
		Params: []Parameter{
			{Name: "refresh_db", Description: "Fetch a clean copy of the store database", Kind: KindBoolean, Default: false},
			{Name: "clean", Description: "Install store cache from scratch", Kind: KindBoolean, Default: false},
		},
	},
	{
		Name:        "oakvar_store_register",
		Description: "Register a module in the OakVar store",
		Params: []Parameter{
			{Name: "module_name", Description: "Name of the module to register", Kind: KindString, Required: true},
			{Name: "code_url", Description: "URLs of code zip files", Kind: KindStringList, Default: []any{}},
			{Name: "data_url", Description: "URLs of data zip files", Kind: KindStringList, Default: []any{}},
		},
	},
}

// Procedures returns the capability catalogue. The returned slice is
// shared and must not be mutated.
func Procedures() []Procedure {
	return procedures
}

// ByName looks up one procedure descriptor.
func ByName(name string) (Procedure, bool) {
	for _, proc := range procedures {
		if proc.Name == name {
			return proc, true
		}
	}
	return Procedure{}, false
}

// Tool renders the descriptor as an MCP tool with an explicit input
// schema built from the parameter set.
func (p Procedure) Tool() *mcp.Tool {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for _, param := range p.Params {
		schema.Properties[param.Name] = param.schema()
		if param.Required {
			schema.Required = append(schema.Required, param.Name)
		}
	}
	return &mcp.Tool{
		Name:        p.Name,
		Description: p.Description,
		InputSchema: schema,
	}
}

// schema renders one parameter. Array-of-string parameters also admit a
// bare string, which the normalizer coerces into a one-element list.
func (p Parameter) schema() *jsonschema.Schema {
	var schema *jsonschema.Schema
	switch p.Kind {
	case KindBoolean:
		schema = &jsonschema.Schema{Type: "boolean", Description: p.Description}
	case KindInteger:
		schema = &jsonschema.Schema{Type: "integer", Description: p.Description}
	case KindStringList:
		schema = &jsonschema.Schema{
			Description: p.Description,
			AnyOf: []*jsonschema.Schema{
				{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				{Type: "string"},
			},
		}
	case KindEnum:
		values := make([]any, len(p.Enum))
		for i, value := range p.Enum {
			values[i] = value
		}
		schema = &jsonschema.Schema{Type: "string", Description: p.Description, Enum: values}
	default:
		schema = &jsonschema.Schema{Type: "string", Description: p.Description}
	}
	if p.Default != nil {
		if raw, err := json.Marshal(p.Default); err == nil {
			schema.Default = json.RawMessage(raw)
		}
	}
	return schema
}

// Normalize applies declared defaults and coerces single strings into
// one-element lists for array-of-string parameters. No deeper validation
// happens here; type mismatches surface from the adapter.
func (p Procedure) Normalize(raw map[string]any) map[string]any {
	normalized := make(map[string]any, len(raw)+len(p.Params))
	for key, value := range raw {
		normalized[key] = value
	}
	for _, param := range p.Params {
		value, present := normalized[param.Name]
		if !present {
			if param.Default != nil {
				normalized[param.Name] = param.Default
			}
			continue
		}
		if param.Kind == KindStringList {
			if single, ok := value.(string); ok {
				normalized[param.Name] = []any{single}
			}
		}
	}
	return normalized
}

// validateCatalogue guards the descriptor invariants: unique names,
// non-empty descriptions, and no defaults on required parameters.
func validateCatalogue() error {
	seen := map[string]bool{}
	for _, proc := range procedures {
		if proc.Name == "" || proc.Description == "" {
			return fmt.Errorf("procedure %q has an empty name or description", proc.Name)
		}
		if seen[proc.Name] {
			return fmt.Errorf("duplicate procedure %q", proc.Name)
		}
		seen[proc.Name] = true
		for _, param := range proc.Params {
			if param.Required && param.Default != nil {
				return fmt.Errorf("%s.%s is required but has a default", proc.Name, param.Name)
			}
			if param.Kind == KindEnum && len(param.Enum) == 0 {
				return fmt.Errorf("%s.%s is an enum with no values", proc.Name, param.Name)
			}
		}
	}
	return nil
}

func init() {
	if err := validateCatalogue(); err != nil {
		panic(err)
	}
}
