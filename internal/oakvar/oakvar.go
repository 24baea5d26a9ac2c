// Package oakvar defines the port to a local OakVar installation.
//
// The rest of the server depends only on the Library interface so that
// dispatch and service tests can run against a substitute implementation.
// The production implementation (CLI) drives the ov command line.
package oakvar

import (
	"context"
	"errors"
)

// ErrModuleNotFound reports that a module lookup returned an explicit
// absence signal, as opposed to a failed toolkit call.
var ErrModuleNotFound = errors.New("module not found")

// SetupOptions configure a system setup invocation.
type SetupOptions struct {
	Clean     bool
	RefreshDB bool
}

// ListOptions filter a module listing.
type ListOptions struct {
	Names       []string
	Types       []string
	SearchStore bool
	Tags        []string
}

// InstallOptions configure a module installation.
type InstallOptions struct {
	Overwrite        bool
	SkipDependencies bool
}

// RunOptions configure an annotation pipeline run.
type RunOptions struct {
	Inputs      []string
	Annotators  []string
	ReportTypes []string
	OutputDir   string
	Genome      string
	RunName     string
	Cores       int
}

// ReportOptions configure report generation from a result database.
type ReportOptions struct {
	DBPath      string
	ReportTypes []string
	OutputDir   string
	FilterPath  string
	FilterSQL   string
	Columns     []string
}

// FilterOptions configure a filtered copy of result databases.
type FilterOptions struct {
	DBPaths        []string
	FilterPath     string
	FilterSQL      string
	IncludeSamples []string
	ExcludeSamples []string
	Suffix         string
	OutputDir      string
}

// Library is the single port to the OakVar toolkit. One method per
// toolkit entry point; implementations must surface toolkit failures as
// errors and module absence as ErrModuleNotFound.
type Library interface {
	Version(ctx context.Context) (string, error)
	SystemCheck(ctx context.Context) (bool, error)
	SystemSetup(ctx context.Context, opts SetupOptions) error
	ModulesDir(ctx context.Context, directory string) (string, error)

	ListModules(ctx context.Context, opts ListOptions) (any, error)
	ModuleInfo(ctx context.Context, name string, local bool) (any, error)
	InstallModules(ctx context.Context, names []string, opts InstallOptions) error
	UninstallModules(ctx context.Context, names []string) error
	UpdateModules(ctx context.Context, patterns []string) error

	Run(ctx context.Context, opts RunOptions) (any, error)
	Report(ctx context.Context, opts ReportOptions) (any, error)

	SQLiteInfo(ctx context.Context, dbPath string) (any, error)
	FilterSQLite(ctx context.Context, opts FilterOptions) error

	NewModule(ctx context.Context, name, moduleType string) (string, error)
	NewExampleInput(ctx context.Context, directory string) (string, error)
	PackModule(ctx context.Context, name, outDir string, codeOnly bool) (any, error)

	StoreFetch(ctx context.Context, refreshDB, clean bool) error
	StoreRegister(ctx context.Context, name string, codeURLs, dataURLs []string) error
}
