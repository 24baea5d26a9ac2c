// Package oakvarfakes provides a configurable fake toolkit library for
// MCP tool tests.
package oakvarfakes

import (
	"context"

	"github.com/Zaroganos/oakvar-mcp/internal/oakvar"
)

// Library is a configurable fake implementing oakvar.Library. Each
// method records its arguments and returns the configured response.
type Library struct {
	VersionResponse string
	VersionErr      error

	SystemCheckResponse bool
	SystemCheckErr      error

	SystemSetupErr  error
	LastSetup       oakvar.SetupOptions
	SystemSetupDone bool

	ModulesDirResponse string
	ModulesDirErr      error
	LastModulesDir     string

	ListModulesResponse any
	ListModulesErr      error
	LastList            oakvar.ListOptions

	ModuleInfoResponse any
	ModuleInfoErr      error
	LastInfoName       string
	LastInfoLocal      bool

	InstallErr   error
	LastInstall  []string
	InstallOpts  oakvar.InstallOptions
	InstallCalls int

	UninstallErr  error
	LastUninstall []string

	UpdateErr   error
	LastUpdate  []string
	UpdateCalls int

	RunResponse any
	RunErr      error
	LastRun     oakvar.RunOptions

	ReportResponse any
	ReportErr      error
	LastReport     oakvar.ReportOptions

	SQLiteInfoResponse any
	SQLiteInfoErr      error
	LastSQLiteInfoPath string

	FilterErr  error
	LastFilter oakvar.FilterOptions

	NewModuleResponse string
	NewModuleErr      error
	LastNewModule     string
	LastNewModuleType string

	NewExampleInputResponse string
	NewExampleInputErr      error
	LastExampleDir          string

	PackResponse any
	PackErr      error
	LastPackName string
	LastPackDir  string
	LastCodeOnly bool

	StoreFetchErr error
	FetchCalls    int

	StoreRegisterErr error
	LastRegister     string
	LastCodeURLs     []string
	LastDataURLs     []string
}

var _ oakvar.Library = (*Library)(nil)

func (f *Library) Version(context.Context) (string, error) {
	return f.VersionResponse, f.VersionErr
}

func (f *Library) SystemCheck(context.Context) (bool, error) {
	return f.SystemCheckResponse, f.SystemCheckErr
}

func (f *Library) SystemSetup(_ context.Context, opts oakvar.SetupOptions) error {
	f.LastSetup = opts
	f.SystemSetupDone = true
	return f.SystemSetupErr
}

func (f *Library) ModulesDir(_ context.Context, dir string) (string, error) {
	f.LastModulesDir = dir
	return f.ModulesDirResponse, f.ModulesDirErr
}

func (f *Library) ListModules(_ context.Context, opts oakvar.ListOptions) (any, error) {
	f.LastList = opts
	return f.ListModulesResponse, f.ListModulesErr
}

func (f *Library) ModuleInfo(_ context.Context, name string, local bool) (any, error) {
	f.LastInfoName = name
	f.LastInfoLocal = local
	return f.ModuleInfoResponse, f.ModuleInfoErr
}

func (f *Library) InstallModules(_ context.Context, names []string, opts oakvar.InstallOptions) error {
	f.LastInstall = names
	f.InstallOpts = opts
	f.InstallCalls++
	return f.InstallErr
}

func (f *Library) UninstallModules(_ context.Context, names []string) error {
	f.LastUninstall = names
	return f.UninstallErr
}

func (f *Library) UpdateModules(_ context.Context, patterns []string) error {
	f.LastUpdate = patterns
	f.UpdateCalls++
	return f.UpdateErr
}

func (f *Library) Run(_ context.Context, opts oakvar.RunOptions) (any, error) {
	f.LastRun = opts
	return f.RunResponse, f.RunErr
}

func (f *Library) Report(_ context.Context, opts oakvar.ReportOptions) (any, error) {
	f.LastReport = opts
	return f.ReportResponse, f.ReportErr
}

func (f *Library) SQLiteInfo(_ context.Context, path string) (any, error) {
	f.LastSQLiteInfoPath = path
	return f.SQLiteInfoResponse, f.SQLiteInfoErr
}

func (f *Library) FilterSQLite(_ context.Context, opts oakvar.FilterOptions) error {
	f.LastFilter = opts
	return f.FilterErr
}

func (f *Library) NewModule(_ context.Context, name, moduleType string) (string, error) {
	f.LastNewModule = name
	f.LastNewModuleType = moduleType
	return f.NewModuleResponse, f.NewModuleErr
}

func (f *Library) NewExampleInput(_ context.Context, dir string) (string, error) {
	f.LastExampleDir = dir
	return f.NewExampleInputResponse, f.NewExampleInputErr
}

func (f *Library) PackModule(_ context.Context, name, outdir string, codeOnly bool) (any, error) {
	f.LastPackName = name
	f.LastPackDir = outdir
	f.LastCodeOnly = codeOnly
	return f.PackResponse, f.PackErr
}

func (f *Library) StoreFetch(_ context.Context, refreshDB, clean bool) error {
	f.FetchCalls++
	return f.StoreFetchErr
}

func (f *Library) StoreRegister(_ context.Context, name string, codeURLs, dataURLs []string) error {
	f.LastRegister = name
	f.LastCodeURLs = codeURLs
	f.LastDataURLs = dataURLs
	return f.StoreRegisterErr
}
