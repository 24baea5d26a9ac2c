package oakvar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is the ov executable resolved from PATH when no explicit
// path is configured.
const DefaultBinary = "ov"

// autoConfirm is forced on every destructive module operation because an
// MCP session has no interactive confirmation channel.
const autoConfirm = "--yes"

// CLI implements Library by invoking the ov command line of a local
// OakVar installation.
type CLI struct {
	bin string
}

// NewCLI returns a CLI-backed Library. An empty bin falls back to
// DefaultBinary.
func NewCLI(bin string) *CLI {
	if strings.TrimSpace(bin) == "" {
		bin = DefaultBinary
	}
	return &CLI{bin: bin}
}

// Probe verifies the OakVar installation is reachable and responds to a
// version query. Called once at startup so the server fails fast instead
// of accepting requests it cannot serve.
func (c *CLI) Probe(ctx context.Context) error {
	if _, err := exec.LookPath(c.bin); err != nil {
		return fmt.Errorf("oakvar is not installed or %q is not on PATH: %w", c.bin, err)
	}
	if _, err := c.run(ctx, "version"); err != nil {
		return fmt.Errorf("oakvar version probe failed: %w", err)
	}
	return nil
}

// run executes one ov subcommand and returns its trimmed stdout.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return "", fmt.Errorf("ov %s: %s: %w", args[0], detail, err)
		}
		return "", fmt.Errorf("ov %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// decode translates ov stdout into serializable data: JSON output passes
// through structurally, anything else keeps its string form.
func decode(out string) any {
	if out == "" {
		return nil
	}
	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var value any
		if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
			return value
		}
	}
	return out
}

func (c *CLI) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(out, "oakvar "), nil
}

// SystemCheck reports whether the installation checkup passed. A failing
// checkup is a false result, not an error; only an unrunnable checkup is
// an error.
func (c *CLI) SystemCheck(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "system", "check")
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

func (c *CLI) SystemSetup(ctx context.Context, opts SetupOptions) error {
	args := []string{"system", "setup"}
	if opts.Clean {
		args = append(args, "--clean")
	}
	if opts.RefreshDB {
		args = append(args, "--refresh-db")
	}
	_, err := c.run(ctx, args...)
	return err
}

// ModulesDir gets the modules directory, or sets it when directory is
// non-empty.
func (c *CLI) ModulesDir(ctx context.Context, directory string) (string, error) {
	args := []string{"config", "md"}
	if strings.TrimSpace(directory) != "" {
		args = append(args, directory)
	}
	return c.run(ctx, args...)
}

func (c *CLI) ListModules(ctx context.Context, opts ListOptions) (any, error) {
	args := []string{"module", "ls", "--to", "json"}
	args = append(args, opts.Names...)
	for _, moduleType := range opts.Types {
		args = append(args, "-t", moduleType)
	}
	if opts.SearchStore {
		args = append(args, "-a")
	}
	for _, tag := range opts.Tags {
		args = append(args, "--tags", tag)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return decode(out), nil
}

func (c *CLI) ModuleInfo(ctx context.Context, name string, local bool) (any, error) {
	args := []string{"module", "info", name, "--to", "json"}
	if local {
		args = append(args, "-l")
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	if out == "" || out == "null" {
		return nil, ErrModuleNotFound
	}
	return decode(out), nil
}

func (c *CLI) InstallModules(ctx context.Context, names []string, opts InstallOptions) error {
	args := []string{"module", "install"}
	args = append(args, names...)
	if opts.Overwrite {
		args = append(args, "--overwrite")
	}
	if opts.SkipDependencies {
		args = append(args, "--skip-dependencies")
	}
	args = append(args, autoConfirm)
	_, err := c.run(ctx, args...)
	return err
}

func (c *CLI) UninstallModules(ctx context.Context, names []string) error {
	args := []string{"module", "uninstall"}
	args = append(args, names...)
	args = append(args, autoConfirm)
	_, err := c.run(ctx, args...)
	return err
}

func (c *CLI) UpdateModules(ctx context.Context, patterns []string) error {
	args := []string{"module", "update"}
	args = append(args, patterns...)
	args = append(args, autoConfirm)
	_, err := c.run(ctx, args...)
	return err
}

func (c *CLI) Run(ctx context.Context, opts RunOptions) (any, error) {
	args := []string{"run"}
	args = append(args, opts.Inputs...)
	if len(opts.Annotators) > 0 {
		args = append(args, "-a")
		args = append(args, opts.Annotators...)
	}
	if len(opts.ReportTypes) > 0 {
		args = append(args, "-t")
		args = append(args, opts.ReportTypes...)
	}
	if opts.OutputDir != "" {
		args = append(args, "-d", opts.OutputDir)
	}
	if opts.Genome != "" {
		args = append(args, "-l", opts.Genome)
	}
	if opts.RunName != "" {
		args = append(args, "-n", opts.RunName)
	}
	if opts.Cores > 0 {
		args = append(args, "--mp", strconv.Itoa(opts.Cores))
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return decode(out), nil
}

func (c *CLI) Report(ctx context.Context, opts ReportOptions) (any, error) {
	args := []string{"report", opts.DBPath}
	if len(opts.ReportTypes) > 0 {
		args = append(args, "-t")
		args = append(args, opts.ReportTypes...)
	}
	if opts.OutputDir != "" {
		args = append(args, "-d", opts.OutputDir)
	}
	if opts.FilterPath != "" {
		args = append(args, "-f", opts.FilterPath)
	}
	if opts.FilterSQL != "" {
		args = append(args, "--filtersql", opts.FilterSQL)
	}
	if len(opts.Columns) > 0 {
		args = append(args, "--cols")
		args = append(args, opts.Columns...)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return decode(out), nil
}

func (c *CLI) SQLiteInfo(ctx context.Context, dbPath string) (any, error) {
	out, err := c.run(ctx, "util", "sqliteinfo", dbPath, "--to", "json")
	if err != nil {
		return nil, err
	}
	return decode(out), nil
}

func (c *CLI) FilterSQLite(ctx context.Context, opts FilterOptions) error {
	args := []string{"util", "filtersqlite"}
	args = append(args, opts.DBPaths...)
	if opts.FilterPath != "" {
		args = append(args, "-f", opts.FilterPath)
	}
	if opts.FilterSQL != "" {
		args = append(args, "--filtersql", opts.FilterSQL)
	}
	if len(opts.IncludeSamples) > 0 {
		args = append(args, "--includesample")
		args = append(args, opts.IncludeSamples...)
	}
	if len(opts.ExcludeSamples) > 0 {
		args = append(args, "--excludesample")
		args = append(args, opts.ExcludeSamples...)
	}
	if opts.Suffix != "" {
		args = append(args, "--suffix", opts.Suffix)
	}
	if opts.OutputDir != "" {
		args = append(args, "-o", opts.OutputDir)
	}
	_, err := c.run(ctx, args...)
	return err
}

func (c *CLI) NewModule(ctx context.Context, name, moduleType string) (string, error) {
	return c.run(ctx, "new", "module", "-n", name, "-t", moduleType)
}

func (c *CLI) NewExampleInput(ctx context.Context, directory string) (string, error) {
	args := []string{"new", "exampleinput"}
	if strings.TrimSpace(directory) != "" {
		args = append(args, "-d", directory)
	}
	return c.run(ctx, args...)
}

func (c *CLI) PackModule(ctx context.Context, name, outDir string, codeOnly bool) (any, error) {
	args := []string{"module", "pack", name}
	if outDir != "" {
		args = append(args, "-d", outDir)
	}
	if codeOnly {
		args = append(args, "--code-only")
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return decode(out), nil
}

func (c *CLI) StoreFetch(ctx context.Context, refreshDB, clean bool) error {
	args := []string{"store", "fetch"}
	if refreshDB {
		args = append(args, "--refresh-db")
	}
	if clean {
		args = append(args, "--clean")
	}
	_, err := c.run(ctx, args...)
	return err
}

func (c *CLI) StoreRegister(ctx context.Context, name string, codeURLs, dataURLs []string) error {
	args := []string{"store", "register", name}
	for _, url := range codeURLs {
		args = append(args, "--code-url", url)
	}
	for _, url := range dataURLs {
		args = append(args, "--data-url", url)
	}
	_, err := c.run(ctx, args...)
	return err
}
