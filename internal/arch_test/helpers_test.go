package arch_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"
)

const (
	modulePath  = "github.com/aaronsalm/kurve"
	internalPfx = modulePath + "/internal/"
)

var excludedPkgs = map[string]bool{
	"arch_test": true,
}

// repoRoot caches the resolved repository root directory.
var (
	repoRootOnce sync.Once
	repoRootPath string
)

// repoRoot returns the absolute path to the repository root by walking up
// from this test file's directory until go.mod is found.
func repoRoot(t *testing.T) string {
	t.Helper()
	repoRootOnce.Do(func() {
		// Start from the directory containing this source file.
		_, thisFile, _, ok := runtime.Caller(0)
		if !ok {
			t.Fatal("runtime.Caller failed")
		}
		dir := filepath.Dir(thisFile)
		for {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				repoRootPath = dir
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				t.Fatal("could not find go.mod in any parent directory")
			}
			dir = parent
		}
	})
	if repoRootPath == "" {
		t.Fatal("repoRoot not resolved")
	}
	return repoRootPath
}

// internalDirPath returns the absolute path to the internal/ directory.
func internalDirPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "internal")
}

// internalPackages returns the list of Go package names under internal/,
// excluding the arch_test package itself.
func internalPackages(t *testing.T) []string {
	t.Helper()

	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}

	var pkgs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if excludedPkgs[name] {
			continue
		}
		// Only include directories that contain at least one .go file.
		goFiles := goFilesIn(t, filepath.Join(dir, name))
		if len(goFiles) > 0 {
			pkgs = append(pkgs, name)
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// goFilesIn returns all non-test .go files in the given directory.
func goFilesIn(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading directory %s: %v", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files
}

// importsOf parses all non-test Go files in pkgDir and returns deduplicated
// internal import names (e.g. "curve", "worker"). Only imports matching the
// module's internal/ prefix are included.
func importsOf(t *testing.T, pkgDir string) []string {
	t.Helper()

	files := goFilesIn(t, pkgDir)
	seen := make(map[string]bool)

	fset := token.NewFileSet()
	for _, f := range files {
		node, err := parser.ParseFile(fset, f, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing imports in %s: %v", f, err)
		}
		for _, imp := range node.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if strings.HasPrefix(path, internalPfx) {
				// Extract the first path component after internal/.
				rel := strings.TrimPrefix(path, internalPfx)
				if idx := strings.Index(rel, "/"); idx != -1 {
					rel = rel[:idx]
				}
				seen[rel] = true
			}
		}
	}

	var result []string
	for pkg := range seen {
		result = append(result, pkg)
	}
	sort.Strings(result)
	return result
}

// --- Sanity tests for the helpers themselves ---

func TestInternalPackages(t *testing.T) {
	t.Parallel()

	pkgs := internalPackages(t)

	for _, p := range pkgs {
		if p == "arch_test" {
			t.Error("internalPackages should exclude arch_test, but it was present")
		}
	}

	// Spot-check that well-known packages are present.
	known := map[string]bool{"curve": false, "table": false, "worker": false, "tui": false}
	for _, p := range pkgs {
		if _, ok := known[p]; ok {
			known[p] = true
		}
	}
	for pkg, found := range known {
		if !found {
			t.Errorf("expected package %q in internalPackages result", pkg)
		}
	}
}

func TestGoFilesIn(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	files := goFilesIn(t, filepath.Join(dir, "worker"))
	if len(files) == 0 {
		t.Fatal("expected at least one .go file in internal/worker")
	}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			t.Errorf("goFilesIn should not include test files, got %s", f)
		}
	}
}

func TestImportsOf(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	imports := importsOf(t, filepath.Join(dir, "table"))

	found := false
	for _, imp := range imports {
		if imp == "curve" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected internal/table to import 'curve', got %v", imports)
	}
}
