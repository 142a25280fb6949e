package repository_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allTenantsCallers are the only files allowed to read across clinics
var allTenantsCallers = []string{
	"internal/services/platform_service.go",
}

// TestQueryAllTenantsCallSites lists every production call of
// QueryAllTenants so that a new cross-clinic read fails review here first.
func TestQueryAllTenantsCallSites(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	found := map[string]int{}
	fset := token.NewFileSet()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, "internal/repository/") {
			return nil
		}

		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if sel, ok := call.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "QueryAllTenants" {
				found[rel]++
			}
			return true
		})
		return nil
	})
	require.NoError(t, err)

	callers := make([]string, 0, len(found))
	for file := range found {
		callers = append(callers, file)
	}
	sort.Strings(callers)

	assert.ElementsMatch(t, allTenantsCallers, callers, "QueryAllTenants called outside the allow-list: %v", found)
}
