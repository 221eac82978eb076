package providers

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestProvidersDoNotImportSiblingProviderPackages(t *testing.T) {
	t.Parallel()

	const (
		providersPrefix = "github.com/portalkit/portalkit/internal/providers/"
		sharedPrefix    = providersPrefix + "shared/"
	)

	// The git working copy layers commits over the filesystem store.
	allowed := map[string]string{
		"repository/git": providersPrefix + "repository/fsstore",
	}

	fset := token.NewFileSet()
	err := filepath.WalkDir(".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		packageDir := filepath.ToSlash(filepath.Dir(path))
		packageImportPath := providersPrefix + packageDir

		parsedFile, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}

		for _, imported := range parsedFile.Imports {
			importPath := strings.Trim(imported.Path.Value, "\"")
			switch {
			case !strings.HasPrefix(importPath, providersPrefix):
			case strings.HasPrefix(importPath, sharedPrefix):
			case importPath == packageImportPath:
			case allowed[packageDir] == importPath:
			default:
				t.Fatalf("forbidden provider import %q in %s", importPath, filepath.ToSlash(path))
			}
		}

		return nil
	})
	if err != nil {
		t.Fatalf("boundary scan failed: %v", err)
	}
}
