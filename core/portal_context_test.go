package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
	configfile "github.com/portalkit/portalkit/internal/providers/config/file"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

func TestNewPortalContext(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	repoDir := filepath.Join(tempDir, "dev-repo")
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, repoDir, repoDir)

	portalContext, err := NewPortalContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{Name: "dev"},
	)
	if err != nil {
		t.Fatalf("NewPortalContext returned error: %v", err)
	}

	if _, ok := portalContext.Contexts.(*configfile.FileContextService); !ok {
		t.Fatalf("expected FileContextService, got %T", portalContext.Contexts)
	}
	if portalContext.Context.Name != "dev" {
		t.Fatalf("expected dev context, got %q", portalContext.Context.Name)
	}
	if portalContext.WorkingCopy == nil || portalContext.Backend == nil {
		t.Fatalf("expected working copy and backend, got %#v", portalContext)
	}
}

func TestNewPortalContextUsesContextCatalogPathAndSelection(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	devRepo := filepath.Join(tempDir, "dev-repo")
	prodRepo := filepath.Join(tempDir, "prod-repo")
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	writeContextCatalog(t, contextCatalogPath, devRepo, prodRepo)

	portalContext, err := NewPortalContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{Name: "prod"},
	)
	if err != nil {
		t.Fatalf("NewPortalContext returned error: %v", err)
	}

	data := resource.EncodeValue(resource.KindText, "{}")
	err = portalContext.WorkingCopy.WriteResources(context.Background(), []repository.FileUpdate{
		{Path: "templates/en/translation.json", Data: &data},
	}, true)
	if err != nil {
		t.Fatalf("WriteResources returned error: %v", err)
	}

	prodPath := filepath.Join(prodRepo, "templates", "en", "translation.json")
	if _, err := os.Stat(prodPath); err != nil {
		t.Fatalf("expected resource in selected context repository %q: %v", prodPath, err)
	}
	devPath := filepath.Join(devRepo, "templates", "en", "translation.json")
	if _, err := os.Stat(devPath); err == nil {
		t.Fatalf("resource should not be written to non-selected repository %q", devPath)
	}
}

func TestNewPortalContextFailsFastWhenCurrentContextMissing(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	contextCatalogPath := filepath.Join(tempDir, "contexts.yaml")
	if err := os.WriteFile(contextCatalogPath, []byte("contexts: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	_, err := NewPortalContext(
		context.Background(),
		BootstrapConfig{ContextCatalogPath: contextCatalogPath},
		config.ContextSelection{},
	)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func writeContextCatalog(t *testing.T, path string, devRepo string, prodRepo string) {
	t.Helper()

	contextCatalog := []byte(`
contexts:
  - name: dev
    backend:
      endpoint: https://portal.example.com
      app-id: dev-app
      auth:
        token: dev-token
    repository:
      filesystem:
        base-dir: ` + devRepo + `
  - name: prod
    backend:
      endpoint: https://portal.example.com
      app-id: prod-app
      auth:
        token: prod-token
    repository:
      filesystem:
        base-dir: ` + prodRepo + `
current-ctx: dev
`)
	if err := os.WriteFile(path, contextCatalog, 0o600); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
}
