package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/yamlutil"
)

// catalogFileMode keeps tokens stored in the catalog private to the user.
const catalogFileMode os.FileMode = 0o600

// loadCatalog reads and validates the catalog at path. A missing file is an
// empty catalog. A catalog readable by others is narrowed to catalogFileMode.
func loadCatalog(path string) (config.ContextCatalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.ContextCatalog{}, nil
	}
	if err != nil {
		return config.ContextCatalog{}, internalError(fmt.Sprintf("failed to read context catalog %s", path), err)
	}

	catalog, err := decodeCatalog(data)
	if err != nil {
		return config.ContextCatalog{}, err
	}
	if err := restrictMode(path); err != nil {
		return config.ContextCatalog{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return config.ContextCatalog{}, err
	}
	return catalog, nil
}

// decodeCatalog rejects unknown keys so typos in the catalog surface early.
// An empty document decodes to an empty catalog.
func decodeCatalog(data []byte) (config.ContextCatalog, error) {
	var catalog config.ContextCatalog

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil && !errors.Is(err, io.EOF) {
		return config.ContextCatalog{}, validationError("invalid context catalog yaml", err)
	}
	return catalog, nil
}

func encodeCatalog(catalog config.ContextCatalog) ([]byte, error) {
	return yamlutil.Marshal(catalog)
}

// storeCatalog replaces the catalog file atomically through a temporary file
// in the same directory.
func storeCatalog(path string, catalog config.ContextCatalog) error {
	encoded, err := encodeCatalog(catalog)
	if err != nil {
		return internalError("failed to encode context catalog", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("failed to create context catalog directory", err)
	}
	temp, err := os.CreateTemp(dir, ".portalkit-contexts-*")
	if err != nil {
		return internalError("failed to create temporary context catalog", err)
	}
	tempPath := temp.Name()

	writeErr := func() error {
		if _, err := temp.Write(encoded); err != nil {
			return err
		}
		if err := temp.Chmod(catalogFileMode); err != nil {
			return err
		}
		return temp.Close()
	}()
	if writeErr != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write context catalog", writeErr)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace context catalog", err)
	}
	return restrictMode(path)
}

func restrictMode(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return internalError("failed to inspect context catalog permissions", err)
	}
	if info.Mode().Perm() == catalogFileMode {
		return nil
	}
	if err := os.Chmod(path, catalogFileMode); err != nil {
		return internalError("failed to restrict context catalog permissions", err)
	}
	return nil
}

// resolveCatalogPath picks the explicit path, then the environment, then the
// default, and expands a leading "~".
func resolveCatalogPath(explicitPath string) (string, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(config.ContextFileEnvVar)
	}
	if path == "" {
		path = config.DefaultContextCatalogPath
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", internalError("failed to resolve user home directory", err)
		}
		path = filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		absolute, err := filepath.Abs(cleanPath)
		if err != nil {
			return "", internalError("failed to resolve context catalog path", err)
		}
		cleanPath = absolute
	}
	return cleanPath, nil
}

func unknownOverrideError(key string) error {
	return validationError(fmt.Sprintf("unknown override key %q", key), nil)
}
