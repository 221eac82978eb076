package graphql

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

var _ repository.ResourceReader = (*Client)(nil)
var _ repository.ResourceWriter = (*Client)(nil)
var _ repository.ConfigReader = (*Client)(nil)
var _ repository.ConfigWriter = (*Client)(nil)

const resourcesQuery = `query portalkitResources($appID: ID!, $paths: [String!]!) {
  node(id: $appID) {
    ... on App {
      resources(paths: $paths) {
        path
        languageTag
        data
        effectiveData
        checksum
      }
    }
  }
}`

const updateAppMutation = `mutation portalkitUpdateApp($input: UpdateAppInput!) {
  updateApp(input: $input) {
    app {
      id
    }
  }
}`

type resourcesData struct {
	Node *struct {
		Resources []repository.RemoteFile `json:"resources"`
	} `json:"node"`
}

type appResourceUpdate struct {
	Path     string  `json:"path"`
	Data     *string `json:"data"`
	Checksum *string `json:"checksum,omitempty"`
}

type updateAppInput struct {
	AppID             string              `json:"appID"`
	Updates           []appResourceUpdate `json:"updates,omitempty"`
	AppConfig         any                 `json:"appConfig,omitempty"`
	AppConfigChecksum *string             `json:"appConfigChecksum,omitempty"`
}

// ReadResources returns one entry per requested path, in request order.
// Paths the backend does not report come back with nil Data.
func (c *Client) ReadResources(ctx context.Context, paths []string) ([]repository.RemoteFile, error) {
	if len(paths) == 0 {
		return []repository.RemoteFile{}, nil
	}
	normalized := make([]string, len(paths))
	for idx, raw := range paths {
		value, err := resource.NormalizePath(raw)
		if err != nil {
			return nil, err
		}
		normalized[idx] = value
	}

	var data resourcesData
	err := c.do(ctx, "portalkitResources", resourcesQuery, map[string]any{
		"appID": c.appNodeID,
		"paths": normalized,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Node == nil {
		return nil, notFoundError("app not found or not accessible")
	}

	byPath := make(map[string]repository.RemoteFile, len(data.Node.Resources))
	for _, file := range data.Node.Resources {
		byPath[file.Path] = file
	}
	files := make([]repository.RemoteFile, len(normalized))
	for idx, resourcePath := range normalized {
		file, ok := byPath[resourcePath]
		if !ok {
			file = repository.RemoteFile{Path: resourcePath}
		}
		files[idx] = file
	}

	c.logger.Debug("read backend resources", zap.Int("count", len(files)))
	return files, nil
}

// WriteResources sends every update in a single updateApp mutation. The
// configuration document cannot be written as a plain resource, so an update
// of it is sent through the appConfig input instead.
func (c *Client) WriteResources(ctx context.Context, updates []repository.FileUpdate, ignoreConflict bool) error {
	if len(updates) == 0 {
		return nil
	}

	input := updateAppInput{AppID: c.appNodeID}
	for _, update := range updates {
		resourcePath, err := resource.NormalizePath(update.Path)
		if err != nil {
			return err
		}

		var checksum *string
		if !ignoreConflict && update.Checksum != "" {
			value := update.Checksum
			checksum = &value
		}

		if resourcePath == repository.ConfigPath {
			if update.Data == nil {
				return validationError(repository.ConfigPath+" cannot be deleted", nil)
			}
			raw, err := base64.StdEncoding.DecodeString(*update.Data)
			if err != nil {
				return validationError(repository.ConfigPath+" data is not valid base64", err)
			}
			document, err := yamlDocumentToJSONValue(raw)
			if err != nil {
				return err
			}
			input.AppConfig = document
			input.AppConfigChecksum = checksum
			continue
		}

		input.Updates = append(input.Updates, appResourceUpdate{
			Path:     resourcePath,
			Data:     update.Data,
			Checksum: checksum,
		})
	}

	if err := c.do(ctx, "portalkitUpdateApp", updateAppMutation, map[string]any{"input": input}, nil); err != nil {
		return err
	}
	c.logger.Debug("wrote backend resources", zap.Int("count", len(updates)), zap.Bool("ignoreConflict", ignoreConflict))
	return nil
}

func (c *Client) ReadConfig(ctx context.Context) (repository.ConfigDocument, error) {
	files, err := c.ReadResources(ctx, []string{repository.ConfigPath})
	if err != nil {
		return repository.ConfigDocument{}, err
	}
	if files[0].Data == nil {
		return repository.ConfigDocument{}, notFoundError(repository.ConfigPath + " not found")
	}
	data, err := base64.StdEncoding.DecodeString(*files[0].Data)
	if err != nil {
		return repository.ConfigDocument{}, transportError("backend returned invalid base64 for "+repository.ConfigPath, err)
	}
	return repository.ConfigDocument{Data: string(data), Checksum: files[0].Checksum}, nil
}

func (c *Client) WriteConfig(ctx context.Context, data string, checksum string) error {
	if len(data) > repository.MaxConfigSize {
		return tooLargeError(fmt.Sprintf("%s is %d bytes, the limit is %d", repository.ConfigPath, len(data), repository.MaxConfigSize))
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	return c.WriteResources(ctx, []repository.FileUpdate{{
		Path:     repository.ConfigPath,
		Data:     &encoded,
		Checksum: checksum,
	}}, checksum == "")
}

// yamlDocumentToJSONValue decodes a single YAML mapping into values that
// encoding/json can marshal.
func yamlDocumentToJSONValue(raw []byte) (map[string]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	var document map[string]any
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, validationError(repository.ConfigPath+" is empty", nil)
		}
		return nil, validationError(repository.ConfigPath+" is not a valid YAML mapping", err)
	}
	normalized, err := jsonCompatible(document)
	if err != nil {
		return nil, err
	}
	return normalized.(map[string]any), nil
}

func jsonCompatible(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			name, ok := key.(string)
			if !ok {
				return nil, validationError(fmt.Sprintf("%s has a non-string key %v", repository.ConfigPath, key), nil)
			}
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[name] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			converted, err := jsonCompatible(item)
			if err != nil {
				return nil, err
			}
			out[idx] = converted
		}
		return out, nil
	default:
		return typed, nil
	}
}
