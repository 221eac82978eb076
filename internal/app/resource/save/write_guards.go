package save

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

// ensureDeletionsAllowed refuses a push that removes backend resources unless
// the operator confirmed it.
func ensureDeletionsAllowed(updates []resource.Update, allowDeletions bool) error {
	if allowDeletions {
		return nil
	}
	deleted := 0
	for _, update := range updates {
		if update.IsDeletion() {
			deleted++
		}
	}
	if deleted == 0 {
		return nil
	}
	return validationError(
		fmt.Sprintf("push deletes %d resources from the backend; rerun with --yes to confirm", deleted),
		nil,
	)
}

func ensureUniquePaths(updates []resource.Update) error {
	seen := make(map[string]struct{}, len(updates))
	for _, update := range updates {
		if update.Path == "" {
			return validationError("update has no resource path", nil)
		}
		if update.Specifier.Def == nil {
			return validationError(fmt.Sprintf("update %q has no resource definition", update.Path), nil)
		}
		if _, ok := seen[update.Path]; ok {
			return validationError(fmt.Sprintf("resource %q is updated more than once", update.Path), nil)
		}
		seen[update.Path] = struct{}{}
	}
	return nil
}

// ensureConfigUpdateValid checks an authgear.yaml update before it reaches
// the backend: it cannot be deleted, must fit the size limit and must be a
// YAML mapping.
func ensureConfigUpdateValid(update resource.Update) error {
	if update.Path != repository.ConfigPath {
		return nil
	}
	if update.IsDeletion() {
		return validationError(repository.ConfigPath+" cannot be deleted", nil)
	}
	if size := len(*update.Value); size > repository.MaxConfigSize {
		return tooLargeError(fmt.Sprintf("%s is %d bytes, the limit is %d", repository.ConfigPath, size, repository.MaxConfigSize))
	}

	var document yaml.Node
	if err := yaml.Unmarshal([]byte(*update.Value), &document); err != nil {
		return validationError(repository.ConfigPath+" is not valid YAML", err)
	}
	if len(document.Content) == 0 || document.Content[0].Kind != yaml.MappingNode {
		return validationError(repository.ConfigPath+" must be a YAML mapping", nil)
	}
	return nil
}
