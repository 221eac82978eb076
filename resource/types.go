package resource

import "github.com/portalkit/portalkit/faults"

// Resource is one version of a resource's content. A nil or empty Value
// means the resource is absent.
type Resource struct {
	Specifier     Specifier
	Path          string
	Value         *string
	EffectiveData *string
	Checksum      string
}

func (r Resource) ID() string {
	return SpecifierID(r.Specifier)
}

// Present reports whether the resource carries a non-empty value.
func (r Resource) Present() bool {
	return r.Value != nil && *r.Value != ""
}

// DisplayValue is the value shown to an editor: the raw value when present,
// otherwise the effective value for definitions that fall back to it.
func (r Resource) DisplayValue() string {
	if r.Present() {
		return *r.Value
	}
	if r.Specifier.Def != nil && r.Specifier.Def.UsesEffectiveDataAsFallback && r.EffectiveData != nil {
		return *r.EffectiveData
	}
	return ""
}

// Update is one entry of a write request. A nil Value deletes the resource;
// an empty Checksum skips conflict detection for this entry.
type Update struct {
	Specifier Specifier
	Path      string
	Value     *string
	Checksum  string
}

func (u Update) IsDeletion() bool {
	return u.Value == nil
}

// StringValue returns a pointer to a copy of value.
func StringValue(value string) *string {
	return &value
}

func validationError(message string, cause error) error {
	return faults.NewValidationError(message, cause)
}
