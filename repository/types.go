package repository

import "time"

// ConfigPath is the resource path of the application configuration document.
const ConfigPath = "authgear.yaml"

// MaxConfigSize is the largest configuration document the backend accepts.
const MaxConfigSize = 100 * 1024

// RemoteFile is one resource as stored. Data and EffectiveData are in wire
// form (base64); a nil Data means the path holds no resource.
type RemoteFile struct {
	Path          string  `json:"path" yaml:"path"`
	LanguageTag   string  `json:"languageTag,omitempty" yaml:"languageTag,omitempty"`
	Data          *string `json:"data,omitempty" yaml:"data,omitempty"`
	EffectiveData *string `json:"effectiveData,omitempty" yaml:"effectiveData,omitempty"`
	Checksum      string  `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// FileUpdate is one entry of a write. A nil Data deletes the resource.
type FileUpdate struct {
	Path     string  `json:"path" yaml:"path"`
	Data     *string `json:"data" yaml:"data"`
	Checksum string  `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

type ConfigDocument struct {
	Data     string `json:"data" yaml:"data"`
	Checksum string `json:"checksum" yaml:"checksum"`
}

type SyncState string

const (
	SyncStateClean       SyncState = "clean"
	SyncStateUncommitted SyncState = "uncommitted"
	SyncStateUntracked   SyncState = "untracked"
)

type SyncReport struct {
	State          SyncState `json:"state" yaml:"state"`
	HasUncommitted bool      `json:"hasUncommitted" yaml:"hasUncommitted"`
	ChangedPaths   []string  `json:"changedPaths,omitempty" yaml:"changedPaths,omitempty"`
}

type HistoryFilter struct {
	MaxCount int
	Paths    []string
}

type HistoryEntry struct {
	Hash    string    `json:"hash" yaml:"hash"`
	Author  string    `json:"author" yaml:"author"`
	Date    time.Time `json:"date" yaml:"date"`
	Subject string    `json:"subject" yaml:"subject"`
}
