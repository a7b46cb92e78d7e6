package api

import (
	"context"

	"github.com/mattermost/updatechecker/internal/normalizer"
	"github.com/mattermost/updatechecker/model"
)

//go:generate mockgen -source=checker.go -destination=../mocks/api/checker.go -package=mock_api

// Checker exposes the cached update state of components.
type Checker interface {
	GetUpdateState(component *model.Component) (*model.UpdateCheckState, error)
	GetUpdate(component *model.Component, installedVersion string) (*model.UpdateRecord, error)
	CheckForUpdates(ctx context.Context, component *model.Component, installedVersion string) (*model.UpdateRecord, error)
	ResetUpdateState(component *model.Component) error
	GetTranslationUpdates(component *model.Component) ([]model.TranslationRecord, error)
	ClearCachedTranslationUpdates(component *model.Component) error
	InjectUpdate(list *model.HostUpdateList, component *model.Component, installedVersion string) (*model.HostUpdateList, error)
	InjectTranslationUpdates(list *model.HostUpdateList, component *model.Component) (*model.HostUpdateList, error)
}

// Components looks up registered components.
type Components interface {
	Get(slug string) *model.Component
	List() []*model.Component
}

// Normalizer fixes the directory layout of extracted updates.
type Normalizer interface {
	NormalizeFor(installer normalizer.Installer, identity model.Identity, source, remoteSource string) (string, error)
}

// VersionReader reads the installed version of a component.
type VersionReader interface {
	InstalledVersion(component *model.Component) (string, error)
}
