package manifest

import (
	"fmt"

	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/fs"
)

const (
	// PackageJSON is the npm package descriptor file name.
	PackageJSON = "package.json"

	// Changelog is the changelog file name.
	Changelog = "CHANGELOG.md"

	// MigrationCollection is the Angular schematics migration collection.
	MigrationCollection = "src/schematics/migrations/migration-collection.json"
)

// Store reads and writes manifest files on a filesystem.
type Store struct {
	fs fs.Filesystem
}

// NewStore creates a Store over fsys.
func NewStore(fsys fs.Filesystem) *Store {
	return &Store{fs: fsys}
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	return s.fs.Exists(path)
}

// ReadJSON reads and parses the JSON object at path.
func (s *Store) ReadJSON(path string) (*Document, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// WriteJSON writes doc to path.
func (s *Store) WriteJSON(path string, doc *Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadText reads path as a string. A missing file reads as "".
func (s *Store) ReadText(path string) (string, error) {
	ok, err := s.fs.Exists(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteText writes content to path.
func (s *Store) WriteText(path, content string) error {
	if err := s.fs.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Umbrella extracts the version and ng-update.packageGroup from a package.json document.
func Umbrella(doc *Document) (domain.UmbrellaManifest, error) {
	group, err := doc.StringMap("ng-update", "packageGroup")
	if err != nil {
		return domain.UmbrellaManifest{}, err
	}
	version := doc.String("version")
	if version == "" {
		return domain.UmbrellaManifest{}, fmt.Errorf("package.json has no version")
	}
	return domain.UmbrellaManifest{Version: version, PackageGroup: group}, nil
}

// SetSchematicVersions sets "version" on each named schematic that exists in
// a migration collection. It returns the names it updated.
func SetSchematicVersions(doc *Document, version string, names ...string) ([]string, error) {
	var updated []string
	for _, name := range names {
		if !doc.Has("schematics", name) {
			continue
		}
		if err := doc.Set(version, "schematics", name, "version"); err != nil {
			return updated, err
		}
		updated = append(updated, name)
	}
	return updated, nil
}
