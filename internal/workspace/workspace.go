package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("Workspace")

type (
	// Manager allocates per-request scratch directories beneath a fixed
	// root. Each workspace is named with a freshly generated UUID so
	// concurrent requests can never collide on the filesystem.
	Manager struct {
		root string
	}

	// Workspace is a single request's scratch directory. The owner must
	// call Destroy exactly once when it has finished with the files
	// inside, regardless of whether the request succeeded.
	Workspace struct {
		id  uuid.UUID
		dir string
	}
)

func NewManager(root string) *Manager {
	return &Manager{root: root}
}

// Create makes a fresh, uniquely named directory beneath the manager's
// root (creating the root itself if it's missing).
func (manager *Manager) Create() (*Workspace, error) {
	if err := os.MkdirAll(manager.root, os.ModeDir|os.ModePerm); err != nil {
		return nil, fmt.Errorf("workspace root '%s' could not be created: %w", manager.root, err)
	}

	id := uuid.New()
	dir := filepath.Join(manager.root, id.String())
	if err := os.Mkdir(dir, os.ModeDir|os.ModePerm); err != nil {
		return nil, fmt.Errorf("workspace '%s' could not be created: %w", dir, err)
	}

	log.Emit(logger.NEW, "Created workspace %s\n", dir)
	return &Workspace{id: id, dir: dir}, nil
}

func (workspace *Workspace) ID() uuid.UUID { return workspace.id }
func (workspace *Workspace) Dir() string   { return workspace.dir }

// Join returns a path for the named file inside this workspace.
func (workspace *Workspace) Join(elem ...string) string {
	return filepath.Join(append([]string{workspace.dir}, elem...)...)
}

// Files lists the regular files currently present in the workspace, in
// lexical order. Directories and other non-regular entries are skipped.
func (workspace *Workspace) Files() ([]string, error) {
	entries, err := os.ReadDir(workspace.dir)
	if err != nil {
		return nil, fmt.Errorf("workspace '%s' could not be listed: %w", workspace.dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(workspace.dir, entry.Name()))
		}
	}

	return files, nil
}

// Destroy recursively removes the workspace directory. Destroying a
// workspace which no longer exists on disk is a no-op, so it is safe
// to call from multiple exit paths.
func (workspace *Workspace) Destroy() {
	if err := os.RemoveAll(workspace.dir); err != nil {
		log.Emit(logger.ERROR, "Failed to remove workspace %s: %v\n", workspace.dir, err)
		return
	}

	log.Emit(logger.REMOVE, "Destroyed workspace %s\n", workspace.dir)
}
