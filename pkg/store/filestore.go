package store

// Package store persists conversation state as two JSON documents under a
// state directory: tree.json holds the node map and root id, ghosts.json
// holds the ghost branch store. Each document is written through a temp
// file and an atomic rename, so a failed write never truncates the
// previously persisted state.

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
)

const (
	treeFilename   = "tree.json"
	ghostsFilename = "ghosts.json"
)

type FileStore struct {
	dir string
}

var _ conversation.StateStore = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads the persisted documents. A missing file yields the empty state
// rather than an error, so first startup needs no bootstrapping step.
func (s *FileStore) Load() (*conversation.Tree, *conversation.GhostStore, error) {
	tree := conversation.NewTree()
	if err := s.loadDocument(treeFilename, tree); err != nil {
		return nil, nil, errors.Wrap(err, "loading tree document")
	}
	if tree.Nodes == nil {
		tree.Nodes = make(map[conversation.NodeID]*conversation.Node)
	}

	ghosts := conversation.NewGhostStore()
	if err := s.loadDocument(ghostsFilename, ghosts); err != nil {
		return nil, nil, errors.Wrap(err, "loading ghosts document")
	}
	if ghosts.Ghosts == nil {
		ghosts.Ghosts = make(map[conversation.GhostID]*conversation.GhostBranch)
	}

	log.Debug().
		Str("dir", s.dir).
		Int("nodes", len(tree.Nodes)).
		Int("ghosts", len(ghosts.Ghosts)).
		Msg("loaded conversation state")

	return tree, ghosts, nil
}

func (s *FileStore) Save(tree *conversation.Tree, ghosts *conversation.GhostStore) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "creating state directory %s", s.dir)
	}
	if err := s.saveDocument(ghostsFilename, ghosts); err != nil {
		return errors.Wrap(err, "saving ghosts document")
	}
	if err := s.saveDocument(treeFilename, tree); err != nil {
		return errors.Wrap(err, "saving tree document")
	}
	return nil
}

func (s *FileStore) loadDocument(filename string, v interface{}) error {
	path := filepath.Join(s.dir, filename)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return json.NewDecoder(f).Decode(v)
}

func (s *FileStore) saveDocument(filename string, v interface{}) error {
	path := filepath.Join(s.dir, filename)
	tmp, err := os.CreateTemp(s.dir, filename+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
