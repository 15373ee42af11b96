package conversation

import "github.com/pkg/errors"

// Error taxonomy for tree and ghost operations. Callers distinguish the
// categories with errors.Is; the web layer maps them to status codes.
var (
	ErrNoSuchNode   = errors.New("no such node")
	ErrNoSuchGhost  = errors.New("no such ghost branch")
	ErrInvalidState = errors.New("invalid tree state")
	ErrPersistence  = errors.New("persistence failure")
	ErrGeneration   = errors.New("generation failure")
)
