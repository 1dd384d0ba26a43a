// Package taxonomy maintains the 3-level place tree: country at the root,
// region below it, locality below that. Terms are created on first
// resolution of a novel place and never deleted here.
package taxonomy

import (
	"context"
	"errors"
)

// TermID identifies one node in the tree.
type TermID int64

// RootID is the parent of country terms.
const RootID TermID = 0

// LocationType classifies a term by its depth.
type LocationType string

const (
	TypeCountry  LocationType = "country"
	TypeRegion   LocationType = "region"
	TypeLocality LocationType = "locality"
	TypeInvalid  LocationType = "invalid"
)

// maxDepth is the deepest legal level (locality).
const maxDepth = 2

var (
	// ErrDuplicate reports an insert that would violate the one-term-per-
	// distinct-place invariant. Stores return it so callers can re-read.
	ErrDuplicate = errors.New("term already exists")

	// ErrIntegrity reports a depth or uniqueness invariant violation. It is
	// always surfaced; the tree is never patched automatically.
	ErrIntegrity = errors.New("taxonomy integrity violated")
)

// Term is one node. Countries carry their ISO alpha-2 code, regions an ISO
// 3166-2 code, localities a generated code; lookups match on metadata, not
// display name, so renames are tolerated.
type Term struct {
	ID     TermID `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Parent TermID `json:"parent"`
}

// Store is the term persistence contract. Create must reject a second term
// with the same (parent, code) pair with ErrDuplicate, which is what makes
// the unique-constraint-and-retry pattern work for concurrent creators.
type Store interface {
	Create(ctx context.Context, t Term) (TermID, error)
	Get(ctx context.Context, id TermID) (Term, bool, error)
	FindByCode(ctx context.Context, parent TermID, code string) (Term, bool, error)
	FindByName(ctx context.Context, parent TermID, name string) (Term, bool, error)
	Ancestors(ctx context.Context, id TermID) ([]Term, error)
}
