package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/geofacts/geofacts/internal/normalize"
)

// Resolver implements get-or-create over the term tree. Creation for the same
// (country-code, region-code) pair is serialized through a keyed mutex on top
// of the store's uniqueness constraint, so concurrent resolutions of the same
// novel place yield exactly one term.
type Resolver struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResolver builds a Resolver over a term store.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// GetOrCreate resolves the deepest term matching the address record, creating
// the country/region/locality chain as needed. Without a locality the region
// term is returned; without a region, the country term.
func (r *Resolver) GetOrCreate(ctx context.Context, addr normalize.AddressRecord) (TermID, error) {
	countryCode := strings.ToLower(addr.CountryCode)
	if countryCode == "" {
		countryCode = normalize.CountryCode(addr.CountryName)
	}
	if countryCode == "" {
		return 0, errors.New("address record has no country")
	}

	regionCode := addr.RegionCode
	if regionCode == "" && addr.Region != "" {
		regionCode = normalize.RegionCode(countryCode, addr.Region)
	}

	unlock := r.lock(countryCode + "|" + regionCode)
	defer unlock()

	// fast path: the locality already exists under the right ancestors
	if addr.Locality != "" {
		if id, ok, err := r.findLocality(ctx, countryCode, regionCode, addr); err != nil {
			return 0, err
		} else if ok {
			return id, nil
		}
	}

	country, err := r.getOrCreateTerm(ctx, RootID, countryTerm(countryCode, addr))
	if err != nil {
		return 0, err
	}
	if addr.Region == "" && addr.RegionCode == "" {
		return country.ID, nil
	}

	region, err := r.getOrCreateTerm(ctx, country.ID, regionTerm(countryCode, regionCode, addr))
	if err != nil {
		return 0, err
	}
	if addr.Locality == "" {
		return region.ID, nil
	}

	locality, err := r.getOrCreateTerm(ctx, region.ID, Term{
		Name: addr.Locality,
		Code: "loc-" + uuid.NewString()[:8],
	})
	if err != nil {
		return 0, err
	}
	return locality.ID, nil
}

// LocationType classifies a term purely by its ancestor count. Three or more
// ancestors is reported invalid; callers treat that as a data-integrity
// error, it is never repaired here.
func (r *Resolver) LocationType(ctx context.Context, id TermID) (LocationType, error) {
	ancestors, err := r.store.Ancestors(ctx, id)
	if err != nil {
		return TypeInvalid, err
	}
	switch len(ancestors) {
	case 0:
		return TypeCountry, nil
	case 1:
		return TypeRegion, nil
	case 2:
		return TypeLocality, nil
	default:
		return TypeInvalid, nil
	}
}

func (r *Resolver) findLocality(ctx context.Context, countryCode, regionCode string, addr normalize.AddressRecord) (TermID, bool, error) {
	country, ok, err := r.store.FindByCode(ctx, RootID, countryCode)
	if err != nil || !ok {
		return 0, false, err
	}
	parent := country.ID
	if regionCode != "" || addr.Region != "" {
		region, ok, err := r.findRegion(ctx, country.ID, regionCode, addr.Region)
		if err != nil || !ok {
			return 0, false, err
		}
		parent = region.ID
	}
	locality, ok, err := r.store.FindByName(ctx, parent, addr.Locality)
	if err != nil || !ok {
		return 0, false, err
	}
	return locality.ID, true, nil
}

func (r *Resolver) findRegion(ctx context.Context, country TermID, regionCode, regionName string) (Term, bool, error) {
	if regionCode != "" {
		if t, ok, err := r.store.FindByCode(ctx, country, regionCode); err != nil || ok {
			return t, ok, err
		}
	}
	if regionName != "" {
		return r.store.FindByName(ctx, country, regionName)
	}
	return Term{}, false, nil
}

// getOrCreateTerm finds a term under parent by code (falling back to name),
// creating it when absent. The depth invariant is enforced before every
// create; a duplicate insert from a concurrent creator is resolved by
// re-reading.
func (r *Resolver) getOrCreateTerm(ctx context.Context, parent TermID, t Term) (Term, error) {
	if t.Code != "" {
		if found, ok, err := r.store.FindByCode(ctx, parent, t.Code); err != nil {
			return Term{}, err
		} else if ok {
			return found, nil
		}
	}
	if found, ok, err := r.store.FindByName(ctx, parent, t.Name); err != nil {
		return Term{}, err
	} else if ok {
		return found, nil
	}

	if err := r.checkDepth(ctx, parent); err != nil {
		return Term{}, err
	}

	t.Parent = parent
	id, err := r.store.Create(ctx, t)
	if errors.Is(err, ErrDuplicate) {
		// lost a race; the winner's term is authoritative
		if found, ok, ferr := r.store.FindByCode(ctx, parent, t.Code); ferr == nil && ok {
			return found, nil
		}
		return Term{}, fmt.Errorf("%w: duplicate without readable winner", ErrIntegrity)
	}
	if err != nil {
		return Term{}, err
	}
	t.ID = id
	return t, nil
}

// checkDepth rejects creates that would put a node deeper than locality.
func (r *Resolver) checkDepth(ctx context.Context, parent TermID) error {
	if parent == RootID {
		return nil
	}
	ancestors, err := r.store.Ancestors(ctx, parent)
	if err != nil {
		return err
	}
	if len(ancestors)+1 >= maxDepth+1 {
		return fmt.Errorf("%w: create would exceed depth %d", ErrIntegrity, maxDepth)
	}
	return nil
}

func (r *Resolver) lock(key string) func() {
	r.mu.Lock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func countryTerm(code string, addr normalize.AddressRecord) Term {
	name := addr.CountryName
	if name == "" {
		name = normalize.CountryName(code)
	}
	if name == "" {
		name = strings.ToUpper(code)
	}
	return Term{Name: name, Code: code}
}

func regionTerm(countryCode, regionCode string, addr normalize.AddressRecord) Term {
	name := addr.Region
	if name == "" {
		name = normalize.RegionName(countryCode, regionCode)
	}
	if name == "" {
		name = regionCode
	}
	code := regionCode
	if code == "" {
		// no ISO code known; generate a stable-enough local one
		code = "reg-" + uuid.NewString()[:8]
	}
	return Term{Name: name, Code: code}
}
