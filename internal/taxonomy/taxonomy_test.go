package taxonomy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/geofacts/geofacts/internal/normalize"
)

func nycAddress() normalize.AddressRecord {
	return normalize.AddressRecord{
		Locality:    "New York",
		Region:      "New York",
		RegionCode:  "US-NY",
		CountryName: "United States",
		CountryCode: "us",
	}
}

func TestGetOrCreateBuildsChain(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	ctx := context.Background()

	id, err := r.GetOrCreate(ctx, nycAddress())
	if err != nil {
		t.Fatal(err)
	}

	typ, err := r.LocationType(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if typ != TypeLocality {
		t.Errorf("type = %v, want locality", typ)
	}

	// second resolution of the same place returns the same term
	again, err := r.GetOrCreate(ctx, nycAddress())
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("second resolution created a new term: %d vs %d", again, id)
	}
}

func TestGetOrCreateDegradesGracefully(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	ctx := context.Background()

	// no locality: returns the region term
	addr := nycAddress()
	addr.Locality = ""
	id, err := r.GetOrCreate(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if typ, _ := r.LocationType(ctx, id); typ != TypeRegion {
		t.Errorf("type = %v, want region", typ)
	}

	// no region either: returns the country term
	addr.Region = ""
	addr.RegionCode = ""
	id, err = r.GetOrCreate(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if typ, _ := r.LocationType(ctx, id); typ != TypeCountry {
		t.Errorf("type = %v, want country", typ)
	}

	// no country at all is rejected
	if _, err := r.GetOrCreate(ctx, normalize.AddressRecord{Locality: "Nowhere"}); err == nil {
		t.Error("address without country should fail")
	}
}

func TestGetOrCreateToleratesRenames(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.GetOrCreate(ctx, nycAddress())
	if err != nil {
		t.Fatal(err)
	}

	// metadata match: a record with only codes still finds the same region
	addr := nycAddress()
	addr.Region = ""
	addr.CountryName = ""
	id, err := r.GetOrCreate(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if id != first {
		t.Errorf("code-only record resolved to a different term: %d vs %d", id, first)
	}
}

func TestConcurrentGetOrCreateUniqueness(t *testing.T) {
	r := NewResolver(NewMemoryStore())
	ctx := context.Background()

	const workers = 16
	ids := make([]TermID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.GetOrCreate(ctx, nycAddress())
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent creates produced distinct terms: %v", ids)
		}
	}
}

func TestDepthInvariant(t *testing.T) {
	store := NewMemoryStore()
	r := NewResolver(store)
	ctx := context.Background()

	locality, err := r.GetOrCreate(ctx, nycAddress())
	if err != nil {
		t.Fatal(err)
	}

	// creating anything under a locality must be rejected
	_, err = r.getOrCreateTerm(ctx, locality, Term{Name: "Block 5", Code: "blk-5"})
	if !errors.Is(err, ErrIntegrity) {
		t.Errorf("create below locality should violate integrity, got %v", err)
	}

	// a manually corrupted deeper node classifies as invalid
	deep, err := store.Create(ctx, Term{Name: "Corrupt", Code: "x", Parent: locality})
	if err != nil {
		t.Fatal(err)
	}
	typ, err := r.LocationType(ctx, deep)
	if err != nil {
		t.Fatal(err)
	}
	if typ != TypeInvalid {
		t.Errorf("type = %v, want invalid", typ)
	}
}

func TestDuplicateCreateRejected(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, Term{Name: "United States", Code: "us"}); err != nil {
		t.Fatal(err)
	}
	_, err := store.Create(ctx, Term{Name: "USA", Code: "US"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("want ErrDuplicate for same (parent, code), got %v", err)
	}
}
