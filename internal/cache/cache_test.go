package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheTTL(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("get = %q, %v, %v", got, ok, err)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still served")
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("missing key reported as hit")
	}
}

func TestMemoryCacheLastWriteWins(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("first"), time.Minute)
	c.Set(ctx, "k", []byte("second"), time.Minute)
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "second" {
		t.Errorf("got %q, want second", got)
	}
}

func TestKeyDistinguishesInputs(t *testing.T) {
	a := Key("weather", "openmeteo", "40.7484,-73.9857")
	b := Key("weather", "openmeteo", "40.7484,-73.9858")
	c := Key("weather", "metar", "40.7484,-73.9857")
	d := Key("geocode", "openmeteo", "40.7484,-73.9857")

	if a == b || a == c || a == d {
		t.Errorf("keys collide: %q %q %q %q", a, b, c, d)
	}
	if a != Key("weather", "openmeteo", "40.7484,-73.9857") {
		t.Error("key not deterministic")
	}
}
