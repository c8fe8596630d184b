package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("openai", "gpt-5-mini", "quit sugar")
	k2 := Key("openai", "gpt-5-mini", "quit sugar")
	if k1 != k2 {
		t.Error("same inputs should produce the same key")
	}
	if !strings.HasPrefix(k1, "nyr:v1:") {
		t.Errorf("key %q should carry the version prefix", k1)
	}

	if Key("openai", "gpt-5-mini", "quit sugar") == Key("ollama", "gpt-5-mini", "quit sugar") {
		t.Error("provider should participate in the key")
	}
	if Key("openai", "gpt-5-mini", "quit sugar") == Key("openai", "gpt-4o-mini", "quit sugar") {
		t.Error("model should participate in the key")
	}
	if Key("openai", "gpt-5-mini", "quit sugar") == Key("openai", "gpt-5-mini", "quit carbs") {
		t.Error("message should participate in the key")
	}
	// Field boundaries must not be ambiguous.
	if Key("a", "bc", "d") == Key("ab", "c", "d") {
		t.Error("keys should separate fields, not concatenate them")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("empty cache should miss")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q %v, want v true", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("deleted key should miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("openai", "gpt-5-mini", "msg"), []byte(`{"topic_id":1}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(Key("openai", "gpt-5-mini", "msg"))
	if !found || string(val) != `{"topic_id":1}` {
		t.Errorf("Get = %q %v", val, found)
	}

	// A fresh cache over the same directory still sees the entry.
	c2 := NewDiskCache(dir, time.Minute)
	if _, found := c2.Get(Key("openai", "gpt-5-mini", "msg")); !found {
		t.Error("entry should survive across cache instances")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry should miss")
	}
}

func TestLayeredCachePromotion(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk layer.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Get = %q %v, want v true", val, found)
	}

	// Promoted entries survive the disk layer being emptied.
	if err := disk.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := layered.Get("k"); !found {
		t.Error("promoted entry should be served from memory")
	}
}
