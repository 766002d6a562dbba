package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never return data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exercise runs the shared Cache contract against c.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key, err := Key("test", t.Name(), time.Now().UnixNano())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Expected miss on empty cache, hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("png bytes"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("Expected hit, hit=%v err=%v", hit, err)
	}
	if string(data) != "png bytes" {
		t.Errorf("Expected %q, got %q", "png bytes", data)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Expected miss after Delete")
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Deleting a missing key should not fail: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("Expired entry should be a miss")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("Entry without TTL should not expire")
	}
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	path := fc.path("broken")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "broken"); hit || err != nil {
		t.Errorf("Corrupt entry should be a silent miss, hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Corrupt entry should be removed")
	}
}

func TestFileCache_Layout(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	path := c.(*FileCache).path("k")
	hash := Hash([]byte("k"))

	want := filepath.Join(dir, hash[:2], hash[2:]+".json")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("CAMOFORGE_TEST_REDIS")
	if url == "" {
		t.Skip("CAMOFORGE_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{URL: url, Prefix: "camoforge-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("Expected error connecting to a closed port")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("Error should name the address: %v", err)
	}
}

func TestRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{URL: "redis://host:notaport"}); err == nil {
		t.Error("Expected error for malformed URL")
	}
}

func TestKey(t *testing.T) {
	k1, err := Key("render", "mosaic", 1.0, 64)
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := Key("render", "mosaic", 1.0, 64)
	k3, _ := Key("render", "mosaic", 2.0, 64)

	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if k1 == k3 {
		t.Error("Different parts should produce different keys")
	}
	if !strings.HasPrefix(k1, "render:") || len(k1) != len("render:")+64 {
		t.Errorf("Unexpected key format: %s", k1)
	}
}

func TestKey_Unencodable(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if k, err := Key("render", v); err == nil {
			t.Errorf("Key(%v) = %q, want error", v, k)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		location string
		want     string
		wantErr  error
	}{
		{"", "*cache.NullCache", nil},
		{"none", "*cache.NullCache", nil},
		{filepath.Join(dir, "a"), "*cache.FileCache", nil},
		{"file://" + filepath.Join(dir, "b"), "*cache.FileCache", nil},
		{"s3://bucket", "", ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			c, err := Open(ctx, tt.location)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.location, got, tt.want)
			}
		})
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	case *RedisCache:
		return "*cache.RedisCache"
	}
	return "unknown"
}
