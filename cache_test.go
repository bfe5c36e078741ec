package main

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Print(string)                  {}
func (nopLogger) Printf(string, ...interface{}) {}
func (nopLogger) PrintError(string, error)      {}

// waitFor polls cond for up to a second.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestNewCache(t *testing.T) {
	t.Run("basic string cache creation", func(t *testing.T) {
		zero := "empty"
		c := NewCache(
			zero,
			func(k string) (string, error) { return zero, nil },
			func(k, v string) {},
			func(k string) string { return "" },
			nopLogger{},
		)
		defer c.Close()
		if c.zero != zero {
			t.Errorf("expected %q, got %q", zero, c.zero)
		}
		if c.Len() != 0 {
			t.Errorf("expected empty cache; got %d items", c.Len())
		}
		if c.pipeline == nil {
			t.Errorf("expected non-nil chan; got %#v", c.pipeline)
		}
	})

	t.Run("different data type cache creation", func(t *testing.T) {
		zero := -1
		c := NewCache(
			zero,
			func(k string) (int, error) { return zero, nil },
			func(k string, v int) {},
			func(k string) string { return "" },
			nopLogger{},
		)
		defer c.Close()
		if c.zero != zero {
			t.Errorf("expected %d, got %d", zero, c.zero)
		}
	})
}

func TestGet(t *testing.T) {
	zero := "zero"
	items := map[string]string{"a": "1", "b": "2", "c": "3"}
	c := NewCache(
		zero,
		func(k string) (string, error) {
			return items[k], nil
		},
		func(k, v string) {},
		func(k string) string { return "" },
		nopLogger{},
	)
	defer c.Close()
	t.Run("empty cache get returns zero", func(t *testing.T) {
		got := c.Get("a")
		if got != zero {
			t.Errorf("expected %q, got %q", zero, got)
		}
	})
	t.Run("non-empty cache get returns value", func(t *testing.T) {
		if !waitFor(func() bool { return c.Get("a") == "1" }) {
			t.Errorf("expected %q, got %q", "1", c.Get("a"))
		}
	})
}

func TestCallback(t *testing.T) {
	zero := "zero"
	var mu sync.Mutex
	var gotK, gotV string
	var calls int
	expectedK := "a"
	expectedV := "1"
	release := make(chan struct{})
	c := NewCache(
		zero,
		func(k string) (string, error) {
			<-release
			return expectedV, nil
		},
		func(k, v string) {
			mu.Lock()
			gotK, gotV = k, v
			calls++
			mu.Unlock()
		},
		func(k string) string { return "" },
		nopLogger{},
	)
	defer c.Close()
	t.Run("callback gets called back once", func(t *testing.T) {
		// repeated misses while a fetch is running don't queue more fetches
		c.Get(expectedK)
		c.Get(expectedK)
		close(release)
		ok := waitFor(func() bool {
			mu.Lock()
			defer mu.Unlock()
			return calls > 0
		})
		if !ok {
			t.Fatal("callback never called")
		}
		mu.Lock()
		defer mu.Unlock()
		if gotK != expectedK {
			t.Errorf("expected key %q, got %q", expectedK, gotK)
		}
		if gotV != expectedV {
			t.Errorf("expected value %q, got %q", expectedV, gotV)
		}
		if calls != 1 {
			t.Errorf("expected one fetch, got %d", calls)
		}
	})
}

func TestFetchError(t *testing.T) {
	c := NewCache(
		"zero",
		func(k string) (string, error) { return "", errors.New("unreadable") },
		func(k, v string) { t.Errorf("callback for failed fetch of %s", k) },
		func(k string) string { return "" },
		nopLogger{},
	)
	defer c.Close()
	if got := c.Get("a"); got != "zero" {
		t.Errorf("expected zero, got %q", got)
	}
	time.Sleep(10 * time.Millisecond)
	if c.Len() != 0 {
		t.Errorf("failed fetch was cached")
	}
}

func TestClose(t *testing.T) {
	c0 := NewCache(
		"",
		func(k string) (string, error) { return "A", nil },
		func(k, v string) {},
		func(k string) string { return "" },
		nopLogger{},
	)
	c0.Get("k")
	if !waitFor(func() bool { return c0.Len() == 1 }) {
		t.Fatalf("expected the cache to be non-empty")
	}
	c0.Close()
	if c0.Len() > 0 {
		t.Errorf("expected empty cache; was %d", c0.Len())
	}
	// closed caches only hand out the zero object
	if got := c0.Get("k"); got != "" {
		t.Errorf("expected zero after close, got %q", got)
	}
	c0.Close()
}

func TestCacheWithLRU(t *testing.T) {
	lru := NewLRU(2)
	c := NewCache(
		"",
		func(k string) (string, error) { return "v" + k, nil },
		func(k, v string) {},
		lru.Touch,
		nopLogger{},
	)
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		c.Get(k)
		key := k
		if !waitFor(func() bool { return c.Get(key) == "v"+key }) {
			t.Fatalf("%s never cached", key)
		}
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 cached items, got %d", c.Len())
	}
	if _, ok := c.cache.Load("a"); ok {
		t.Errorf("expected a to be evicted")
	}
}
