package run

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewAssignsRunID(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	if a.RunID == "" {
		t.Fatal("New() produced empty RunID")
	}
	if a.RunID == b.RunID {
		t.Errorf("two runs share RunID %q", a.RunID)
	}
	if len(a.ShortID()) != 8 {
		t.Errorf("ShortID() = %q, want 8 characters", a.ShortID())
	}
}

func TestCountersConcurrent(t *testing.T) {
	c := New(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Count("devices.ok", 1)
			c.Count("devices.failed", 2)
		}()
	}
	wg.Wait()

	if got := c.Counter("devices.ok"); got != 50 {
		t.Errorf("devices.ok = %d, want 50", got)
	}
	if got := c.Counter("devices.failed"); got != 100 {
		t.Errorf("devices.failed = %d, want 100", got)
	}
	names := c.CounterNames()
	if len(names) != 2 || names[0] != "devices.failed" || names[1] != "devices.ok" {
		t.Errorf("CounterNames() = %v, want sorted pair", names)
	}
}

func TestEnsureOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "sub")
	c := New(Options{OutputDir: dir})

	got, err := c.EnsureOutputDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("EnsureOutputDir() = %q, want %q", got, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir not created: %v", err)
	}

	p, err := c.OutputPath("interfaces.json")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "interfaces.json"); p != want {
		t.Errorf("OutputPath() = %q, want %q", p, want)
	}
}

func TestNoOutputDir(t *testing.T) {
	c := New(Options{})
	dir, err := c.EnsureOutputDir()
	if err != nil || dir != "" {
		t.Errorf("EnsureOutputDir() = (%q, %v), want empty and nil", dir, err)
	}
	p, err := c.OutputPath("x.json")
	if err != nil || p != "" {
		t.Errorf("OutputPath() = (%q, %v), want empty and nil", p, err)
	}
}
