package parser

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"doq/internal/shared/observability"
)

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(PythonLanguage())
	base := testutil.ToFloat64(observability.ParsersLeased)

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if pool.Stats() != 1 {
		t.Fatalf("expected 1 leased parser, got %d", pool.Stats())
	}
	if got := testutil.ToFloat64(observability.ParsersLeased); got != base+1 {
		t.Fatalf("expected leased gauge %v, got %v", base+1, got)
	}

	pool.Put(sp)
	if pool.Stats() != 0 {
		t.Fatalf("expected 0 leased parsers after Put, got %d", pool.Stats())
	}
	if got := testutil.ToFloat64(observability.ParsersLeased); got != base {
		t.Fatalf("expected leased gauge back at %v, got %v", base, got)
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(PythonLanguage())

	// Put(nil) must be a no-op.
	pool.Put(nil)
}

func TestParserPool_ParsesValidPython(t *testing.T) {
	pool := NewParserPool(PythonLanguage())

	sp := pool.Get()
	defer pool.Put(sp)

	src := []byte("def main():\n    pass\n")
	tree := sp.Parse(src, nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree for valid Python source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		t.Fatalf("expected error-free root node, got hasError=%v", root.HasError())
	}
}

func TestParserPool_LanguageSetAfterReset(t *testing.T) {
	pool := NewParserPool(PythonLanguage())

	sp := pool.Get()
	sp.Reset()
	pool.Put(sp)

	sp2 := pool.Get()
	defer pool.Put(sp2)

	tree := sp2.Parse([]byte("def ok():\n    pass\n"), nil)
	if tree == nil {
		t.Fatal("parser with reset language should still parse correctly after Get")
	}
	defer tree.Close()
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(PythonLanguage())

	const goroutines = 8
	const iters = 25

	var wg sync.WaitGroup
	wg.Add(goroutines)

	src := []byte("class A:\n    def run(self):\n        pass\n")

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp := pool.Get()
				tree := sp.Parse(src, nil)
				if tree == nil {
					t.Errorf("expected non-nil parse tree")
				} else {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}

	wg.Wait()
}
