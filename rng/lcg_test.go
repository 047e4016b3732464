package rng

import "testing"

func TestLCGDeterministic(t *testing.T) {
	a := NewLCG(42)
	b := NewLCG(42)
	for i := 0; i < 100; i++ {
		av, bv := a.Next(), b.Next()
		if av != bv {
			t.Fatalf("draw %d diverged: %d != %d", i, av, bv)
		}
	}
}

func TestLCGKnownSequence(t *testing.T) {
	g := NewLCG(1)
	// state' = (1103515245*1 + 12345) mod 2^31
	want := uint32((1103515245*int64(1) + 12345) % (1 << 31))
	if got := g.Next(); got != want {
		t.Fatalf("Next() = %d, want %d", got, want)
	}
}

func TestLCGFloat64Range(t *testing.T) {
	g := NewLCG(7)
	for i := 0; i < 1000; i++ {
		f := g.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64() = %v out of [0,1)", f)
		}
	}
}

func TestLCGPermIsPermutation(t *testing.T) {
	g := NewLCG(99)
	p := g.Perm(20)
	seen := make(map[int]bool, 20)
	for _, v := range p {
		if v < 0 || v >= 20 || seen[v] {
			t.Fatalf("Perm produced invalid/duplicate value %d", v)
		}
		seen[v] = true
	}
}

func TestLCGNegativeSeedFolds(t *testing.T) {
	g := NewLCG(-5)
	if g.state < 0 || g.state >= lcgModulus {
		t.Fatalf("negative seed not folded into range: %d", g.state)
	}
}
