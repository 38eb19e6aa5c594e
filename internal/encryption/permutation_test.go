package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// TestGeneratePermutationDeterministic tests the injectable seed
func TestGeneratePermutationDeterministic(t *testing.T) {
	p1, err := GeneratePermutation(DefaultColumns, NewSeededShuffler(42))
	if err != nil {
		t.Fatalf("GeneratePermutation error: %v", err)
	}
	p2, _ := GeneratePermutation(DefaultColumns, NewSeededShuffler(42))

	if !p1.Equal(p2) {
		t.Errorf("same seed gave %v and %v", p1, p2)
	}
	if err := p1.Validate(); err != nil {
		t.Errorf("generated permutation invalid: %v", err)
	}
	if len(p1) != DefaultColumns {
		t.Errorf("len = %d, want %d", len(p1), DefaultColumns)
	}
}

// TestGeneratePermutationUniform tests Fisher-Yates output frequencies on n=3
func TestGeneratePermutationUniform(t *testing.T) {
	const draws = 6000
	s := NewSeededShuffler(7)
	counts := make(map[string]int)

	for i := 0; i < draws; i++ {
		p, err := GeneratePermutation(3, s)
		if err != nil {
			t.Fatalf("GeneratePermutation error: %v", err)
		}
		counts[fmt.Sprint([]int(p))]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d distinct permutations, want 6: %v", len(counts), counts)
	}
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("permutation %s drawn %d times, want about 1000", perm, n)
		}
	}
}

// TestGeneratePermutationInvalid tests column count bounds
func TestGeneratePermutationInvalid(t *testing.T) {
	for _, n := range []int{0, -3, MaxBlockSize + 1} {
		if _, err := GeneratePermutation(n, NewSeededShuffler(1)); err == nil {
			t.Errorf("GeneratePermutation(%d) should fail", n)
		}
	}
}

// TestPermutationInverse tests q[p[i]] == i
func TestPermutationInverse(t *testing.T) {
	p := Permutation{3, 0, 4, 1, 2}
	inv := p.Inverse()
	for i, col := range p {
		if inv[col] != i {
			t.Errorf("inverse[%d] = %d, want %d", col, inv[col], i)
		}
	}
	if !inv.Inverse().Equal(p) {
		t.Error("double inverse should be the original")
	}
}

// TestEntropyShuffler tests seeding from a byte source
func TestEntropyShuffler(t *testing.T) {
	seed := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	s1, err := NewEntropyShuffler(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("NewEntropyShuffler error: %v", err)
	}
	s2, _ := NewEntropyShuffler(bytes.NewReader(seed))
	p1, _ := GeneratePermutation(DefaultColumns, s1)
	p2, _ := GeneratePermutation(DefaultColumns, s2)
	if !p1.Equal(p2) {
		t.Error("equal seed bytes should give equal permutations")
	}

	if _, err := NewEntropyShuffler(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Error("short seed source should fail")
	}

	if _, err := NewEntropyShuffler(nil); err != nil {
		t.Errorf("crypto/rand shuffler failed: %v", err)
	}
}

// TestGenerateStreamKey tests key size and source errors
func TestGenerateStreamKey(t *testing.T) {
	key, err := GenerateStreamKey(nil)
	if err != nil {
		t.Fatalf("GenerateStreamKey error: %v", err)
	}
	if len(key) != StreamKeySize {
		t.Errorf("len = %d, want %d", len(key), StreamKeySize)
	}

	src := bytes.Repeat([]byte{0xab}, StreamKeySize)
	key, err = GenerateStreamKey(bytes.NewReader(src))
	if err != nil {
		t.Fatalf("GenerateStreamKey error: %v", err)
	}
	if !bytes.Equal(key, src) {
		t.Errorf("key = %x, want %x", key, src)
	}

	_, err = GenerateStreamKey(bytes.NewReader([]byte{1}))
	if err == nil {
		t.Error("short key source should fail")
	}
	if errors.Unwrap(err) == nil {
		t.Error("error should wrap the source error")
	}
}
