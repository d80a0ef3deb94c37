package config

import "testing"

func TestChecksum_IgnoresSeed(t *testing.T) {
	a := DefaultGeneratorConfig()
	b := DefaultGeneratorConfig()
	seed := int64(123)
	b.Seed = &seed

	s1, err := Checksum(&a)
	if err != nil {
		t.Fatalf("Checksum(a): %v", err)
	}
	s2, err := Checksum(&b)
	if err != nil {
		t.Fatalf("Checksum(b): %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected seed to be excluded: %s vs %s", s1, s2)
	}
	if len(s1) != 6 {
		t.Fatalf("expected 6 hex chars, got %q", s1)
	}
}

func TestChecksum_ChangesWithParameters(t *testing.T) {
	a := DefaultGeneratorConfig()
	b := DefaultGeneratorConfig()
	b.NumTasks++

	s1, err := Checksum(&a)
	if err != nil {
		t.Fatalf("Checksum(a): %v", err)
	}
	s2, err := Checksum(&b)
	if err != nil {
		t.Fatalf("Checksum(b): %v", err)
	}
	if s1 == s2 {
		t.Fatalf("expected different checksums, both %s", s1)
	}
}

func TestChecksum_Nil(t *testing.T) {
	s, err := Checksum(nil)
	if err != nil || s != "" {
		t.Fatalf("expected empty checksum for nil config, got %q, %v", s, err)
	}
}
