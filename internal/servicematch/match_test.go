package servicematch

import "testing"

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	table, err := DefaultAliasTable()
	if err != nil {
		t.Fatalf("load default alias table: %v", err)
	}
	return NewMatcher(table)
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Disney+ Hotstar": "disneyhotstar",
		"  Netflix  ":     "netflix",
		"ZEE5":            "zee5",
		"Yt-Premium!":     "ytpremium",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveExactPrecedence(t *testing.T) {
	m := testMatcher(t)
	idx, ok := m.Resolve("netflix", []string{"Netflix"})
	if !ok || idx != 0 {
		t.Fatalf("Resolve(netflix) = (%d, %v), want exact hit at 0", idx, ok)
	}
}

func TestResolveExactWinsOverFuzzy(t *testing.T) {
	m := testMatcher(t)
	// "Netflix" is an exact normalized match; the near-miss spelling must not
	// steal the result via the fuzzy tier.
	idx, ok := m.Resolve("Netflix", []string{"Netflyx", "Netflix"})
	if !ok || idx != 1 {
		t.Fatalf("Resolve = (%d, %v), want exact candidate at 1", idx, ok)
	}
}

func TestResolveAliasExpansion(t *testing.T) {
	m := testMatcher(t)
	idx, ok := m.Resolve("Hotstar", []string{"Netflix", "Disney+ Hotstar"})
	if !ok || idx != 1 {
		t.Fatalf("Resolve(Hotstar) = (%d, %v), want alias hit at 1", idx, ok)
	}

	idx, ok = m.Resolve("JioHotstar", []string{"Disney+ Hotstar"})
	if !ok || idx != 0 {
		t.Fatalf("Resolve(JioHotstar) = (%d, %v), want alias hit at 0", idx, ok)
	}
}

func TestResolveContainment(t *testing.T) {
	m := testMatcher(t)
	idx, ok := m.Resolve("Sony LIV Premium Annual", []string{"SonyLIV"})
	if !ok || idx != 0 {
		t.Fatalf("Resolve containment = (%d, %v), want hit at 0", idx, ok)
	}
}

func TestResolveFuzzyBoundary(t *testing.T) {
	m := NewMatcher(nil)

	// Ten characters, edit distance 3 = exactly 30% of the longer length.
	// The bound is exclusive, so this must not match.
	if _, ok := m.Resolve("abcdefgxyz", []string{"abcdefghij"}); ok {
		t.Fatalf("distance at the 30%% bound must not match")
	}

	// One character closer (distance 2) must match.
	idx, ok := m.Resolve("abcdefghxy", []string{"abcdefghij"})
	if !ok || idx != 0 {
		t.Fatalf("distance under the bound should match, got (%d, %v)", idx, ok)
	}
}

func TestResolveNoMatch(t *testing.T) {
	m := testMatcher(t)
	if idx, ok := m.Resolve("Local Gym", []string{"Netflix", "Spotify"}); ok {
		t.Fatalf("Resolve(Local Gym) = (%d, true), want no match", idx)
	}
}

func TestNamesOverlap(t *testing.T) {
	m := testMatcher(t)
	bundle := []string{"Netflix", "Disney+ Hotstar", "SonyLIV"}

	if !m.NamesOverlap(bundle, "Hotstar") {
		t.Fatalf("expected Hotstar to overlap via alias")
	}
	if !m.NamesOverlap(bundle, "netflix") {
		t.Fatalf("expected netflix to overlap exactly")
	}
	if m.NamesOverlap(bundle, "Local Gym") {
		t.Fatalf("Local Gym must not overlap")
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"netflix", "netflyx", 1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
