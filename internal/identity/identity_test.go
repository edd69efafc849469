package identity

import "testing"

func TestResolveTopLevelFields(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		want int64
	}{
		{"user_id", map[string]any{"user_id": float64(42)}, 42},
		{"id", map[string]any{"id": float64(7)}, 7},
		{"numeric string", map[string]any{"uid": "108"}, 108},
		{"user_id wins over id", map[string]any{"id": float64(9), "user_id": float64(42)}, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := Resolve(tc.doc)
			if !ok {
				t.Fatal("expected key")
			}
			if !key.IsNumeric() || key.Numeric() != tc.want {
				t.Errorf("got %v, want %d", key, tc.want)
			}
		})
	}
}

func TestResolveNestedContainers(t *testing.T) {
	key, ok := ResolveJSON([]byte(`{"session":{"user":{"user_id":55}}}`))
	if !ok {
		t.Fatal("expected key from nested session")
	}
	if key.Numeric() != 55 {
		t.Errorf("got %v, want 55", key)
	}

	key, ok = ResolveJSON([]byte(`{"identities":[{"user_id":"31"}]}`))
	if !ok {
		t.Fatal("expected key from identities array")
	}
	if key.Numeric() != 31 {
		t.Errorf("got %v, want 31", key)
	}
}

func TestResolveFederatedSubject(t *testing.T) {
	key, ok := Resolve(map[string]any{"sub": "f2a6117e-0f39-4b6e-9a57-6d8f1a2b3c4d"})
	if !ok {
		t.Fatal("expected key")
	}
	if key.IsNumeric() {
		t.Fatal("expected opaque key")
	}
	if key.Opaque() != "f2a6117e-0f39-4b6e-9a57-6d8f1a2b3c4d" {
		t.Errorf("got %q", key.Opaque())
	}
}

func TestResolveNotFound(t *testing.T) {
	cases := []map[string]any{
		{},
		nil,
		{"name": "someone"},
		{"user_id": float64(0)},
		{"user_id": ""},
	}
	for _, doc := range cases {
		if key, ok := Resolve(doc); ok {
			t.Errorf("Resolve(%v): unexpected key %v", doc, key)
		}
	}
}

func TestNormalize(t *testing.T) {
	if key, ok := Normalize("legacy_subject"); !ok || key.Opaque() != "legacy_subject" {
		t.Errorf("non-numeric string should pass through opaque, got %v/%v", key, ok)
	}
	if _, ok := Normalize(true); ok {
		t.Error("bool should not normalize")
	}
	if _, ok := Normalize("-5"); ok {
		t.Error("negative ids should not normalize")
	}
}
