package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "operation without params",
			key:  NewKey("random"),
			want: "recipe:random",
		},
		{
			name: "single id param",
			key:  NewKey("recipeById").Param("id", "12345"),
			want: "recipe:recipeById:id=12345",
		},
		{
			name: "free text is case-folded",
			key:  NewKey("search").Text("query", "Chicken"),
			want: "recipe:search:query=chicken",
		},
		{
			name: "free text is trimmed",
			key:  NewKey("search").Text("query", "  Pasta Carbonara "),
			want: "recipe:search:query=pasta carbonara",
		},
		{
			name: "empty optional params are omitted",
			key: NewKey("search").
				Text("query", "soup").
				Text("cuisine", "").
				Param("number", ""),
			want: "recipe:search:query=soup",
		},
		{
			name: "params sorted regardless of insertion order",
			key: NewKey("search").
				Param("number", "5").
				Text("diet", "Vegan").
				Text("query", "salad"),
			want: "recipe:search:diet=vegan:number=5:query=salad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.key.String()
			if got != tt.want {
				t.Errorf("Key.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKey_Determinism ensures equivalent logical requests always derive
// the same key.
func TestKey_Determinism(t *testing.T) {
	a := NewKey("search").
		Text("query", "Chicken").
		Text("cuisine", "Italian").
		Param("number", "10")

	b := NewKey("search").
		Param("number", "10").
		Text("cuisine", "italian").
		Text("query", "CHICKEN")

	if a.String() != b.String() {
		t.Errorf("equivalent keys differ: %q vs %q", a.String(), b.String())
	}

	// Repeated serialization is stable.
	first := a.String()
	for i := 0; i < 10; i++ {
		if got := a.String(); got != first {
			t.Errorf("iteration %d: got %v, want %v (not deterministic)", i, got, first)
		}
	}
}
