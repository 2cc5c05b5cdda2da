package device

import "testing"

func intp(n int) *int { return &n }

func TestParseProcessor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		model      string
		wantFamily string
		wantGen    *int
	}{
		{"i5 with ordinal", "Intel Core i5 11th gen", FamilyCoreI5, intp(11)},
		{"i3 no digits", "Core i3", FamilyCoreI3, nil},
		{"i3 old ordinal", "Core i3 8th gen", FamilyCoreI3, intp(8)},
		{"tiger lake sku", "Intel Core i5-1135G7", FamilyCoreI5, intp(11)},
		{"kaby refresh sku", "i7-8550U", FamilyCoreI7, intp(8)},
		{"five digit sku", "Intel Core i9-13900K", FamilyCoreI9, intp(13)},
		{"three digit sku", "Intel Core i5 650", FamilyCoreI5, intp(1)},
		{"celeron", "Intel Celeron N4000", FamilyCeleron, nil},
		{"pentium gold", "Pentium Gold G7400", FamilyPentium, nil},
		{"atom", "Intel Atom x5-Z8350", FamilyAtom, nil},
		{"ryzen without marker", "AMD Ryzen 5 5600X", FamilyRyzen5, nil},
		{"ryzen with marker", "AMD Ryzen 7 4ta gen", FamilyRyzen7, intp(4)},
		{"xeon", "Intel Xeon E5-2680", FamilyXeon, nil},
		{"apple m2", "Apple M2", FamilyAppleM2, nil},
		{"spanish ordinal", "Core i3 10ª generación", FamilyCoreI3, intp(10)},
		{"gen prefix", "core i5 gen 12", FamilyCoreI5, intp(12)},
		{"bare ordinal", "Core i7 13th", FamilyCoreI7, intp(13)},
		{"empty", "", "", nil},
		{"unrecognized", "Snapdragon 8cx", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseProcessor(tc.model)
			if got.Family != tc.wantFamily {
				t.Errorf("family = %q, want %q", got.Family, tc.wantFamily)
			}
			switch {
			case tc.wantGen == nil && got.Generation != nil:
				t.Errorf("generation = %d, want unknown", *got.Generation)
			case tc.wantGen != nil && got.Generation == nil:
				t.Errorf("generation unknown, want %d", *tc.wantGen)
			case tc.wantGen != nil && got.Generation != nil && *got.Generation != *tc.wantGen:
				t.Errorf("generation = %d, want %d", *got.Generation, *tc.wantGen)
			}
		})
	}
}

// Unknown generation must stay nil; it is never represented as zero.
func TestParseProcessorUnknownIsNotZero(t *testing.T) {
	t.Parallel()

	got := ParseProcessor("Core i3")
	if got.Generation != nil {
		t.Fatalf("expected nil generation, got %d", *got.Generation)
	}
}
