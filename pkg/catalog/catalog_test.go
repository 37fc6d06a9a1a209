package catalog

import (
	"testing"

	"github.com/kuriosis/wallbuilder/pkg/errors"
)

const sampleEncoded = "S - 29.7 x 42cm (A3)|225g Fine Art Paper:29.99|12345;" +
	"S - 29.7 x 42cm (A3)|400g Cotton Canvas:33.99|67890;" +
	"L - 70 x 100.0cm|225g Fine Art Paper:49.99|11111;" +
	"L - 70 x 100.0cm|400g Cotton Canvas:54.99|22222"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    int
		check   func(t *testing.T, vs []Variant)
	}{
		{
			name:    "Empty",
			encoded: "",
			want:    0,
		},
		{
			name:    "Sample",
			encoded: sampleEncoded,
			want:    4,
			check: func(t *testing.T, vs []Variant) {
				if vs[0].SizeKey != "29.7x42" {
					t.Errorf("SizeKey = %q, want 29.7x42", vs[0].SizeKey)
				}
				if vs[0].PriceMinor != 2999 {
					t.Errorf("PriceMinor = %d, want 2999", vs[0].PriceMinor)
				}
				if vs[0].VariantID != "12345" {
					t.Errorf("VariantID = %q, want 12345", vs[0].VariantID)
				}
				if vs[2].SizeKey != "70x100" {
					t.Errorf("SizeKey = %q, want 70x100", vs[2].SizeKey)
				}
			},
		},
		{
			name:    "MalformedEntriesSkipped",
			encoded: "garbage;70x100|Canvas:19.99|111;also-garbage:;|:|",
			want:    1,
			check: func(t *testing.T, vs []Variant) {
				if vs[0].VariantID != "111" {
					t.Errorf("VariantID = %q, want 111", vs[0].VariantID)
				}
			},
		},
		{
			name:    "CommaDecimalPrice",
			encoded: "70x100|Canvas:54,99|42",
			want:    1,
			check: func(t *testing.T, vs []Variant) {
				if vs[0].PriceMinor != 5499 {
					t.Errorf("PriceMinor = %d, want 5499", vs[0].PriceMinor)
				}
			},
		},
		{
			name:    "UnparseablePriceSkipped",
			encoded: "70x100|Canvas:free|42",
			want:    0,
		},
		{
			name:    "MissingVariantIDSkipped",
			encoded: "70x100|Canvas:19.99|",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := Parse(tt.encoded)
			if len(vs) != tt.want {
				t.Fatalf("Parse returned %d variants, want %d", len(vs), tt.want)
			}
			if tt.check != nil {
				tt.check(t, vs)
			}
		})
	}
}

func TestFind(t *testing.T) {
	ix := ParseIndex(sampleEncoded)

	tests := []struct {
		name     string
		size     string
		material string
		wantID   string
		wantErr  bool
	}{
		{"ExactSmallPaper", "29.7x42", "225g Fine Art Paper", "12345", false},
		{"ExactLargeCanvas", "70x100", "400g Cotton Canvas", "22222", false},
		{"LabelledSizeInput", "S - 29.7 x 42cm (A3)", "Fine Art Paper", "12345", false},
		{"MaterialDrift", "70x100", "cotton-canvas", "22222", false},
		{"MaterialContainsOtherWay", "70x100", "Extra Premium 400g Cotton Canvas Deluxe", "22222", false},
		{"NoMaterialFirstSizeWins", "70x100", "", "11111", false},
		{"SizeMiss", "30x40", "400g Cotton Canvas", "", true},
		{"MaterialMiss", "70x100", "Aluminium", "", true},
		{"UnparseableSize", "One size", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ix.Find(tt.size, tt.material)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Find(%q, %q) succeeded with %v, want error", tt.size, tt.material, v)
				}
				if !errors.Is(err, errors.ErrCodeVariantNotFound) {
					t.Errorf("error code = %v, want VARIANT_NOT_FOUND", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Find(%q, %q): %v", tt.size, tt.material, err)
			}
			if v.VariantID != tt.wantID {
				t.Errorf("VariantID = %q, want %q", v.VariantID, tt.wantID)
			}
		})
	}
}

// Every entry that Parse accepts must be findable again with its own labels
// and return its own price and id.
func TestParseFindRoundTrip(t *testing.T) {
	for _, v := range Parse(sampleEncoded) {
		got, err := ParseIndex(sampleEncoded).Find(v.SizeLabel, v.MaterialLabel)
		if err != nil {
			t.Fatalf("Find(%q, %q): %v", v.SizeLabel, v.MaterialLabel, err)
		}
		if got.VariantID != v.VariantID || got.PriceMinor != v.PriceMinor {
			t.Errorf("Find(%q, %q) = %s/%d, want %s/%d",
				v.SizeLabel, v.MaterialLabel, got.VariantID, got.PriceMinor, v.VariantID, v.PriceMinor)
		}
	}
}

func TestFindOrFirst(t *testing.T) {
	ix := ParseIndex(sampleEncoded)

	// Hit resolves normally.
	v, ok := ix.FindOrFirst("70x100", "cotton-canvas")
	if !ok || v.VariantID != "22222" {
		t.Errorf("FindOrFirst hit = %v/%v, want 22222/true", v.VariantID, ok)
	}

	// Miss degrades to the first record rather than dangling.
	v, ok = ix.FindOrFirst("500x500", "Marble")
	if !ok || v.VariantID != "12345" {
		t.Errorf("FindOrFirst miss = %v/%v, want 12345/true", v.VariantID, ok)
	}

	// Empty index cannot fall back.
	if _, ok := NewIndex(nil).FindOrFirst("70x100", ""); ok {
		t.Error("FindOrFirst on empty index should report !ok")
	}
}

func TestSizeKeys(t *testing.T) {
	got := ParseIndex(sampleEncoded).SizeKeys()
	want := []string{"29.7x42", "70x100"}
	if len(got) != len(want) {
		t.Fatalf("SizeKeys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SizeKeys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
