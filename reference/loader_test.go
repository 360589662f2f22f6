package reference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/pedcalc-api/reference/entities"
	"golang.org/x/text/encoding/charmap"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	ds, err := NewLoader("", "").Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(ds.Formulary.Drugs) != 105 {
		t.Errorf("Expected 105 drugs, got %d", len(ds.Formulary.Drugs))
	}
	if _, ok := ds.Drug("amoxicillin"); !ok {
		t.Error("Expected amoxicillin in the drug index")
	}
	assertSortedByName(t, ds.Formulary.Drugs)
	for _, name := range []string{"who", "cdc"} {
		if _, ok := ds.GrowthStandard(name); !ok {
			t.Errorf("Expected growth standard %s", name)
		}
	}
	if ds.BP == nil || ds.NeonatalBP == nil || ds.Jaundice == nil {
		t.Fatal("Expected every table to be loaded")
	}
	if len(ds.Jaundice.Categories) != 8 {
		t.Errorf("Expected 8 jaundice categories, got %d", len(ds.Jaundice.Categories))
	}
	if len(ds.Sources) != 6 {
		t.Errorf("Expected 6 sources, got %d", len(ds.Sources))
	}
	for _, src := range ds.Sources {
		if src.Origin != originEmbedded {
			t.Errorf("Expected %s from embedded defaults, got %s", src.Table, src.Origin)
		}
	}
	if ds.LoadedAt.IsZero() {
		t.Error("Expected load time to be set")
	}
}

func TestLoadOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	jaundice := `{"unit":"umol/L","categories":[{"key":">=38wk_low_risk","phototherapy":[100],"exchange":[200]}]}`
	if err := os.WriteFile(filepath.Join(dir, JaundiceFile), []byte(jaundice), 0600); err != nil {
		t.Fatal(err)
	}
	tsv := "amoxicillin\tAmoxicillin\tAntibiotic\tPO\tstandard\tStandard\t30\tmg/kg/day divided q8h\t2 g/day\n" +
		"newdrug\tNew drug\tOther\tPO\tstandard\tStandard\t1\tmg/kg\t\n"
	if err := os.WriteFile(filepath.Join(dir, FormularyTSV), []byte(tsv), 0600); err != nil {
		t.Fatal(err)
	}

	ds, err := NewLoader(dir, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(ds.Jaundice.Categories) != 1 {
		t.Errorf("Expected the override jaundice table, got %d categories", len(ds.Jaundice.Categories))
	}
	if len(ds.Formulary.Drugs) != 106 {
		t.Errorf("Expected 106 drugs, got %d", len(ds.Formulary.Drugs))
	}
	amox, ok := ds.Drug("amoxicillin")
	if !ok || amox.Max != "2 g/day" || len(amox.Doses) != 1 {
		t.Errorf("Expected amoxicillin replaced by the TSV row, got %+v", amox)
	}
	if _, ok := ds.Drug("newdrug"); !ok {
		t.Error("Expected newdrug in the drug index")
	}
}

func TestLoadOverrideDirectoryInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BPFile), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader(dir, "").Load(context.Background()); err == nil {
		t.Error("Expected an error for an invalid override file")
	}
}

func TestLoadFormularyDownload(t *testing.T) {
	// "Céfotaxime" encoded as ISO-8859-1
	latin1, err := charmap.ISO8859_1.NewEncoder().String(
		"cefotaxime\tCéfotaxime\tAntibiotic\tIV\tstandard\tStandard\t50\tmg/kg/dose q8h\t2 g/dose\n")
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/tab-separated-values")
		_, _ = w.Write([]byte(latin1))
	}))
	defer server.Close()

	ds, err := NewLoader("", server.URL).Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	drug, ok := ds.Drug("cefotaxime")
	if !ok {
		t.Fatal("Expected downloaded drug in the index")
	}
	if drug.Name != "Céfotaxime" {
		t.Errorf("Expected Céfotaxime, got %q", drug.Name)
	}

	// Downloaded drugs are merged into name order, not appended
	if last := ds.Formulary.Drugs[len(ds.Formulary.Drugs)-1]; last.ID == "cefotaxime" {
		t.Error("Expected cefotaxime sorted into the formulary, found it last")
	}
	assertSortedByName(t, ds.Formulary.Drugs)
}

func assertSortedByName(t *testing.T, drugs []entities.Drug) {
	t.Helper()
	for i := 1; i < len(drugs); i++ {
		prev, cur := strings.ToLower(drugs[i-1].Name), strings.ToLower(drugs[i].Name)
		if prev > cur {
			t.Fatalf("Expected drugs sorted by name, got %q before %q", drugs[i-1].Name, drugs[i].Name)
		}
	}
}

func TestSortDrugs(t *testing.T) {
	drugs := []entities.Drug{
		{ID: "vancomycin", Name: "Vancomycin"},
		{ID: "amoxicillin", Name: "amoxicillin"},
		{ID: "ceftriaxone", Name: "Ceftriaxone"},
		{ID: "acyclovir", Name: "Acyclovir"},
	}
	sortDrugs(drugs)

	expected := []string{"acyclovir", "amoxicillin", "ceftriaxone", "vancomycin"}
	for i, id := range expected {
		if drugs[i].ID != id {
			t.Errorf("Expected %s at %d, got %s", id, i, drugs[i].ID)
		}
	}
}

func TestLoadFormularyDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewLoader("", server.URL).Load(context.Background()); err == nil {
		t.Error("Expected an error when the download fails")
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"utf8 untouched", []byte("Céfotaxime"), "Céfotaxime"},
		{"latin1 decoded", []byte{'C', 0xe9, 'f'}, "Céf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := io.ReadAll(decodeText(tt.input))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := string(out); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
