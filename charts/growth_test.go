package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/giygas/pedcalc-api/reference/entities"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func testStandard() *entities.GrowthStandard {
	boys := []entities.Curve{
		{Percentile: 3, Values: []float64{2.5, 3.4, 4.4, 5.1}},
		{Percentile: 50, Values: []float64{3.3, 4.5, 5.6, 6.4}},
		{Percentile: 97, Values: []float64{4.3, 5.7, 7.0, 7.9}},
	}
	return &entities.GrowthStandard{
		Name:     "who",
		Title:    "WHO 0-24 months",
		AgeUnit:  "months",
		Measures: map[string]map[string][]entities.Curve{entities.MeasureWeight: {entities.SexMale: boys}},
	}
}

func TestRenderGrowthWithPatient(t *testing.T) {
	var buf bytes.Buffer
	result, err := RenderGrowth(&buf, GrowthRequest{
		Standard: testStandard(),
		Measure:  entities.MeasureWeight,
		Sex:      entities.SexMale,
		Age:      2.2,
		Value:    5.0,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result == nil {
		t.Fatal("Expected a classification for the overlay, got nil")
	}
	if result.Index != 2 {
		t.Errorf("Expected the nearest tabulated age index 2, got %d", result.Index)
	}

	html := buf.String()
	for _, want := range []string{"<html", "echarts", "WHO 0-24 months", "Patient", "P97"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected rendered page to contain %q", want)
		}
	}
}

func TestRenderGrowthWithoutPatient(t *testing.T) {
	var buf bytes.Buffer
	result, err := RenderGrowth(&buf, GrowthRequest{
		Standard: testStandard(),
		Measure:  entities.MeasureWeight,
		Sex:      entities.SexMale,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no classification without a value, got %+v", result)
	}
	if strings.Contains(buf.String(), "Patient") {
		t.Error("Expected no patient series")
	}
}

func TestRenderGrowthNoCurves(t *testing.T) {
	tests := []struct {
		name    string
		measure string
		sex     string
	}{
		{"unknown measure", "bmi", entities.SexMale},
		{"missing sex", entities.MeasureWeight, entities.SexFemale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := RenderGrowth(&buf, GrowthRequest{Standard: testStandard(), Measure: tt.measure, Sex: tt.sex})
			if !errors.Is(err, ErrNoCurves) {
				t.Errorf("Expected ErrNoCurves, got %v", err)
			}
			if buf.Len() != 0 {
				t.Error("Expected nothing to be written")
			}
		})
	}
}

func TestBuildGrowthChartSeries(t *testing.T) {
	std := testStandard()
	curves := std.Curves(entities.MeasureWeight, entities.SexMale)
	req := GrowthRequest{Standard: std, Measure: entities.MeasureWeight, Sex: entities.SexMale, Age: 1, Value: 8.5}

	var buf bytes.Buffer
	result, err := RenderGrowth(&buf, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	line := buildGrowthChart(req, curves, result)

	if len(line.MultiSeries) != 4 {
		t.Fatalf("Expected 3 curves and the patient series, got %d", len(line.MultiSeries))
	}
	names := []string{"P3", "P50", "P97", "Patient"}
	for i, want := range names {
		if line.MultiSeries[i].Name != want {
			t.Errorf("Expected series %d to be %s, got %s", i, want, line.MultiSeries[i].Name)
		}
	}

	patient, ok := line.MultiSeries[3].Data.([]opts.LineData)
	if !ok {
		t.Fatalf("Expected line data, got %T", line.MultiSeries[3].Data)
	}
	for i, d := range patient {
		if i == 1 {
			if d.Value != 8.5 {
				t.Errorf("Expected patient value 8.5 at index 1, got %v", d.Value)
			}
			continue
		}
		if d.Value != missing {
			t.Errorf("Expected a gap at index %d, got %v", i, d.Value)
		}
	}

	if line.Title.Subtitle != "male weight: >97th percentile" {
		t.Errorf("Expected subtitle with the band, got %q", line.Title.Subtitle)
	}
	if got := line.YAxisList[0].Max; got != 9.0 {
		t.Errorf("Expected the y axis to include the patient value, got max %v", got)
	}
}

func TestAxisRounding(t *testing.T) {
	if got := floorTo(2.5); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
	if got := ceilTo(7.9); got != 8 {
		t.Errorf("Expected 8, got %v", got)
	}
	if got := ceilTo(8); got != 8 {
		t.Errorf("Expected 8, got %v", got)
	}
}
