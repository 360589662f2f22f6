package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/giygas/pedcalc-api/interfaces"
	"github.com/giygas/pedcalc-api/logging"
	"github.com/giygas/pedcalc-api/reference/entities"
)

// Compile-time check to ensure Loader implements the Loader interface
var _ interfaces.Loader = (*Loader)(nil)

// Loader assembles a Dataset from the embedded defaults, an optional override
// directory and an optional formulary download.
type Loader struct {
	dir          string
	formularyURL string
	client       *http.Client
	now          func() time.Time
}

// NewLoader creates a loader. Both arguments may be empty.
func NewLoader(dir, formularyURL string) *Loader {
	return &Loader{
		dir:          dir,
		formularyURL: formularyURL,
		client:       newHTTPClient(),
		now:          time.Now,
	}
}

// Load reads every table and returns a new dataset. The caller is expected
// to validate it before publishing.
func (l *Loader) Load(ctx context.Context) (*entities.Dataset, error) {
	ds := &entities.Dataset{Growth: make(map[string]*entities.GrowthStandard)}

	origin, err := l.readJSON(FormularyFile, &ds.Formulary)
	if err != nil {
		return nil, err
	}
	ds.Sources = append(ds.Sources, entities.Source{Table: "formulary", Origin: origin, Rows: len(ds.Formulary.Drugs)})

	if err := l.loadFormularyTSV(ctx, ds); err != nil {
		return nil, err
	}

	for _, name := range []string{GrowthWHOFile, GrowthCDCFile} {
		std := new(entities.GrowthStandard)
		origin, err := l.readJSON(name, std)
		if err != nil {
			return nil, err
		}
		if std.Name == "" {
			return nil, fmt.Errorf("growth standard %s has no name", name)
		}
		ds.Growth[std.Name] = std
		ds.Sources = append(ds.Sources, entities.Source{Table: "growth_" + std.Name, Origin: origin, Rows: growthRows(std)})
	}

	bp := new(entities.BPTable)
	if origin, err = l.readJSON(BPFile, bp); err != nil {
		return nil, err
	}
	ds.BP = bp
	ds.Sources = append(ds.Sources, entities.Source{Table: "bp_pediatric", Origin: origin, Rows: len(bp.Sexes)})

	neonatal := new(entities.NeonatalBPTable)
	if origin, err = l.readJSON(NeonatalBPFile, neonatal); err != nil {
		return nil, err
	}
	ds.NeonatalBP = neonatal
	ds.Sources = append(ds.Sources, entities.Source{
		Table:  "neonatal_bp",
		Origin: origin,
		Rows:   len(neonatal.DayOne) + len(neonatal.PostConceptional),
	})

	jaundice := new(entities.JaundiceTable)
	if origin, err = l.readJSON(JaundiceFile, jaundice); err != nil {
		return nil, err
	}
	ds.Jaundice = jaundice
	ds.Sources = append(ds.Sources, entities.Source{Table: "jaundice", Origin: origin, Rows: len(jaundice.Categories)})

	sortDrugs(ds.Formulary.Drugs)
	ds.LoadedAt = l.now()
	ds.BuildIndex()

	logging.Info("Reference data loaded",
		"drugs", len(ds.Formulary.Drugs),
		"growth_standards", len(ds.Growth),
		"override_dir", l.dir)
	return ds, nil
}

// sortDrugs orders the formulary by name, ignoring case, so TSV additions
// land in place rather than at the end.
func sortDrugs(drugs []entities.Drug) {
	slices.SortStableFunc(drugs, func(a, b entities.Drug) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// readJSON decodes name from the override directory when it exists there,
// otherwise from the embedded defaults. It returns where the table came from.
func (l *Loader) readJSON(name string, v any) (string, error) {
	data, origin, err := l.readFile(name)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", origin, err)
	}
	return origin, nil
}

func (l *Loader) readFile(name string) ([]byte, string, error) {
	if l.dir != "" {
		p := filepath.Join(l.dir, name)
		data, err := os.ReadFile(filepath.Clean(p))
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to read %s: %w", p, err)
		}
	}

	data, err := defaultFS.ReadFile(path.Join(defaultsDir, name))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	return data, originEmbedded, nil
}

// loadFormularyTSV merges the override directory TSV and then the
// downloaded one into the formulary.
func (l *Loader) loadFormularyTSV(ctx context.Context, ds *entities.Dataset) error {
	if l.dir != "" {
		p := filepath.Join(l.dir, FormularyTSV)
		data, err := os.ReadFile(filepath.Clean(p))
		switch {
		case err == nil:
			drugs, _, err := ParseFormularyTSV(decodeText(data), p)
			if err != nil {
				return err
			}
			ds.Formulary.Drugs = mergeDrugs(ds.Formulary.Drugs, drugs)
			ds.Sources = append(ds.Sources, entities.Source{Table: "formulary_tsv", Origin: p, Rows: len(drugs)})
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
	}

	if l.formularyURL == "" {
		return nil
	}

	reader, err := download(ctx, l.client, l.formularyURL)
	if err != nil {
		return err
	}
	drugs, _, err := ParseFormularyTSV(reader, l.formularyURL)
	if err != nil {
		return err
	}
	if len(drugs) == 0 {
		return fmt.Errorf("formulary download %s contained no drugs", l.formularyURL)
	}
	ds.Formulary.Drugs = mergeDrugs(ds.Formulary.Drugs, drugs)
	ds.Sources = append(ds.Sources, entities.Source{Table: "formulary_download", Origin: l.formularyURL, Rows: len(drugs)})
	return nil
}

func growthRows(std *entities.GrowthStandard) int {
	rows := 0
	for _, bySex := range std.Measures {
		for _, curves := range bySex {
			if len(curves) > 0 {
				rows += len(curves[0].Values)
			}
		}
	}
	return rows
}
