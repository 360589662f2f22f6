// Package reference loads the numeric tables used by the calculators: the
// drug formulary, growth standards, blood pressure percentiles and jaundice
// thresholds.
//
// Every table ships embedded in the binary. An override directory can
// replace any of them, and a formulary TSV (local or downloaded) can add or
// replace drugs.
package reference

import "embed"

// File names looked up in the embedded defaults and in the override directory.
const (
	FormularyFile  = "formulary.json"
	FormularyTSV   = "formulary.tsv"
	GrowthWHOFile  = "growth_who.json"
	GrowthCDCFile  = "growth_cdc.json"
	BPFile         = "bp_pediatric.json"
	NeonatalBPFile = "neonatal_bp.json"
	JaundiceFile   = "jaundice.json"
)

//go:embed defaults/*.json
var defaultFS embed.FS

const (
	defaultsDir    = "defaults"
	originEmbedded = "embedded"
)
