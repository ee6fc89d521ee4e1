package analyzer

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/rvelez/cmend/pkg/models"
)

// Registry accepts defect records from all passes, silently dropping
// duplicates. Identity is the (line, category, message) triple.
type Registry struct {
	defects []models.DefectRecord
	seen    map[uint64]bool
	lines   int
}

// NewRegistry creates a registry for a file with the given line count.
func NewRegistry(lines int) *Registry {
	return &Registry{
		seen:  make(map[uint64]bool),
		lines: lines,
	}
}

// Add appends a record unless an identical one was already reported.
// Out-of-range line numbers are clamped into the file.
func (r *Registry) Add(d models.DefectRecord) {
	if d.Line < 1 {
		d.Line = 1
	}
	if r.lines > 0 && d.Line > r.lines {
		d.Line = r.lines
	}
	key := fingerprint(d)
	if r.seen[key] {
		return
	}
	r.seen[key] = true
	r.defects = append(r.defects, d)
}

// Len returns the number of distinct records so far.
func (r *Registry) Len() int { return len(r.defects) }

// Result returns the final snapshot: records sorted ascending by line,
// ties preserving insertion (pass) order.
func (r *Registry) Result() *models.AnalysisResult {
	out := make([]models.DefectRecord, len(r.defects))
	copy(out, r.defects)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })

	summary := models.NewAnalysisSummary()
	for _, d := range out {
		summary.Add(d)
	}
	return &models.AnalysisResult{Defects: out, Summary: summary, Lines: r.lines}
}

// fingerprint hashes the dedup key. xxhash keeps the map key fixed-size
// instead of concatenated strings.
func fingerprint(d models.DefectRecord) uint64 {
	h := xxhash.New()
	h.WriteString(strconv.Itoa(d.Line))
	h.WriteString("\x00")
	h.WriteString(string(d.Category))
	h.WriteString("\x00")
	h.WriteString(d.Message)
	return h.Sum64()
}
