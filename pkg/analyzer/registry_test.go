package analyzer

import (
	"testing"

	"github.com/rvelez/cmend/pkg/models"
)

func TestRegistryDeduplicates(t *testing.T) {
	reg := NewRegistry(10)
	d := models.DefectRecord{
		Category: models.CategoryUnusedVariable,
		Severity: models.SeverityWarning,
		Line:     4,
		Message:  "variable 'x' is declared but never used",
	}
	reg.Add(d)
	reg.Add(d)
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d after duplicate Add, want 1", reg.Len())
	}

	// Same line and category but a different message is a distinct record.
	d.Message = "variable 'y' is declared but never used"
	reg.Add(d)
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistryClampsLines(t *testing.T) {
	reg := NewRegistry(10)
	reg.Add(models.DefectRecord{Category: models.CategoryUnreachableCode, Line: 0, Message: "a"})
	reg.Add(models.DefectRecord{Category: models.CategoryUnreachableCode, Line: 99, Message: "b"})

	res := reg.Result()
	if res.Defects[0].Line != 1 {
		t.Errorf("low line clamped to %d, want 1", res.Defects[0].Line)
	}
	if res.Defects[1].Line != 10 {
		t.Errorf("high line clamped to %d, want 10", res.Defects[1].Line)
	}
	if res.Lines != 10 {
		t.Errorf("Lines = %d, want 10", res.Lines)
	}
}

func TestRegistryResultOrder(t *testing.T) {
	reg := NewRegistry(20)
	reg.Add(models.DefectRecord{Category: models.CategoryInfiniteLoop, Line: 9, Message: "c"})
	reg.Add(models.DefectRecord{Category: models.CategoryMissingSemicolon, Line: 2, Message: "a"})
	reg.Add(models.DefectRecord{Category: models.CategorySelfAssignment, Line: 9, Message: "b"})

	res := reg.Result()
	lines := []int{2, 9, 9}
	for i, want := range lines {
		if res.Defects[i].Line != want {
			t.Errorf("Defects[%d].Line = %d, want %d", i, res.Defects[i].Line, want)
		}
	}
	// Equal lines keep insertion order.
	if res.Defects[1].Message != "c" || res.Defects[2].Message != "b" {
		t.Errorf("tie order broken: %v", res.Defects)
	}
	if res.Summary.TotalDefects != 3 {
		t.Errorf("TotalDefects = %d, want 3", res.Summary.TotalDefects)
	}
}
