package models

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cms-acad/acadbot_backend/config"
)

// ColumnMap holds the fixed zero-based offsets of the three columns the
// validation rules read. Values come from config and never change while
// the process runs.
type ColumnMap struct {
	MatriculeCol int
	ProgramCol   int
	SectionCol   int
}

// Both program fragments must appear (substring, case-insensitive) for a
// row to validate; the section cell must equal SectionRequired after
// trim+uppercase.
const (
	ProgramFragmentWeb = "programmation web"
	ProgramFragmentIA  = "introduction à l'ia"
	SectionRequired    = "B"
)

type ExtractionStatus int

const (
	// ExtractionSkipped rows carry no matricule at all; they are ignored,
	// not counted as invalid.
	ExtractionSkipped ExtractionStatus = iota
	ExtractionInvalid
	ExtractionValid
)

// Extraction is the per-row result of applying the validation rules.
type Extraction struct {
	Status    ExtractionStatus
	Matricule string
	Reason    string
}

func cellAt(row []CellValue, idx int) CellValue {
	if idx < 0 || idx >= len(row) {
		return AbsentCell()
	}
	return row[idx]
}

// ExtractRow applies the matricule/program/section rules to one data row.
func ExtractRow(row []CellValue, cm ColumnMap) Extraction {
	matricule := NormalizeMatricule(cellAt(row, cm.MatriculeCol))
	if matricule == "" {
		return Extraction{Status: ExtractionSkipped}
	}

	program := strings.ToLower(strings.TrimSpace(cellAt(row, cm.ProgramCol).StringValue()))
	section := strings.ToUpper(strings.TrimSpace(cellAt(row, cm.SectionCol).StringValue()))

	if program == "" {
		return Extraction{
			Status:    ExtractionInvalid,
			Matricule: matricule,
			Reason:    "programme vide",
		}
	}
	if !strings.Contains(program, ProgramFragmentWeb) || !strings.Contains(program, ProgramFragmentIA) {
		return Extraction{
			Status:    ExtractionInvalid,
			Matricule: matricule,
			Reason:    fmt.Sprintf("programme incorrect: %s", truncateForLog(program, 50)),
		}
	}
	if section != SectionRequired {
		return Extraction{
			Status:    ExtractionInvalid,
			Matricule: matricule,
			Reason:    fmt.Sprintf("section incorrecte: '%s' (attendu '%s')", section, SectionRequired),
		}
	}

	return Extraction{Status: ExtractionValid, Matricule: matricule}
}

func truncateForLog(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Catalog is the set of matricules eligible for the role. Immutable once
// built; rebuilds produce a fresh Catalog swapped in via CatalogHolder.
type Catalog map[string]struct{}

func (c Catalog) Contains(matricule string) bool {
	_, ok := c[matricule]
	return ok
}

func (c Catalog) Len() int { return len(c) }

// BuildCatalog runs ExtractRow over every data row (header excluded by the
// caller) and collects the valid set plus "{matricule}: {reason}" rejection
// entries for diagnostics. Duplicate valid matricules collapse silently.
// A panic while handling one row is contained to that row.
func BuildCatalog(rows [][]CellValue, cm ColumnMap) (Catalog, []string) {
	logger := config.GetLogger()
	catalog := make(Catalog)
	var rejections []string

	for i, row := range rows {
		ext := extractRowSafe(row, cm, i)
		switch ext.Status {
		case ExtractionValid:
			catalog[ext.Matricule] = struct{}{}
			if debug := config.DebugMatricule(); debug != "" && ext.Matricule == debug {
				logger.WithField("matricule", ext.Matricule).Info("matricule accepté (debug)")
			}
		case ExtractionInvalid:
			rejections = append(rejections, fmt.Sprintf("%s: %s", ext.Matricule, ext.Reason))
			if debug := config.DebugMatricule(); debug != "" && ext.Matricule == debug {
				logger.WithField("matricule", ext.Matricule).Warn("matricule rejeté (debug): " + ext.Reason)
			}
		}
	}

	return catalog, rejections
}

func extractRowSafe(row []CellValue, cm ColumnMap, rowIdx int) (ext Extraction) {
	defer func() {
		if r := recover(); r != nil {
			config.LogError(config.GetLogger(), "models/roster.go", "BuildCatalog",
				"extract row", map[string]any{"row": rowIdx + 2}, fmt.Errorf("panic: %v", r))
			ext = Extraction{Status: ExtractionSkipped}
		}
	}()
	return ExtractRow(row, cm)
}

// CatalogHolder publishes the current Catalog snapshot. Rebuilds replace
// the whole set in one store; in-flight readers see either the old or the
// new snapshot, never a partial one.
type CatalogHolder struct {
	current atomic.Pointer[Catalog]
}

func NewCatalogHolder(initial Catalog) *CatalogHolder {
	h := &CatalogHolder{}
	h.Swap(initial)
	return h
}

func (h *CatalogHolder) Get() Catalog {
	p := h.current.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (h *CatalogHolder) Swap(c Catalog) {
	if c == nil {
		c = make(Catalog)
	}
	h.current.Store(&c)
}
