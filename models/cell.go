package models

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellAbsent CellKind = iota
	CellText
	CellNumber
)

// CellValue is one spreadsheet cell as handed over by the roster loader.
// Numbers are kept as decimals so float-formatted matricules
// (212231455913.0, or scientific notation from the sheet) survive intact.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
}

func AbsentCell() CellValue {
	return CellValue{Kind: CellAbsent}
}

func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

func NumberCell(d decimal.Decimal) CellValue {
	return CellValue{Kind: CellNumber, Number: d}
}

// ClassifyCell turns a raw sheet string into a CellValue.
// Empty or whitespace-only cells count as absent.
func ClassifyCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return AbsentCell()
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		return NumberCell(d)
	}
	return TextCell(raw)
}

// NormalizeMatricule reduces a cell to the digits-only identifier string.
// Number cells are truncated to their integer part; text cells keep only
// digit runes. Empty result means the row carries no usable matricule.
func NormalizeMatricule(cell CellValue) string {
	switch cell.Kind {
	case CellNumber:
		return cell.Number.Truncate(0).String()
	case CellText:
		var b strings.Builder
		for _, r := range cell.Text {
			if unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	default:
		return ""
	}
}

// StringValue renders the cell the way the sheet displayed it, for
// diagnostics and admin reports.
func (c CellValue) StringValue() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellText:
		return c.Text
	default:
		return ""
	}
}
