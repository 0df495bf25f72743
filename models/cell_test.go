package models_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cms-acad/acadbot_backend/models"
)

func TestClassifyCell(t *testing.T) {
	cases := []struct {
		raw  string
		kind models.CellKind
	}{
		{"", models.CellAbsent},
		{"   ", models.CellAbsent},
		{"B", models.CellText},
		{"Programmation Web", models.CellText},
		{"212231455913", models.CellNumber},
		{"212231455913.0", models.CellNumber},
		{"2.12231455913E+11", models.CellNumber},
	}
	for _, c := range cases {
		got := models.ClassifyCell(c.raw)
		if got.Kind != c.kind {
			t.Fatalf("ClassifyCell(%q): kind = %d, want %d", c.raw, got.Kind, c.kind)
		}
	}
}

func TestNormalizeMatricule_NumberCells(t *testing.T) {
	// The registrar's export stores matricules as floats; 212231455913.0
	// must come back as the exact digit string.
	cases := []string{"212231455913", "212231455913.0", "2.12231455913E+11"}
	for _, raw := range cases {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			t.Fatalf("decimal.NewFromString(%q): %v", raw, err)
		}
		got := models.NormalizeMatricule(models.NumberCell(d))
		if got != "212231455913" {
			t.Fatalf("NormalizeMatricule(%q) = %q, want 212231455913", raw, got)
		}
	}
}

func TestNormalizeMatricule_TextCells(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{" 123-abc ", "123"},
		{"MAT 2122/31", "212231"},
		{"abc", ""},
		{"", ""},
	}
	for _, c := range cases {
		got := models.NormalizeMatricule(models.TextCell(c.in))
		if got != c.want {
			t.Fatalf("NormalizeMatricule(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeMatricule_AbsentCell(t *testing.T) {
	if got := models.NormalizeMatricule(models.AbsentCell()); got != "" {
		t.Fatalf("NormalizeMatricule(absent) = %q, want empty", got)
	}
}
