package models

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cms-acad/acadbot_backend/config"
)

// ExcelRoster reads the enrollment workbook. Only the first sheet is used,
// matching how the registrar exports the file.
type ExcelRoster struct {
	Path string
}

// Load opens the workbook and returns the header row (logging and admin
// reports only) plus all data rows as classified cells.
func (r ExcelRoster) Load() (headers []string, rows [][]CellValue, err error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("ouverture du fichier Excel: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("lecture de la feuille %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}

	headers = raw[0]
	rows = make([][]CellValue, 0, len(raw)-1)
	for _, rawRow := range raw[1:] {
		row := make([]CellValue, len(rawRow))
		for i, cell := range rawRow {
			row[i] = ClassifyCell(cell)
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// LoadCatalog builds the matricule catalog from the workbook. An unreadable
// or missing file degrades to an empty catalog; the bot keeps running and an
// admin can fix the file and !reload.
func LoadCatalog(path string, cm ColumnMap) (Catalog, []string) {
	logger := config.GetLogger()

	headers, rows, err := ExcelRoster{Path: path}.Load()
	if err != nil {
		config.LogError(logger, "models/roster_excel.go", "LoadCatalog", "load workbook",
			map[string]any{"path": path}, err)
		return make(Catalog), nil
	}

	logger.WithField("headers", headers).Info("en-têtes du fichier Excel")

	catalog, rejections := BuildCatalog(rows, cm)
	logger.WithField("count", catalog.Len()).Info("matricules valides chargés")
	if len(rejections) > 0 {
		sample := rejections
		if len(sample) > 5 {
			sample = sample[:5]
		}
		logger.WithField("rejets", sample).Info("exemples de rejets")
	}
	return catalog, rejections
}
