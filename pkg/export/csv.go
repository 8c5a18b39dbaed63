package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// csvHeader is the fixed column order of the CSV export.
var csvHeader = []string{
	"Name", "Manufacturer", "Model", "Category", "Room", "Home",
	"Setup Code", "Code Location", "Reachable", "Last Seen", "Notes",
}

// WriteCSV renders both lists as CSV: one row per accessory with its
// joined code, then one row per unmatched code with blank structural
// fields.
func WriteCSV(w io.Writer, accessories []model.AccessoryRecord, codes []model.SetupCodeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	pairs, orphans := JoinCodes(accessories, codes)
	for _, pair := range pairs {
		if err := cw.Write(accessoryRow(pair)); err != nil {
			return err
		}
	}
	for _, code := range orphans {
		if err := cw.Write(orphanRow(code)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func accessoryRow(pair Pair) []string {
	acc := pair.Accessory

	setupCode := acc.SetupCode
	location := ""
	notes := ""
	if pair.Code != nil {
		setupCode = pair.Code.Code
		location = pair.Code.LocationHint
		notes = pair.Code.Notes
	}

	return []string{
		acc.Name, acc.Manufacturer, acc.Model, acc.Category, acc.Room, acc.Home,
		setupCode, location, reachableLabel(acc.IsReachable),
		csvTime(acc.LastSeen), notes,
	}
}

func orphanRow(code model.SetupCodeRecord) []string {
	return []string{
		code.AccessoryName, code.Manufacturer, code.Model, "", "", "",
		code.Code, code.LocationHint, "", "", code.Notes,
	}
}

func reachableLabel(reachable bool) string {
	if reachable {
		return "Yes"
	}
	return "No"
}

func csvTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
