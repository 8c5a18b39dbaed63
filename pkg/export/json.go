package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/homevault-project/homevault-go/pkg/model"
)

type jsonDocument struct {
	ExportDate  string                  `json:"exportDate"`
	Accessories []model.AccessoryRecord `json:"accessories"`
	Codes       []jsonCode              `json:"codes"`
}

type jsonCode struct {
	AccessoryName string `json:"accessoryName"`
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	Code          string `json:"code"`
	CodeFormat    string `json:"codeFormat"`
	CodeLocation  string `json:"codeLocation"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"createdAt"`
}

// WriteJSON renders a full structured dump of both lists plus the export
// timestamp. Dates are RFC 3339.
func WriteJSON(w io.Writer, accessories []model.AccessoryRecord, codes []model.SetupCodeRecord) error {
	doc := jsonDocument{
		ExportDate:  time.Now().Format(time.RFC3339),
		Accessories: accessories,
		Codes:       make([]jsonCode, 0, len(codes)),
	}
	if doc.Accessories == nil {
		doc.Accessories = []model.AccessoryRecord{}
	}

	for _, code := range codes {
		doc.Codes = append(doc.Codes, jsonCode{
			AccessoryName: code.AccessoryName,
			Manufacturer:  code.Manufacturer,
			Model:         code.Model,
			Code:          code.Code,
			CodeFormat:    string(code.CodeFormat),
			CodeLocation:  code.LocationHint,
			Notes:         code.Notes,
			CreatedAt:     code.CreatedAt.Format(time.RFC3339),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
