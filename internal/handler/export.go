// export.go implements GET /admin/export: the whole active inventory as a
// flat table, one row per vehicle. ?format=csv selects CSV; JSON otherwise.

package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// exportRow is the JSON shape of one export row.
type exportRow struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Year          int       `json:"year"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Trim          string    `json:"trim,omitempty"`
	VIN           string    `json:"vin,omitempty"`
	Mileage       int       `json:"mileage"`
	PriceCents    int64     `json:"price_cents"`
	Condition     string    `json:"condition"`
	Status        string    `json:"status"`
	Featured      bool      `json:"featured"`
	ImageCount    int       `json:"image_count"`
	OpenInquiries int       `json:"open_inquiries"`
	CreatedAt     time.Time `json:"created_at"`
}

// GetExport handles GET /admin/export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format string
	if err := queryParam(r, "format", &format); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if format != "" && format != "json" && format != "csv" {
		writeRequestError(w, "format must be json or csv")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

func buildJSONRows(rows []domain.ExportRow) []exportRow {
	out := make([]exportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportRow(r))
	}
	return out
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes cannot fail.
	_ = cw.Write(domain.ExportColumns)
	for _, r := range rows {
		_ = cw.Write(r.Record())
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
