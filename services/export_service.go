package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/yeremiapane/student-records/models"
)

// ExportCSV writes the header row followed by one row per record.
func ExportCSV(w io.Writer, users []models.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, u := range users {
		if err := cw.Write(u.CSVRow()); err != nil {
			return fmt.Errorf("write csv row %d: %w", u.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
