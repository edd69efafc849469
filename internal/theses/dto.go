package theses

import (
	"time"

	"github.com/thesisvault/backend/pkg/db/models"
)

// ThesisDTO is the wire representation of a catalog row.
type ThesisDTO struct {
	ThesisID          int64     `json:"thesis_id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Abstract          string    `json:"abstract,omitempty"`
	CollegeDepartment string    `json:"college_department,omitempty"`
	Batch             int       `json:"batch,omitempty"`
	PDFFileURL        string    `json:"pdf_file_url,omitempty"`
	AvailableCopies   int       `json:"available_copies"`
	CreatedAt         time.Time `json:"created_at"`
}

// FromModel maps a catalog row to its wire shape.
func FromModel(row *models.Thesis) ThesisDTO {
	if row == nil {
		return ThesisDTO{}
	}
	return ThesisDTO{
		ThesisID:          row.ThesisID,
		Title:             row.Title,
		Author:            row.Author,
		Abstract:          row.Abstract,
		CollegeDepartment: row.CollegeDepartment,
		Batch:             row.Batch,
		PDFFileURL:        row.PDFFileURL,
		AvailableCopies:   row.AvailableCopies,
		CreatedAt:         row.CreatedAt,
	}
}

func fromModels(rows []models.Thesis) []ThesisDTO {
	out := make([]ThesisDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
