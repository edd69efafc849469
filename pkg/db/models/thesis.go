package models

import "time"

// Thesis is a research document record. PDFFileURL may be a full storage URL
// or a bare filename left over from the legacy uploader.
type Thesis struct {
	ThesisID          int64     `gorm:"column:thesis_id;primaryKey;autoIncrement"`
	Title             string    `gorm:"column:title;not null"`
	Author            string    `gorm:"column:author;not null"`
	Abstract          string    `gorm:"column:abstract"`
	CollegeDepartment string    `gorm:"column:college_department"`
	Batch             int       `gorm:"column:batch"`
	PDFFileURL        string    `gorm:"column:pdf_file_url"`
	AvailableCopies   int       `gorm:"column:available_copies;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Thesis) TableName() string { return "theses" }
