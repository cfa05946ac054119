package model

import "time"

// UploadRecord is the persisted audit entry for one processed file. Records
// are published to the audit queue during ingestion and written to MySQL by
// the background worker.
type UploadRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	UploadedBy    string    `gorm:"size:128;not null;index" json:"uploaded_by"`
	NumSentences  int       `gorm:"not null" json:"num_sentences"`
	NumWords      int       `gorm:"not null" json:"num_words"`
	NumCharacters int       `gorm:"not null" json:"num_characters"`
	ChunkCount    int       `gorm:"not null" json:"chunk_count"`
	ProcessedAt   time.Time `gorm:"not null" json:"processed_at"`
	CreatedAt     time.Time `json:"created_at"`
}
