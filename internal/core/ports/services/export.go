package services

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/core/domain"
)

// SpreadsheetRenderer renders journal rows to spreadsheet file bytes.
type SpreadsheetRenderer interface {
	Render(rows []domain.JournalRow) ([]byte, error)
}

// BlobStore persists exported files and returns the stored object handle.
type BlobStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
