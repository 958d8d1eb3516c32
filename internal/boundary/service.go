package boundary

import (
	"context"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// Service is the set of calls the UI may issue. Implementations never return
// Go errors; failures travel in the Envelope.
type Service interface {
	// SaveSubmission appends rec as given. The record is not validated.
	SaveSubmission(ctx context.Context, rec submission.Record) Envelope

	// GetSubmissions returns all records in insertion order in Data.
	GetSubmissions(ctx context.Context) Envelope

	// ClearSubmissions removes every record.
	ClearSubmissions(ctx context.Context) Envelope

	// PrintToPDF renders the window's current page, writes it to a temp
	// file, opens it in the default viewer and returns the file in Path.
	PrintToPDF(ctx context.Context) Envelope

	// ShowSubmission sets the window's page to the record with serial, or
	// to the list when serial is empty.
	ShowSubmission(ctx context.Context, serial string) Envelope
}
