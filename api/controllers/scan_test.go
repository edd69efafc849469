package controllers

import (
	"context"

	"github.com/thesisvault/backend/internal/scans"
)

type fakeScansRecorder struct {
	recorded int
}

func (f *fakeScansRecorder) Record(ctx context.Context, userID, thesisID int64) {
	f.recorded++
}

func (f *fakeScansRecorder) Recent(ctx context.Context, userID int64, limit int) ([]scans.RecentRow, error) {
	return nil, nil
}
