package theses

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/storage"
)

type fakeThesesRepo struct {
	rows map[int64]*models.Thesis
}

func newFakeThesesRepo(rows ...*models.Thesis) *fakeThesesRepo {
	repo := &fakeThesesRepo{rows: map[int64]*models.Thesis{}}
	for _, row := range rows {
		repo.rows[row.ThesisID] = row
	}
	return repo
}

func (f *fakeThesesRepo) FindByID(_ context.Context, thesisID int64) (*models.Thesis, error) {
	if row, ok := f.rows[thesisID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeThesesRepo) FindByFileFragment(_ context.Context, filename string) ([]models.Thesis, error) {
	var out []models.Thesis
	for _, row := range f.rows {
		if strings.Contains(strings.ToLower(row.PDFFileURL), strings.ToLower(filename)) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeThesesRepo) Search(_ context.Context, opts searchQuery) ([]models.Thesis, error) {
	var out []models.Thesis
	for _, row := range f.rows {
		if opts.term != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(opts.term)) {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeThesesRepo) Create(_ context.Context, thesis *models.Thesis) (*models.Thesis, error) {
	thesis.ThesisID = int64(len(f.rows) + 1)
	thesis.CreatedAt = time.Now()
	f.rows[thesis.ThesisID] = thesis
	return thesis, nil
}

func (f *fakeThesesRepo) UpdateCopies(_ context.Context, thesisID int64, copies int) error {
	if row, ok := f.rows[thesisID]; ok {
		row.AvailableCopies = copies
	}
	return nil
}

type fakeResolver struct {
	resolved string
	err      error
}

func (f *fakeResolver) ResolvePDF(_ context.Context, _ string) (string, error) {
	return f.resolved, f.err
}

func newTestService(t *testing.T, repo *fakeThesesRepo, resolver *fakeResolver) Service {
	t.Helper()
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	svc, err := NewService(repo, resolver)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestResolveQRBorrowTicket(t *testing.T) {
	repo := newFakeThesesRepo(&models.Thesis{ThesisID: 42, Title: "ML in Healthcare"})
	svc := newTestService(t, repo, nil)

	row, err := svc.ResolveQR(context.Background(), `{"thesis_id":42,"user_id":7}`)
	if err != nil {
		t.Fatalf("ResolveQR: %v", err)
	}
	if row.ThesisID != 42 {
		t.Errorf("resolved thesis %d, want 42", row.ThesisID)
	}
}

func TestResolveQRFilenameUniqueMatch(t *testing.T) {
	repo := newFakeThesesRepo(
		&models.Thesis{ThesisID: 1, PDFFileURL: "https://cdn.example/thesis-pdfs/ML_Healthcare_2023.pdf"},
		&models.Thesis{ThesisID: 2, PDFFileURL: "https://cdn.example/thesis-pdfs/Edge_Computing_2022.pdf"},
	)
	svc := newTestService(t, repo, nil)

	row, err := svc.ResolveQR(context.Background(), "https://cdn.example/thesis-pdfs/ML_Healthcare_2023.pdf?token=abc")
	if err != nil {
		t.Fatalf("ResolveQR: %v", err)
	}
	if row.ThesisID != 1 {
		t.Errorf("resolved thesis %d, want 1", row.ThesisID)
	}
}

func TestResolveQRFilenameAmbiguous(t *testing.T) {
	repo := newFakeThesesRepo(
		&models.Thesis{ThesisID: 1, PDFFileURL: "a/Common_Title.pdf"},
		&models.Thesis{ThesisID: 2, PDFFileURL: "b/Common_Title.pdf"},
	)
	svc := newTestService(t, repo, nil)

	_, err := svc.ResolveQR(context.Background(), "Common_Title.pdf")
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Errorf("expected conflict for ambiguous filename, got %v", err)
	}
}

func TestResolveQRNumericAndInvalid(t *testing.T) {
	repo := newFakeThesesRepo(&models.Thesis{ThesisID: 108})
	svc := newTestService(t, repo, nil)

	if row, err := svc.ResolveQR(context.Background(), "108"); err != nil || row.ThesisID != 108 {
		t.Errorf("numeric payload: got %v/%v", row, err)
	}
	if _, err := svc.ResolveQR(context.Background(), "not-a-thesis"); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.ResolveQR(context.Background(), "999"); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found for unknown id, got %v", err)
	}
}

func TestPDFURLPassthroughAndResolution(t *testing.T) {
	svc := newTestService(t, newFakeThesesRepo(), &fakeResolver{
		resolved: "https://project.supabase.co/storage/v1/object/public/thesis_files/paper.pdf",
	})

	url, err := svc.PDFURL(context.Background(), &models.Thesis{PDFFileURL: "https://cdn.example/paper.pdf"})
	if err != nil || url != "https://cdn.example/paper.pdf" {
		t.Errorf("full URL should pass through, got %q/%v", url, err)
	}

	url, err = svc.PDFURL(context.Background(), &models.Thesis{PDFFileURL: "paper.pdf"})
	if err != nil {
		t.Fatalf("PDFURL: %v", err)
	}
	if !strings.Contains(url, "thesis_files") {
		t.Errorf("expected resolved storage URL, got %q", url)
	}
}

func TestPDFURLMissingDocument(t *testing.T) {
	svc := newTestService(t, newFakeThesesRepo(), &fakeResolver{err: storage.ErrNotFound})

	if _, err := svc.PDFURL(context.Background(), &models.Thesis{}); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("empty stored URL: expected not found, got %v", err)
	}
	if _, err := svc.PDFURL(context.Background(), &models.Thesis{PDFFileURL: "gone.pdf"}); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("storage miss: expected not found, got %v", err)
	}
}

func TestCreateThesisValidation(t *testing.T) {
	svc := newTestService(t, newFakeThesesRepo(), nil)

	if _, err := svc.CreateThesis(context.Background(), CreateInput{Author: "x"}); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("missing title: expected validation error, got %v", err)
	}

	created, err := svc.CreateThesis(context.Background(), CreateInput{
		Title: " Edge Computing ", Author: "R. Cruz", AvailableCopies: 2,
	})
	if err != nil {
		t.Fatalf("CreateThesis: %v", err)
	}
	if created.Title != "Edge Computing" {
		t.Errorf("title not trimmed: %q", created.Title)
	}
}
