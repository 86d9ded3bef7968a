package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/pkg/export"
	"github.com/miftal/academy-api/pkg/storage"
)

// ExportType names an exportable collection.
type ExportType string

// Supported export types.
const (
	ExportTypeRegistrations ExportType = "registrations"
	ExportTypeContacts      ExportType = "contacts"
	ExportTypeCourses       ExportType = "courses"
)

// ExportFormat names the rendered file format.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	ID           string       `json:"id"`
	RelativePath string       `json:"-"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	Format       ExportFormat `json:"format"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// ExportService renders back-office collections to downloadable CSV or PDF
// files behind signed URLs.
type ExportService struct {
	courses       dashboardCourseRepository
	registrations dashboardRegistrationRepository
	contacts      dashboardContactRepository
	storage       exportFileStorage
	csv           csvRenderer
	pdf           pdfRenderer
	signer        *storage.SignedURLSigner
	logger        *zap.Logger
	cfg           ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(courses dashboardCourseRepository, registrations dashboardRegistrationRepository, contacts dashboardContactRepository, store exportFileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		courses:       courses,
		registrations: registrations,
		contacts:      contacts,
		storage:       store,
		csv:           csv,
		pdf:           pdf,
		signer:        signer,
		logger:        logger,
		cfg:           cfg,
	}
}

// Generate renders the requested collection and stores the file, returning a
// signed download token.
func (s *ExportService) Generate(ctx context.Context, exportType ExportType, format ExportFormat) (*ExportResult, error) {
	dataset, title, err := s.buildDataset(ctx, exportType)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("%s_%s.%s", exportType, time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		ID:           exportID,
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download?token=%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (exportID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

func (s *ExportService) buildDataset(ctx context.Context, exportType ExportType) (export.Dataset, string, error) {
	switch exportType {
	case ExportTypeRegistrations:
		return s.buildRegistrationDataset(ctx)
	case ExportTypeContacts:
		return s.buildContactDataset(ctx)
	case ExportTypeCourses:
		return s.buildCourseDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", exportType)
	}
}

func (s *ExportService) buildRegistrationDataset(ctx context.Context) (export.Dataset, string, error) {
	rows, err := s.registrations.List(ctx, models.RegistrationFilter{})
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Full Name":      row.FullName,
			"Email":          row.Email,
			"Phone":          row.Phone,
			"Course":         row.CourseName,
			"Preferred Time": row.PreferredTime,
			"Status":         string(row.Status),
			"Submitted At":   row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Full Name", "Email", "Phone", "Course", "Preferred Time", "Status", "Submitted At"},
		Rows:    dataRows,
	}
	return dataset, "Course Registrations", nil
}

func (s *ExportService) buildContactDataset(ctx context.Context) (export.Dataset, string, error) {
	rows, err := s.contacts.List(ctx, models.ContactFilter{})
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Name":         strings.TrimSpace(row.FirstName + " " + row.LastName),
			"Email":        row.Email,
			"Subject":      string(row.Subject),
			"Message":      row.Message,
			"Status":       string(row.Status),
			"Submitted At": row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Name", "Email", "Subject", "Message", "Status", "Submitted At"},
		Rows:    dataRows,
	}
	return dataset, "Contact Submissions", nil
}

func (s *ExportService) buildCourseDataset(ctx context.Context) (export.Dataset, string, error) {
	rows, err := s.courses.List(ctx, 0)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Title":      row.Title,
			"Instructor": row.Instructor,
			"Level":      string(row.Level),
			"Duration":   row.Duration,
			"Price":      fmt.Sprintf("%.2f", row.Price),
			"Enrolled":   fmt.Sprintf("%d", row.Enrolled),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Title", "Instructor", "Level", "Duration", "Price", "Enrolled"},
		Rows:    dataRows,
	}
	return dataset, "Course Catalog", nil
}
