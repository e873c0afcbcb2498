package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payslip/internal/payroll/businessdate"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/sheet"
)

// exportSource describes where a request's export comes from: an uploaded
// form file, or the configured remote URL when no file is sent.
type exportSource struct {
	FileField    string
	SheetField   string
	RemoteURL    string
	DefaultSheet string
}

func (s *Server) hoursSource() exportSource {
	return exportSource{
		FileField:    "hours_file",
		SheetField:   "hours_sheet",
		RemoteURL:    s.cfg.HoursSourceURL,
		DefaultSheet: s.cfg.HoursSheet,
	}
}

func (s *Server) leadsSource() exportSource {
	return exportSource{
		FileField:    "leads_file",
		SheetField:   "leads_sheet",
		RemoteURL:    s.cfg.LeadsSourceURL,
		DefaultSheet: s.cfg.LeadsSheet,
	}
}

func (s *Server) loadExport(c *gin.Context, src exportSource) (payrolldomain.Table, error) {
	sheetName := strings.TrimSpace(c.PostForm(src.SheetField))
	if sheetName == "" {
		sheetName = src.DefaultSheet
	}

	header, err := c.FormFile(src.FileField)
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			return payrolldomain.Table{}, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return payrolldomain.Table{}, err
		}
		table, err := sheet.Load(header.Filename, data, sheetName)
		if err != nil {
			return payrolldomain.Table{}, workbookError(src.FileField, err)
		}
		return table, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		if src.RemoteURL == "" || s.fetcher == nil {
			return payrolldomain.Table{}, newValidationError(src.FileField, "required", src.FileField+" is required")
		}
		table, err := s.fetcher.LoadURL(c.Request.Context(), src.RemoteURL, sheetName)
		if err != nil && !errors.Is(err, payrolldomain.ErrSourceNotAvailable) {
			return payrolldomain.Table{}, workbookError(src.FileField, err)
		}
		return table, err
	default:
		return payrolldomain.Table{}, ErrInvalidRequest
	}
}

// workbookError keeps sheet sentinels and reports anything else as an
// unreadable upload.
func workbookError(field string, err error) error {
	if errors.Is(err, sheet.ErrSheetNotFound) ||
		errors.Is(err, sheet.ErrNoWorksheet) ||
		errors.Is(err, sheet.ErrEmptyWorksheet) {
		return err
	}
	return newValidationError(field, "invalid_workbook", "file is not a readable .xls or .xlsx workbook")
}

func parseRequiredDate(c *gin.Context, field string) (time.Time, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return time.Time{}, newValidationError(field, "required", field+" is required")
	}
	parsed, ok := businessdate.ParseDate(raw)
	if !ok {
		return time.Time{}, newValidationError(field, "invalid_date", field+" must be YYYY-MM-DD")
	}
	return parsed, nil
}
