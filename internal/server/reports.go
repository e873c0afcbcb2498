package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/payslip/internal/sheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) ListAgents(c *gin.Context) {
	hours, err := s.loadExport(c, s.hoursSource())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	agents, err := s.payrollSvc.ListAgents(c.Request.Context(), hours)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": agents})
}

func (s *Server) DownloadDailyReport(c *gin.Context) {
	hours, err := s.loadExport(c, s.hoursSource())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	leads, err := s.loadExport(c, s.leadsSource())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.payrollSvc.BuildDailyReport(c.Request.Context(), hours, leads)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sheetName := s.cfg.Report.OutputSheet
	if sheetName == "" {
		sheetName = "Trial 1 (Auto)"
	}
	var buf bytes.Buffer
	if err := sheet.WriteTable(&buf, sheetName, report); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+slug.Make(sheetName)+`.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
