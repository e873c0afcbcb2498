package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	payrolldomain "github.com/smallbiznis/payslip/internal/payroll/domain"
	"github.com/smallbiznis/payslip/internal/providers/pdf"
)

func (s *Server) parseSnapshotRequest(c *gin.Context) (payrolldomain.SnapshotRequest, error) {
	agent := strings.TrimSpace(c.PostForm("agent"))
	if agent == "" {
		return payrolldomain.SnapshotRequest{}, payrolldomain.ErrAgentRequired
	}
	c.Set("agent", agent)

	start, err := parseRequiredDate(c, "start")
	if err != nil {
		return payrolldomain.SnapshotRequest{}, err
	}
	end, err := parseRequiredDate(c, "end")
	if err != nil {
		return payrolldomain.SnapshotRequest{}, err
	}

	hours, err := s.loadExport(c, s.hoursSource())
	if err != nil {
		return payrolldomain.SnapshotRequest{}, err
	}
	leads, err := s.loadExport(c, s.leadsSource())
	if err != nil {
		return payrolldomain.SnapshotRequest{}, err
	}

	return payrolldomain.SnapshotRequest{
		Agent:     agent,
		AgentType: c.PostForm("agent_type"),
		Start:     start,
		End:       end,
		Hours:     hours,
		Leads:     leads,
	}, nil
}

func (s *Server) GeneratePayslip(c *gin.Context) {
	req, err := s.parseSnapshotRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.payrollSvc.GenerateSnapshot(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) DownloadPayslipPDF(c *gin.Context) {
	if s.pdf == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	req, err := s.parseSnapshotRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.payrollSvc.GenerateSnapshot(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdf.GeneratePayslip(c.Request.Context(), pdf.NewPayslipData(report))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var body bytes.Buffer
	if _, err := io.Copy(&body, reader); err != nil {
		AbortWithError(c, err)
		return
	}

	filename := slug.Make("payslip "+report.Snapshot.AgentName+" "+
		req.Start.Format("2006-01-02")+" "+req.End.Format("2006-01-02")) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", body.Bytes())
}
