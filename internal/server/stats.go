package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payslip/internal/stats"
)

func (s *Server) ColumnStats(c *gin.Context) {
	query := stats.Query{
		Operation: stats.Operation(strings.TrimSpace(c.PostForm("operation"))),
		Column:    strings.TrimSpace(c.PostForm("column")),
		GroupBy:   strings.TrimSpace(c.PostForm("group_by")),
	}
	if raw := strings.TrimSpace(c.PostForm("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		query.Limit = limit
	}

	table, err := s.loadExport(c, exportSource{FileField: "file", SheetField: "sheet"})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	res, err := stats.Run(table, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
