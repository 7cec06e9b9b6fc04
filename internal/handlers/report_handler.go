package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportAPI interface {
	OrdersReport(ctx context.Context, w io.Writer, from, to string) error
	ClientReport(ctx context.Context, w io.Writer, userID uuid.UUID, from, to string) error
}

type ReportHandler struct {
	reports ReportAPI
	log     *zap.Logger
}

func NewReportHandler(reports ReportAPI, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// Orders godoc
// @Summary Excel-отчёт по заказам
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /admin/reports/excel [get]
func (h *ReportHandler) Orders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.OrdersReport(c.Request.Context(), &buf, c.Query("date_from"), c.Query("date_to")); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.sendXLSX(c, fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102")), &buf)
}

// Client godoc
// @Summary Excel-отчёт по клиенту
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param user_id path string true "ID клиента"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /admin/reports/client/{user_id}/excel [get]
func (h *ReportHandler) Client(c *gin.Context) {
	userID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.reports.ClientReport(c.Request.Context(), &buf, userID, c.Query("date_from"), c.Query("date_to")); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.sendXLSX(c, fmt.Sprintf("client_%s.xlsx", userID.String()[:8]), &buf)
}

func (h *ReportHandler) sendXLSX(c *gin.Context, name string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
