package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/services"
	"service-order/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// ExportHistory выгружает историю статусов заявки. По умолчанию xlsx, ?format=json для JSON.
func (c *ReportController) ExportHistory(ctx echo.Context) error {
	orderID, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	rows, err := c.reportService.GetHistoryReport(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "json" {
		return utils.SuccessResponse(ctx, rows, "Отчет успешно сформирован", http.StatusOK)
	}
	return c.respondWithXLSX(ctx, orderID, rows)
}

var historyReportHeaders = []string{
	"№", "ID заявки", "Дата", "Время", "Событие", "Из статуса", "В статус",
	"Пользователь", "Комментарий", "Действия", "Причина пропуска",
}

func rowToSlice(row dto.HistoryReportRowDTO) []interface{} {
	return []interface{}{
		row.Number, row.OrderID, row.Date, row.Time, row.EventType, row.FromStatus, row.ToStatus,
		row.ActorID, row.Comment, row.Actions, row.SkipReason,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, orderID uint64, rows []dto.HistoryReportRowDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "История статусов"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &historyReportHeaders); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := rowToSlice(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	f.SetColWidth(sheet, "E", "G", 25)
	f.SetColWidth(sheet, "I", "K", 40)

	fileName := fmt.Sprintf("order_%d_history_%s.xlsx", orderID, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
