package api

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"cashly/database"
	"cashly/middleware"
	"cashly/models"
	"cashly/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler streams transaction exports as CSV or XLSX.
type ExportHandler struct{}

// NewExportHandler creates the export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

func (h *ExportHandler) queryTransactions(c *gin.Context, userID uint) ([]models.Transaction, string, string, bool) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	query := database.DB.Preload("Category").Where("user_id = ?", userID)
	if startDate != "" {
		t, err := time.ParseInLocation(service.DateLayout, startDate, time.Local)
		if err != nil {
			BadRequest(c, "invalid start_date, expected format: 2006-01-02")
			return nil, "", "", false
		}
		query = query.Where("date >= ?", t)
	}
	if endDate != "" {
		t, err := time.ParseInLocation(service.DateLayout, endDate, time.Local)
		if err != nil {
			BadRequest(c, "invalid end_date, expected format: 2006-01-02")
			return nil, "", "", false
		}
		query = query.Where("date <= ?", t.Add(24*time.Hour-time.Second))
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return nil, "", "", false
	}
	if startDate == "" {
		startDate = "all"
	}
	if endDate == "" {
		endDate = time.Now().Format(service.DateLayout)
	}
	return transactions, startDate, endDate, true
}

func categoryName(tx *models.Transaction) string {
	if tx.Category != nil {
		return tx.Category.Name
	}
	return ""
}

// CSV streams the user's transactions as a CSV attachment.
// @Summary Export transactions as CSV
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string false "start date (2026-08-01)"
// @Param end_date query string false "end date (2026-08-31)"
// @Success 200 {string} string "csv file"
// @Failure 400 {object} Response "invalid date"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, startDate, endDate, ok := h.queryTransactions(c, userID)
	if !ok {
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startDate, endDate)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"ID", "Title", "Category", "Type", "Amount", "Date"})
	for _, tx := range transactions {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(tx.ID), 10),
			tx.Title,
			categoryName(&tx),
			tx.Type,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Date.Format(service.DateLayout),
		})
	}
	w.Flush()
}

// XLSX streams the user's transactions as an Excel workbook with a
// summary row.
// @Summary Export transactions as XLSX
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_date query string false "start date (2026-08-01)"
// @Param end_date query string false "end date (2026-08-31)"
// @Success 200 {string} string "xlsx file"
// @Failure 400 {object} Response "invalid date"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/xlsx [get]
func (h *ExportHandler) XLSX(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	transactions, startDate, endDate, ok := h.queryTransactions(c, userID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Transactions"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 24)
	f.SetColWidth(sheetName, "D", "F", 14)

	headers := []string{"ID", "Title", "Category", "Type", "Amount", "Date"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var total float64
	for i, tx := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), categoryName(&tx))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tx.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Date.Format(service.DateLayout))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		if tx.Type == models.TypeExpense {
			total -= math.Abs(tx.Amount)
		} else {
			total += math.Abs(tx.Amount)
		}
	}

	summaryRow := len(transactions) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Net")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), total)
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("%d records", len(transactions)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startDate, endDate)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "generate workbook failed")
	}
}
