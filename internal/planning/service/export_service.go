package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chuboware/chubo/internal/planning/requirements"
	"github.com/xuri/excelize/v2"
)

// ExportService 备料清单导出
type ExportService struct {
	schedules *ScheduleService
}

func NewExportService(schedules *ScheduleService) *ExportService {
	return &ExportService{schedules: schedules}
}

var dailyExportHeaders = []string{
	"食材", "总用量", "总重量(g)", "換算", "订购数", "订购单位", "订购组", "来源计划",
}

// DailyRequirements 按天备料清单导出为Excel
func (s *ExportService) DailyRequirements(ctx context.Context, companyID, storeID string, date time.Time) (*excelize.File, string, error) {
	reqs, err := s.schedules.DailyRequirements(ctx, companyID, storeID, date)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "備料"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 写入表头
	for i, h := range dailyExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	// 写入数据行
	for rowIdx, r := range reqs {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.MaterialName)
		qty, _ := r.TotalQuantity.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), qty)
		weight, _ := r.TotalWeight.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), weight)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), conversionLabel(r.ConversionType))
		if r.ConversionType != requirements.ConversionNone {
			orderQty, _ := r.RequiredOrderQuantity.Float64()
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), orderQty)
		}
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.OrderUnitName)
		grouped := ""
		if r.IsGrouped {
			grouped = "是"
		}
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), grouped)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), strings.Join(r.PlanNames, ", "))
	}

	// 列宽
	colWidths := []float64{20, 10, 12, 8, 10, 10, 8, 30}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("備料_%s.xlsx", date.Format("2006-01-02"))
	return f, filename, nil
}

func conversionLabel(t requirements.ConversionType) string {
	switch t {
	case requirements.ConversionWeight:
		return "称重"
	case requirements.ConversionCount:
		return "计数"
	default:
		return "-"
	}
}
