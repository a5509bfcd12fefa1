package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ems-dashboard/internal/render"
	"ems-dashboard/internal/storage"
)

const (
	ordersSheet  = "Заказы"
	defectsSheet = "Дефекты"
)

// HistoryCSV is the fixed operations-history sample offered for download.
// It is not derived from live data.
const HistoryCSV = "Время,Операция,Параметры,Пользователь,Статус\n" +
	"2024-01-15 14:30:00,Пайка компонентов,Температура: 245°C,Иванов А.И.,Успешно\n" +
	"2024-01-15 15:45:00,Тестирование,Напряжение: 3.3V,Петров С.В.,Успешно\n"

var (
	orderHeaders  = []string{"№ Заказа", "Изделие", "Артикул", "Статус", "Операция", "Приоритет", "Кол-во", "Создан", "Прогресс, %"}
	defectHeaders = []string{"ID", "Партия", "Тип", "Причина", "Операция", "Критичность", "Дата", "Статус"}
)

type Storage interface {
	ListOrders(ctx context.Context) ([]storage.Order, error)
	ListDefects(ctx context.Context) ([]storage.Defect, error)
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) HistoryCSV() []byte {
	return []byte(HistoryCSV)
}

// OrdersCSV writes the current orders with localized labels.
func (s *Service) OrdersCSV(ctx context.Context) ([]byte, error) {
	const op = "service.export.OrdersCSV"

	orders, err := s.storage.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch orders: %w", op, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(orderHeaders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, o := range orders {
		if err := w.Write(orderRecord(o)); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

// OrdersExcel builds a workbook with an orders sheet and a defects sheet.
func (s *Service) OrdersExcel(ctx context.Context) ([]byte, error) {
	const op = "service.export.OrdersExcel"

	orders, err := s.storage.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch orders: %w", op, err)
	}
	defects, err := s.storage.ListDefects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch defects: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(defectsSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orderRows := make([][]any, 0, len(orders))
	for _, o := range orders {
		statusText, _ := render.OrderStatusBadge(string(o.Status))
		priorityText, _ := render.PriorityBadge(string(o.Priority))
		orderRows = append(orderRows, []any{
			o.ID, o.Product, o.Article, statusText, o.CurrentOperation, priorityText, o.Quantity, o.CreatedAt, o.Progress,
		})
	}

	defectRows := make([][]any, 0, len(defects))
	for _, d := range defects {
		defectRows = append(defectRows, []any{
			d.ID, d.Batch, render.DefectTypeText(d.Type), d.Cause, render.OperationText(d.Operation),
			render.SeverityText(string(d.Severity)), d.Date, render.DefectStatusText(string(d.Status)),
		})
	}

	if err := writeSheet(f, ordersSheet, orderHeaders, orderRows, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := writeSheet(f, defectsSheet, defectHeaders, defectRows, headerStyle); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	// header row stays visible while scrolling
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func orderRecord(o storage.Order) []string {
	statusText, _ := render.OrderStatusBadge(string(o.Status))
	priorityText, _ := render.PriorityBadge(string(o.Priority))

	return []string{
		o.ID,
		o.Product,
		o.Article,
		statusText,
		o.CurrentOperation,
		priorityText,
		fmt.Sprint(o.Quantity),
		o.CreatedAt,
		fmt.Sprint(o.Progress),
	}
}
