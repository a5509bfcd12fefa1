package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Exporter interface {
	HistoryCSV() []byte
	OrdersCSV(ctx context.Context) ([]byte, error)
	OrdersExcel(ctx context.Context) ([]byte, error)
}

type ExportNotifier interface {
	Exported(ctx context.Context, what string)
}

func HistoryCSV(log *slog.Logger, exp Exporter, n ExportNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attach(w, contentTypeCSV, "operations_history.csv", exp.HistoryCSV())
		n.Exported(r.Context(), "История операций экспортирована в CSV")
	}
}

func OrdersCSV(log *slog.Logger, exp Exporter, n ExportNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.export.OrdersCSV"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		data, err := exp.OrdersCSV(ctx)
		if err != nil {
			log.Error("failed to export orders", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("orders_%s.csv", time.Now().Format("2006-01-02_150405"))
		attach(w, contentTypeCSV, fileName, data)
		n.Exported(ctx, "Заказы экспортированы в CSV")
	}
}

func OrdersExcel(log *slog.Logger, exp Exporter, n ExportNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.export.OrdersExcel"

		// На Excel можно побольше времени
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		data, err := exp.OrdersExcel(ctx)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("EMS_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))
		attach(w, contentTypeXLSX, fileName, data)
		n.Exported(ctx, "Отчет по заказам сформирован в Excel")
	}
}

func attach(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	_, _ = w.Write(data)
}
