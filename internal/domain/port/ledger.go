package port

import (
	"context"

	"pothole-tracker/internal/domain/entity"
)

// ReportLedger журнал отчётов (только дозапись)
type ReportLedger interface {
	// Append добавляет запись в конец журнала
	Append(ctx context.Context, record entity.ReportRecord) error

	// List возвращает все записи в порядке добавления
	List(ctx context.Context) ([]entity.ReportRecord, error)
}
