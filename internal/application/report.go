package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// ErrInvalidRequest в заявке неверная степень опасности
var ErrInvalidRequest = errors.New("invalid report request")

// ReportRequest заявка о выбоинах: снимок и данные заявителя
type ReportRequest struct {
	Image    []byte
	Location string
	Severity string
}

// ReportOutcome результат обработки заявки
type ReportOutcome struct {
	Record    entity.ReportRecord
	Detection *entity.DetectionResult
	Annotated []byte // размеченный кадр в JPEG
}

type ReportService struct {
	detector port.PotholeDetector
	codec    port.ImageCodec
	store    port.ImageStore
	ledger   port.ReportLedger
	now      func() time.Time
}

// NewReportService создаёт сервис, который проверяет снимок и пишет отчёт в журнал.
func NewReportService(detector port.PotholeDetector, codec port.ImageCodec, store port.ImageStore, ledger port.ReportLedger) *ReportService {
	return &ReportService{
		detector: detector,
		codec:    codec,
		store:    store,
		ledger:   ledger,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени для журнала
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Submit декодирует снимок, ищет выбоины, сохраняет размеченный кадр и дописывает журнал.
// Любая ошибка до записи оставляет журнал без изменений.
func (s *ReportService) Submit(ctx context.Context, req ReportRequest) (*ReportOutcome, error) {
	if s.detector == nil || s.codec == nil || s.store == nil || s.ledger == nil {
		return nil, errors.New("report service is not configured")
	}

	severity, err := entity.ParseSeverity(req.Severity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if len(req.Image) == 0 {
		return nil, fmt.Errorf("empty upload: %w", entity.ErrInvalidImage)
	}
	img, err := s.codec.Decode(req.Image)
	if err != nil {
		return nil, err
	}

	result, err := s.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect potholes: %w", err)
	}

	annotated, err := s.codec.Encode(result.Image)
	if err != nil {
		return nil, err
	}

	at := s.now()
	path, err := s.store.Save(ctx, annotated, at)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	record := entity.ReportRecord{
		Timestamp: at,
		Location:  entity.NormalizeLocation(req.Location),
		Severity:  severity,
		Potholes:  result.Count,
		ImagePath: path,
	}
	if err := s.ledger.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append report: %w", err)
	}

	return &ReportOutcome{Record: record, Detection: result, Annotated: annotated}, nil
}

// History возвращает отчёты от новых к старым; limit <= 0 означает все
func (s *ReportService) History(ctx context.Context, limit int) ([]entity.ReportRecord, error) {
	if s.ledger == nil {
		return nil, errors.New("report ledger is not configured")
	}

	records, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
