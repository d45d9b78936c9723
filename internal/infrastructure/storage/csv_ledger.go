package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// LedgerHeader заголовок CSV-журнала отчётов
var LedgerHeader = []string{"timestamp", "location", "severity", "potholes", "image_path"}

// CSVLedger журнал отчётов в CSV-файле, только дозапись
type CSVLedger struct {
	mu   sync.Mutex
	path string
	loc  *time.Location
}

// NewCSVLedger открывает журнал и создаёт файл с заголовком, если его нет
func NewCSVLedger(path string) (*CSVLedger, error) {
	if path == "" {
		return nil, &entity.ConfigurationError{Field: "reports_file", Reason: "path is empty"}
	}

	l := &CSVLedger{path: path, loc: time.Local}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path возвращает путь к файлу журнала
func (l *CSVLedger) Path() string {
	return l.path
}

func (l *CSVLedger) init() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat ledger: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	defer f.Close()

	return writeRow(f, LedgerHeader)
}

// Append дописывает одну строку в конец файла
func (l *CSVLedger) Append(ctx context.Context, record entity.ReportRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	row := []string{
		record.FormattedTimestamp(),
		entity.NormalizeLocation(record.Location),
		string(record.Severity),
		strconv.Itoa(record.Potholes),
		record.ImagePath,
	}
	if err := writeRow(f, row); err != nil {
		return err
	}
	return f.Sync()
}

// List читает все записи журнала в порядке добавления
func (l *CSVLedger) List(ctx context.Context) ([]entity.ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(LedgerHeader)

	var records []entity.ReportRecord
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		if line == 1 && row[0] == LedgerHeader[0] {
			continue
		}

		rec, err := l.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (l *CSVLedger) parseRow(row []string) (entity.ReportRecord, error) {
	ts, err := time.ParseInLocation(entity.TimestampLayout, row[0], l.loc)
	if err != nil {
		return entity.ReportRecord{}, fmt.Errorf("timestamp: %w", err)
	}
	potholes, err := strconv.Atoi(row[3])
	if err != nil {
		return entity.ReportRecord{}, fmt.Errorf("potholes: %w", err)
	}

	return entity.ReportRecord{
		Timestamp: ts,
		Location:  row[1],
		Severity:  entity.Severity(row[2]),
		Potholes:  potholes,
		ImagePath: row[4],
	}, nil
}

func writeRow(w io.Writer, row []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return nil
}

var _ port.ReportLedger = (*CSVLedger)(nil)
