package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/infrastructure/imagecodec"
)

type fakeDetector struct {
	count int
	err   error
	calls int
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image) (*entity.DetectionResult, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &entity.DetectionResult{Image: img, Count: d.count, Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

type fakeStore struct {
	saved []time.Time
	data  [][]byte
	err   error
}

func (s *fakeStore) Save(ctx context.Context, jpeg []byte, at time.Time) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, at)
	s.data = append(s.data, jpeg)
	return "static/output.jpg", nil
}

type fakeLedger struct {
	records []entity.ReportRecord
}

func (l *fakeLedger) Append(ctx context.Context, r entity.ReportRecord) error {
	l.records = append(l.records, r)
	return nil
}

func (l *fakeLedger) List(ctx context.Context) ([]entity.ReportRecord, error) {
	return append([]entity.ReportRecord(nil), l.records...), nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 32, 24))))
	return buf.Bytes()
}

func newTestService(det *fakeDetector, store *fakeStore, ledger *fakeLedger) *ReportService {
	clock := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	return NewReportService(det, imagecodec.Codec{}, store, ledger).WithClock(func() time.Time { return clock })
}

func TestReportService_Submit(t *testing.T) {
	det, store, ledger := &fakeDetector{count: 2}, &fakeStore{}, &fakeLedger{}
	svc := newTestService(det, store, ledger)

	out, err := svc.Submit(context.Background(), ReportRequest{
		Image:    pngBytes(t),
		Location: "  ",
		Severity: "low",
	})
	require.NoError(t, err)

	want := entity.ReportRecord{
		Timestamp: time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
		Location:  entity.DefaultLocation,
		Severity:  entity.SeverityLow,
		Potholes:  2,
		ImagePath: "static/output.jpg",
	}
	require.Equal(t, want, out.Record)
	require.Equal(t, []entity.ReportRecord{want}, ledger.records)
	require.Equal(t, 2, out.Detection.Count)
	require.NotEmpty(t, out.Annotated)
	require.Len(t, store.saved, 1)
	// В хранилище уходит тот же JPEG, что и в ответ
	require.Equal(t, out.Annotated, store.data[0])
}

func TestReportService_SubmitInvalidImage(t *testing.T) {
	det, ledger := &fakeDetector{}, &fakeLedger{}
	svc := newTestService(det, &fakeStore{}, ledger)

	_, err := svc.Submit(context.Background(), ReportRequest{Image: []byte("not an image")})
	require.ErrorIs(t, err, entity.ErrInvalidImage)
	require.Zero(t, det.calls)
	require.Empty(t, ledger.records)
}

func TestReportService_SubmitEmptyImage(t *testing.T) {
	det, ledger := &fakeDetector{}, &fakeLedger{}
	svc := newTestService(det, &fakeStore{}, ledger)

	for _, data := range [][]byte{nil, {}} {
		_, err := svc.Submit(context.Background(), ReportRequest{Image: data, Location: "Main St"})
		require.ErrorIs(t, err, entity.ErrInvalidImage)
		require.False(t, errors.Is(err, ErrInvalidRequest))
	}
	require.Zero(t, det.calls)
	require.Empty(t, ledger.records)
}

func TestReportService_SubmitInvalidRequest(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newTestService(&fakeDetector{}, &fakeStore{}, ledger)

	_, err := svc.Submit(context.Background(), ReportRequest{Image: pngBytes(t), Severity: "extreme"})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Empty(t, ledger.records)
}

func TestReportService_FailuresSkipLedger(t *testing.T) {
	tests := []struct {
		name  string
		det   *fakeDetector
		store *fakeStore
	}{
		{"detector", &fakeDetector{err: entity.ErrInvalidImage}, &fakeStore{}},
		{"store", &fakeDetector{}, &fakeStore{err: errors.New("disk full")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			svc := newTestService(tt.det, tt.store, ledger)

			_, err := svc.Submit(context.Background(), ReportRequest{Image: pngBytes(t)})
			require.Error(t, err)
			require.Empty(t, ledger.records)
		})
	}
}

func TestReportService_History(t *testing.T) {
	ledger := &fakeLedger{}
	for i := 1; i <= 4; i++ {
		ledger.records = append(ledger.records, entity.ReportRecord{Potholes: i})
	}
	svc := newTestService(&fakeDetector{}, &fakeStore{}, ledger)

	records, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 4, records[0].Potholes)
	require.Equal(t, 3, records[1].Potholes)

	all, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Len(t, ledger.records, 4)
	require.Equal(t, 1, ledger.records[0].Potholes)
}

func TestReportService_NotConfigured(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil)
	_, err := svc.Submit(context.Background(), ReportRequest{Image: pngBytes(t)})
	require.Error(t, err)
}
