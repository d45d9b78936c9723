package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/infrastructure/imagecodec"
	"pothole-tracker/internal/infrastructure/storage"
	"pothole-tracker/internal/infrastructure/vision"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	detector, err := vision.New(vision.BackendNative, entity.DefaultDetectionConfig(), vision.DefaultStyle())
	require.NoError(t, err)
	images, err := storage.NewFileImageStore(filepath.Join(dir, "static"), false)
	require.NoError(t, err)
	ledger, err := storage.NewCSVLedger(filepath.Join(dir, "reports.csv"))
	require.NoError(t, err)

	c := New(Deps{
		Users:    storage.NewMemoryUserRepository(),
		Detector: detector,
		Codec:    imagecodec.Codec{},
		Images:   images,
		Ledger:   ledger,
	})
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.ReportService)

	history, err := c.ReportService.History(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, history)
}
