package port

import (
	"context"
	"time"
)

// ImageStore хранилище размеченных снимков
type ImageStore interface {
	// Save сохраняет готовый JPEG и возвращает путь, который пишется в журнал
	Save(ctx context.Context, jpeg []byte, at time.Time) (string, error)
}
