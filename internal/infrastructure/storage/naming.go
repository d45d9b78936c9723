package storage

import (
	"fmt"
	"time"
)

// OverwriteName имя файла результата, если история не хранится
const OverwriteName = "output.jpg"

// imageName возвращает имя файла для снимка отчёта.
// С историей имя строится по времени с точностью до миллисекунды.
func imageName(at time.Time, keepHistory bool) string {
	if !keepHistory {
		return OverwriteName
	}
	return fmt.Sprintf("report-%s-%03d.jpg", at.Format("20060102-150405"), at.Nanosecond()/int(time.Millisecond))
}
