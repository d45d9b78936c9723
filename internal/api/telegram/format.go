package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pothole-tracker/internal/domain/entity"
)

// ParseCaption разбирает подпись к фото вида «адрес; степень».
// Без точки с запятой вся подпись считается адресом.
func ParseCaption(caption string) (location, severity string) {
	location, severity, _ = strings.Cut(caption, ";")
	return strings.TrimSpace(location), strings.TrimSpace(severity)
}

// imageFileID возвращает файл наибольшего размера из фото или документ-картинку
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func severityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	row := make([]tgbotapi.KeyboardButton, 0, len(entity.Severities))
	for _, s := range entity.Severities {
		row = append(row, tgbotapi.NewKeyboardButton(string(s)))
	}
	kb := tgbotapi.NewOneTimeReplyKeyboard(row)
	kb.ResizeKeyboard = true
	return kb
}

func formatOutcome(r entity.ReportRecord) string {
	var sb strings.Builder
	if r.Potholes == 0 {
		sb.WriteString("✅ Выбоины не обнаружены.\n")
	} else {
		fmt.Fprintf(&sb, "🕳 Найдено выбоин: %d\n", r.Potholes)
	}
	fmt.Fprintf(&sb, "📍 %s\n⚠️ %s\n🕒 %s", r.Location, r.Severity, r.FormattedTimestamp())
	return sb.String()
}

func formatHistory(records []entity.ReportRecord) string {
	if len(records) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние отчёты:\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "\n%s · %s · %s · выбоин: %d", r.FormattedTimestamp(), r.Location, r.Severity, r.Potholes)
	}
	return sb.String()
}
