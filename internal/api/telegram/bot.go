package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "pothole-tracker/internal/application"
	"pothole-tracker/internal/container"
	"pothole-tracker/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для учёта выбоин на дорогах.

📸 Пришлите фото дороги, и я отмечу найденные выбоины и запишу отчёт.

📋 Команды:
/report — оформить отчёт по шагам
/history — последние отчёты
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /report, затем адрес и степень опасности
2️⃣ Отправьте фото дороги
3️⃣ Вы получите число выбоин и фото с разметкой

⚡ Быстрый способ: фото с подписью «адрес; степень», например
«Ленина 5; High». Степень: Low, Medium или High.

💡 Рекомендации:
• Снимайте дорогу перед собой, а не небо
• Нужен дневной свет, без резких теней

📋 Команды:
/report — оформить отчёт
/history — последние отчёты
/cancel — отменить операцию`

	msgAskLocation     = "📍 Где находится выбоина? Напишите адрес или ориентир (или «-», если не важно)."
	msgAskSeverity     = "⚠️ Насколько опасно? Выберите Low, Medium или High."
	msgBadSeverity     = "❓ Не понял степень. Допустимо: Low, Medium, High."
	msgAskPhoto        = "📸 Отправьте фото дороги."
	msgCancelled       = "❌ Операция отменена. Отправьте /report для нового отчёта."
	msgNothingToCancel = "Нечего отменять."
	msgSendPhoto       = "📸 Пришлите фото дороги или начните с /report."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgInvalidImage    = "⚠️ Не удалось прочитать изображение. Пришлите фото в JPEG или PNG."
	msgInvalidCaption  = "⚠️ Подпись не разобрана. Формат: «адрес; Low|Medium|High»."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте ещё раз."
	msgNoHistory       = "📭 Отчётов пока нет."

	historyLimit    = 5
	downloadTimeout = 30 * time.Second
)

// Bot представляет Telegram-бота
type Bot struct {
	api     *tgbotapi.BotAPI
	users   *app.UserService
	reports *app.ReportService
	client  *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		users:   c.UserService,
		reports: c.ReportService,
		client:  &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото, в том числе присланного файлом
	if fileID, ok := imageFileID(msg); ok {
		b.handlePhoto(ctx, msg, user, fileID)
		return
	}

	b.handleText(ctx, msg, user)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Reset(ctx, userID, chatID); err != nil {
			log.Printf("Error resetting user: %v", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "report":
		if _, err := b.users.BeginReport(ctx, userID, chatID); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendMessage(chatID, msgAskLocation)

	case "cancel":
		_, active, err := b.users.Cancel(ctx, userID, chatID)
		if err != nil {
			log.Printf("Error cancelling: %v", err)
		}
		text := msgCancelled
		if !active {
			text = msgNothingToCancel
		}
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(reply)

	case "history":
		records, err := b.reports.History(ctx, historyLimit)
		if err != nil {
			log.Printf("Error reading history: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, formatHistory(records))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleText ведёт пошаговый диалог /report
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch user.State {
	case entity.StateAwaitingLocation:
		location := msg.Text
		if strings.TrimSpace(location) == "-" {
			location = ""
		}
		if _, err := b.users.SetLocation(ctx, userID, chatID, location); err != nil {
			b.replyError(chatID, err)
			return
		}
		reply := tgbotapi.NewMessage(chatID, msgAskSeverity)
		reply.ReplyMarkup = severityKeyboard()
		b.send(reply)

	case entity.StateAwaitingSeverity:
		if _, err := b.users.SetSeverity(ctx, userID, chatID, msg.Text); err != nil {
			reply := tgbotapi.NewMessage(chatID, msgBadSeverity)
			reply.ReplyMarkup = severityKeyboard()
			b.send(reply)
			return
		}
		reply := tgbotapi.NewMessage(chatID, msgAskPhoto)
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(reply)

	case entity.StateAwaitingPhoto:
		b.sendMessage(chatID, msgAskPhoto)

	case entity.StateProcessing:
		b.sendMessage(chatID, msgBusy)

	default:
		b.sendMessage(chatID, msgSendPhoto)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Вне диалога адрес и степень берутся из подписи
	location, severity := user.Location, string(user.Severity)
	if user.State != entity.StateAwaitingPhoto {
		location, severity = ParseCaption(msg.Caption)
	}

	if _, err := b.users.BeginProcessing(ctx, userID, chatID); err != nil {
		b.replyError(chatID, err)
		return
	}
	defer func() {
		if _, err := b.users.Reset(ctx, userID, chatID); err != nil {
			log.Printf("Error resetting user: %v", err)
		}
	}()

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	log.Printf("Received image: %d bytes from user %d", len(imageData), userID)

	outcome, err := b.reports.Submit(ctx, app.ReportRequest{
		Image:    imageData,
		Location: location,
		Severity: severity,
	})
	if err != nil {
		log.Printf("Error processing report: %v", err)
		b.replyError(chatID, err)
		return
	}

	log.Printf("Report saved: %d potholes at %q", outcome.Record.Potholes, outcome.Record.Location)

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "potholes.jpg", Bytes: outcome.Annotated})
	photo.Caption = formatOutcome(outcome.Record)
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
		b.sendMessage(chatID, photo.Caption)
	}
}

// replyError переводит ошибку сервиса в понятный ответ
func (b *Bot) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, app.ErrBusy):
		b.sendMessage(chatID, msgBusy)
	case errors.Is(err, entity.ErrInvalidImage):
		b.sendMessage(chatID, msgInvalidImage)
	case errors.Is(err, app.ErrInvalidRequest):
		b.sendMessage(chatID, msgInvalidCaption)
	default:
		b.sendMessage(chatID, msgProcessingError)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
