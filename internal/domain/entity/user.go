package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu         UserState = "main_menu"         // В главном меню
	StateAwaitingLocation UserState = "awaiting_location" // Ожидание адреса
	StateAwaitingSeverity UserState = "awaiting_severity" // Ожидание степени опасности
	StateAwaitingPhoto    UserState = "awaiting_photo"    // Ожидание фото дороги
	StateProcessing       UserState = "processing"        // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя

	// Черновик отчёта, заполняется по ходу диалога /report
	Location string
	Severity Severity
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// ResetDraft очищает черновик отчёта
func (u *User) ResetDraft() {
	u.Location = ""
	u.Severity = ""
}
