// internal/infra/telegram/bot_handlers.go
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"reminder_bot/internal/app"
	"reminder_bot/internal/domain/schedule"
	idb "reminder_bot/internal/infra/database" // For ErrNotificationNotFound

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	buttonAdd    = "Добавить заметку"
	buttonList   = "Вывести список заметок"
	buttonDelete = "Удалить заметку"
	buttonCancel = "Отмена"
)

const greeting = "Привет! Я бот-напоминалка. Могу сохранить заметку и напомнить о ней в нужную минуту, один раз или регулярно. Выбери действие на клавиатуре ниже."

const addPrompt = "📝 Ваша заметка...\n\nВведи данные в формате: <b>Название; Дата; Время уведомления; (Опционально) Периодичность</b>.\nНапример: Стоматолог; 15 Марта; 13:00; ежемесячно"

// pendingAction tracks the multi-step conversation state of a chat: after
// pressing a menu button the bot waits for the next free-form message.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionAdd
	actionDelete
)

type conversationState struct {
	mu      sync.Mutex
	pending map[int64]pendingAction
}

func (s *conversationState) get(chatID int64) pendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[chatID]
}

func (s *conversationState) set(chatID int64, action pendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[chatID] = action
}

func (s *conversationState) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, chatID)
}

// RegisterBotHandlers wires the reminder menu, the add/delete conversations
// and the admin /all listing onto the bot.
func RegisterBotHandlers(
	ctx context.Context,
	b *telebot.Bot,
	notifService app.NotificationService,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	state := &conversationState{pending: make(map[int64]pendingAction)}
	menu := mainMenu()
	cancelMenu := cancelOnlyMenu()
	logger := baseLogger.WithField("handler_group", "reminders")

	b.Handle("/start", func(c telebot.Context) error {
		return c.Send(greeting, menu)
	})

	b.Handle("/cancel", func(c telebot.Context) error {
		state.clear(c.Chat().ID)
		return c.Send("Действие отменено.", menu)
	})

	// Administrative read-all across every chat.
	b.Handle("/all", func(c telebot.Context) error {
		logCtx := logger.WithField("command", "/all").WithField("sender_id", c.Sender().ID)
		if c.Sender().ID != adminTelegramID {
			logCtx.Info("Rejected /all from non-admin user")
			return c.Send("Эта команда доступна только администратору.", menu)
		}

		items, err := notifService.ListAll(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list all notifications")
			return c.Send("Произошла ошибка. Попробуйте позже.", menu)
		}
		if len(items) == 0 {
			return c.Send("📭 Заметок пока нет", menu)
		}
		return c.Send(formatNotificationList(items), menu, telebot.ModeHTML)
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		chatID := c.Chat().ID
		text := strings.TrimSpace(c.Text())

		switch state.get(chatID) {
		case actionAdd:
			return handleAddInput(ctx, c, notifService, state, menu, cancelMenu, logger)
		case actionDelete:
			return handleDeleteInput(ctx, c, notifService, state, menu, logger)
		}

		switch text {
		case buttonAdd:
			state.set(chatID, actionAdd)
			return c.Send(addPrompt, cancelMenu, telebot.ModeHTML)
		case buttonDelete:
			state.set(chatID, actionDelete)
			return c.Send("Введите ID уведомления для удаления:", cancelMenu)
		case buttonList:
			items, err := notifService.List(ctx, chatID)
			if err != nil {
				logger.WithError(err).WithField("chat_id", chatID).Error("Failed to list notifications")
				return c.Send("Произошла ошибка. Попробуйте позже.", menu)
			}
			if len(items) == 0 {
				return c.Send("📭 У вас пока нет заметок", menu)
			}
			return c.Send(formatNotificationList(items), menu, telebot.ModeHTML)
		}

		// Anything else outside a conversation is ignored.
		return nil
	})
}

func handleAddInput(
	ctx context.Context,
	c telebot.Context,
	notifService app.NotificationService,
	state *conversationState,
	menu, cancelMenu *telebot.ReplyMarkup,
	logger *logrus.Entry,
) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	if strings.EqualFold(text, buttonCancel) {
		state.clear(chatID)
		return c.Send("Добавление отменено", menu)
	}

	_, err := notifService.Add(ctx, chatID, text)
	var validationErr *schedule.ValidationError
	if errors.As(err, &validationErr) {
		// Re-prompt; the chat stays in the add conversation.
		return c.Send("❌ Ошибка формата:\n"+validationErr.Message, cancelMenu)
	}
	if err != nil {
		logger.WithError(err).WithField("chat_id", chatID).Error("Failed to add notification")
		state.clear(chatID)
		return c.Send("Произошла ошибка. Попробуйте позже.", menu)
	}

	state.clear(chatID)
	return c.Send("✅ Заметка добавлена!", menu)
}

func handleDeleteInput(
	ctx context.Context,
	c telebot.Context,
	notifService app.NotificationService,
	state *conversationState,
	menu *telebot.ReplyMarkup,
	logger *logrus.Entry,
) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())
	state.clear(chatID)

	if strings.EqualFold(text, buttonCancel) {
		return c.Send("Удаление отменено", menu)
	}

	localID, err := strconv.Atoi(text)
	if err != nil {
		return c.Send("Ошибка: Убедитесь, что ID заметки указан правильно.", menu)
	}

	removed, err := notifService.Remove(ctx, chatID, localID)
	if err != nil {
		if !errors.Is(err, idb.ErrNotificationNotFound) {
			logger.WithError(err).WithField("chat_id", chatID).Error("Failed to delete notification")
		}
		return c.Send("Ошибка: Убедитесь, что ID заметки указан правильно.", menu)
	}

	return c.Send(
		"Заметка с ID "+strconv.Itoa(localID)+" удалена:\n"+formatNotificationOneline(removed),
		menu, telebot.ModeHTML)
}

func mainMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(buttonAdd)),
		menu.Row(menu.Text(buttonList)),
		menu.Row(menu.Text(buttonDelete)),
	)
	return menu
}

func cancelOnlyMenu() *telebot.ReplyMarkup {
	menu := &telebot.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(buttonCancel)))
	return menu
}
