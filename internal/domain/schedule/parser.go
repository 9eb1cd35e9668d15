// Package schedule turns free-form user text into a validated, normalized
// notification schedule. Parsing is pure given the passed-in clock value;
// callers hand over time.Now() and tests a fixed moment.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"reminder_bot/internal/domain/notification"
)

const maxNameLength = 100

// Stable field kinds carried by ValidationError.
const (
	FieldStructure  = "structure"
	FieldName       = "name"
	FieldDate       = "date"
	FieldTime       = "time"
	FieldRecurrence = "recurrence"
)

// ValidationError reports a problem with one field of the user's input.
// Field is a stable machine-readable kind; Message is the user-facing text.
// Validation errors are recoverable: the caller re-prompts the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Schedule is a normalized, validated reminder request.
type Schedule struct {
	Name       string
	OccursAt   time.Time
	Recurrence notification.Recurrence
}

var recurrenceByText = map[string]notification.Recurrence{
	"один раз":    notification.Once,
	"ежедневно":   notification.Daily,
	"еженедельно": notification.Weekly,
	"ежемесячно":  notification.Monthly,
	"ежегодно":    notification.Yearly,
}

// Parse validates one "Название; Дата; Время; (Опционально) Периодичность"
// input line. The occurrence is built in now's year; if that moment is not
// strictly in the future, the date is taken to mean next year.
func Parse(raw string, now time.Time) (*Schedule, error) {
	parts := strings.Split(raw, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 3 || len(parts) > 4 {
		return nil, &ValidationError{FieldStructure,
			"Пожалуйста, введи данные в формате: Название; Дата; Время уведомления; (Опционально) Периодичность."}
	}
	if len(parts) == 3 {
		parts = append(parts, "")
	}

	name, err := parseName(parts[0])
	if err != nil {
		return nil, err
	}
	day, month, err := parseDate(parts[1], now)
	if err != nil {
		return nil, err
	}
	hour, minute, err := parseClock(parts[2])
	if err != nil {
		return nil, err
	}
	recurrence, err := parseRecurrence(parts[3])
	if err != nil {
		return nil, err
	}

	occurs := time.Date(now.Year(), month, day, hour, minute, 0, 0, now.Location())
	if !occurs.After(now) {
		occurs = time.Date(now.Year()+1, month, day, hour, minute, 0, 0, now.Location())
		// time.Date normalizes Feb 29 to Mar 1 in non-leap years instead of
		// failing; a rolled-over leap day must be rejected, not moved.
		if occurs.Day() != day || occurs.Month() != month {
			return nil, &ValidationError{FieldDate, "В следующем году 29 февраля не будет"}
		}
	}

	return &Schedule{Name: name, OccursAt: occurs, Recurrence: recurrence}, nil
}

func parseName(s string) (string, error) {
	if s == "" {
		return "", &ValidationError{FieldName, "Название события не может быть пустым."}
	}
	if utf8.RuneCountInString(s) > maxNameLength {
		return "", &ValidationError{FieldName, "Не могу принять такое длинное название заметки, постарайся его сократить."}
	}
	return capitalize(s), nil
}

func parseDate(s string, now time.Time) (int, time.Month, error) {
	tokens := strings.Split(s, " ")
	if len(tokens) != 2 {
		return 0, 0, &ValidationError{FieldDate,
			"Проверь формат ввода даты события. Ожидается формат: 'ДД Месяц' (например, '15 Сентября')."}
	}

	dayToken, monthToken := tokens[0], tokens[1]
	if !isDigits(dayToken) {
		return 0, 0, &ValidationError{FieldDate,
			fmt.Sprintf("Такого дня в месяце не существует: %s. Попробуй еще раз.", dayToken)}
	}
	day, _ := strconv.Atoi(dayToken)

	monthName := strings.ToLower(monthToken)
	if nominative, ok := genitiveMonths[monthName]; ok {
		monthName = nominative
	}
	monthName = capitalize(monthName)

	days, ok := monthDays[monthName]
	if !ok {
		return 0, 0, &ValidationError{FieldDate,
			fmt.Sprintf("Не удалось считать месяц. Введи месяц из списка: %s.", strings.Join(monthNames, ", "))}
	}

	// Leap-year approximation: divisibility by 4, centuries are not
	// special-cased.
	if day == 29 && monthName == "Февраль" && now.Year()%4 != 0 {
		return 0, 0, &ValidationError{FieldDate, "В этом году 29 февраля не будет"}
	}
	if day < 1 || day > days {
		return 0, 0, &ValidationError{FieldDate,
			fmt.Sprintf("Количество дней в этом месяце - %d. Проверь дату и попробуй еще раз.", days)}
	}

	return day, monthNumber(monthName), nil
}

func parseClock(s string) (int, int, error) {
	if s == "" {
		return 0, 0, &ValidationError{FieldTime, "Время уведомления не может быть пустым."}
	}
	// A 4-character input without a leading zero ("9:30", "9 30") gets one.
	if len(s) == 4 && s[0] != '0' {
		s = "0" + s
	}
	if len(s) != 5 || (s[2] != ':' && s[2] != ' ') {
		return 0, 0, &ValidationError{FieldTime, "Неверный формат времени. Используй формат 'HH:MM' или 'HH MM'."}
	}

	hour, errH := strconv.Atoi(s[:2])
	minute, errM := strconv.Atoi(s[3:])
	if errH != nil || errM != nil {
		return 0, 0, &ValidationError{FieldTime, "Проверь формат времени. Используй 'HH:MM'."}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, &ValidationError{FieldTime, "Часы должны быть от 00 до 23, а минуты от 00 до 59."}
	}
	return hour, minute, nil
}

func parseRecurrence(s string) (notification.Recurrence, error) {
	if s == "" {
		return notification.Once, nil
	}
	recurrence, ok := recurrenceByText[strings.ToLower(s)]
	if !ok {
		return "", &ValidationError{FieldRecurrence,
			"Неверная периодичность для уведомления. Доступные: один раз, ежедневно, еженедельно, ежемесячно или ежегодно."}
	}
	return recurrence, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func monthNumber(name string) time.Month {
	for i, n := range monthNames {
		if n == name {
			return time.Month(i + 1)
		}
	}
	return 0
}
