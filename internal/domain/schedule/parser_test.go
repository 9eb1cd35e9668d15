package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder_bot/internal/domain/notification"
)

func fixedClock(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}

func TestParse_RoundTrip(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	sched, err := Parse("Dentist; 15 Март; 13:00; ежемесячно", now)
	require.NoError(t, err)

	assert.Equal(t, "Dentist", sched.Name)
	assert.Equal(t, fixedClock(2024, time.March, 15, 13, 0), sched.OccursAt)
	assert.Equal(t, notification.Monthly, sched.Recurrence)
}

func TestParse_DefaultsToOnce(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	sched, err := Parse("Отпуск; 20 Июль; 09:00", now)
	require.NoError(t, err)

	assert.Equal(t, notification.Once, sched.Recurrence)
}

func TestParse_YearRollover(t *testing.T) {
	now := fixedClock(2024, time.June, 1, 12, 0)

	sched, err := Parse("Отчет; 15 Март; 10:00", now)
	require.NoError(t, err)

	assert.Equal(t, 2025, sched.OccursAt.Year())
	assert.Equal(t, time.March, sched.OccursAt.Month())
}

func TestParse_ExactlyNowRollsOver(t *testing.T) {
	// "Not strictly in the future" includes the current minute itself.
	now := fixedClock(2024, time.March, 15, 13, 0)

	sched, err := Parse("Dentist; 15 Март; 13:00", now)
	require.NoError(t, err)

	assert.Equal(t, 2025, sched.OccursAt.Year())
}

func TestParse_GenitiveMonthForm(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	sched, err := Parse("день рождения; 15 марта; 9:30; ежегодно", now)
	require.NoError(t, err)

	assert.Equal(t, "День рождения", sched.Name)
	assert.Equal(t, time.March, sched.OccursAt.Month())
	assert.Equal(t, 9, sched.OccursAt.Hour())
	assert.Equal(t, 30, sched.OccursAt.Minute())
	assert.Equal(t, notification.Yearly, sched.Recurrence)
}

func TestParse_NameCapitalization(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	sched, err := Parse("уборка КВАРТИРЫ; 15 Май; 10:00", now)
	require.NoError(t, err)

	assert.Equal(t, "Уборка квартиры", sched.Name)
}

func TestParse_TimeFormats(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	tests := []struct {
		name   string
		input  string
		hour   int
		minute int
	}{
		{"colon separator", "13:00", 13, 0},
		{"space separator", "13 00", 13, 0},
		{"no leading zero with colon", "9:30", 9, 30},
		{"no leading zero with space", "9 30", 9, 30},
		{"midnight", "00:00", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := Parse("Тест; 15 Май; "+tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, sched.OccursAt.Hour())
			assert.Equal(t, tt.minute, sched.OccursAt.Minute())
		})
	}
}

func TestParse_LeapDay(t *testing.T) {
	t.Run("rejected in a non-leap year", func(t *testing.T) {
		now := fixedClock(2025, time.January, 1, 0, 0)

		_, err := Parse("Тест; 29 Февраль; 10:00", now)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, FieldDate, validationErr.Field)
		assert.Contains(t, validationErr.Message, "29 февраля")
	})

	t.Run("accepted in a leap year", func(t *testing.T) {
		now := fixedClock(2024, time.January, 1, 0, 0)

		sched, err := Parse("Тест; 29 Февраль; 10:00", now)
		require.NoError(t, err)
		assert.Equal(t, 29, sched.OccursAt.Day())
		assert.Equal(t, time.February, sched.OccursAt.Month())
	})

	t.Run("rejected when the rollover lands in a non-leap year", func(t *testing.T) {
		// Feb 29 has already passed in leap-year 2024, so the date would
		// roll over to 2025, where it does not exist. It must be rejected,
		// not silently normalized to March 1.
		now := fixedClock(2024, time.June, 1, 12, 0)

		_, err := Parse("Тест; 29 Февраль; 10:00", now)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, FieldDate, validationErr.Field)
		assert.Contains(t, validationErr.Message, "29 февраля")
	})
}

func TestParse_ValidationFailures(t *testing.T) {
	now := fixedClock(2024, time.June, 1, 12, 0)

	tests := []struct {
		name  string
		input string
		field string
	}{
		{"too few fields", "Тест; 15 Май", FieldStructure},
		{"too many fields", "Тест; 15 Май; 10:00; ежедневно; лишнее", FieldStructure},
		{"empty name", "; 15 Май; 10:00", FieldName},
		{"name too long", strings.Repeat("ы", 101) + "; 15 Май; 10:00", FieldName},
		{"date without month", "Тест; 15; 10:00", FieldDate},
		{"day not a number", "Тест; аб Май; 10:00", FieldDate},
		{"negative day", "Тест; -5 Май; 10:00", FieldDate},
		{"unknown month", "Тест; 15 Мартобрь; 10:00", FieldDate},
		{"day out of month range", "Тест; 31 Апрель; 10:00", FieldDate},
		{"zero day", "Тест; 0 Май; 10:00", FieldDate},
		{"empty time", "Тест; 15 Май; ", FieldTime},
		{"bad separator position", "Тест; 15 Май; 1000", FieldTime},
		{"garbage time", "Тест; 15 Май; ab:cd", FieldTime},
		{"hour out of range", "Тест; 15 Май; 24:00", FieldTime},
		{"minute out of range", "Тест; 15 Май; 12:60", FieldTime},
		{"unknown recurrence", "Тест; 15 Май; 10:00; каждый час", FieldRecurrence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, now)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.NotEmpty(t, validationErr.Message)
		})
	}
}

func TestParse_NameAtMaxLengthAccepted(t *testing.T) {
	now := fixedClock(2024, time.January, 1, 0, 0)

	sched, err := Parse(strings.Repeat("ы", 100)+"; 15 Май; 10:00", now)
	require.NoError(t, err)
	assert.Len(t, []rune(sched.Name), 100)
}

func TestParse_IsDeterministicForFixedClock(t *testing.T) {
	now := fixedClock(2024, time.June, 1, 12, 0)
	input := "Стоматолог; 15 Сентября; 13 00; еженедельно"

	first, err := Parse(input, now)
	require.NoError(t, err)
	second, err := Parse(input, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
