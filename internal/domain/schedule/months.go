package schedule

// monthNames lists the canonical (nominative) month names in calendar order.
// Its order is also used to build the month-list error message.
var monthNames = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// monthDays is the fixed per-month day-count table used for input validation.
// February is 29 here; the 29th is separately rejected outside leap years.
var monthDays = map[string]int{
	"Январь":   31,
	"Февраль":  29,
	"Март":     31,
	"Апрель":   30,
	"Май":      31,
	"Июнь":     30,
	"Июль":     31,
	"Август":   31,
	"Сентябрь": 30,
	"Октябрь":  31,
	"Ноябрь":   30,
	"Декабрь":  31,
}

// genitiveMonths maps the genitive forms users naturally type ("15 марта")
// to the nominative forms the tables are keyed by.
var genitiveMonths = map[string]string{
	"января":   "январь",
	"февраля":  "февраль",
	"марта":    "март",
	"апреля":   "апрель",
	"мая":      "май",
	"июня":     "июнь",
	"июля":     "июль",
	"августа":  "август",
	"сентября": "сентябрь",
	"октября":  "октябрь",
	"ноября":   "ноябрь",
	"декабря":  "декабрь",
}
