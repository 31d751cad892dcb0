// Package i18n is a two-locale message table keyed by dotted path.
// Values may carry {{name}} placeholders substituted via T.
package i18n

import "strings"

// Locale selects a message table.
type Locale string

const (
	EN Locale = "en"
	RU Locale = "ru"
)

// Default is the locale used when none is configured.
const Default = EN

// Parse maps a config/profile language value onto a supported locale.
func Parse(s string) Locale {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ru", "ru-ru", "russian":
		return RU
	default:
		return Default
	}
}

// T resolves key in the given locale, substituting {{name}} placeholders
// from alternating name/value argument pairs. Unknown keys fall back to
// the English table, then to the key itself.
func T(loc Locale, key string, args ...string) string {
	msg, ok := tables[loc][key]
	if !ok {
		msg, ok = tables[Default][key]
	}
	if !ok {
		return key
	}
	for i := 0; i+1 < len(args); i += 2 {
		msg = strings.ReplaceAll(msg, "{{"+args[i]+"}}", args[i+1])
	}
	return msg
}

var tables = map[Locale]map[string]string{
	EN: {
		"validation.required":  "An answer to this question is required",
		"validation.invalid":   "The answer has an invalid format",
		"validation.multiMin":  "Select at least {{count}} answers",
		"validation.multiMax":  "Select at most {{count}} answers",
		"validation.maxLength": "The answer must be at most {{count}} characters",
		"validation.numberMin": "The number must not be less than {{min}}",
		"validation.numberMax": "The number must not exceed {{max}}",
		"validation.email":     "Enter a valid email",

		"survey.states.DRAFT":  "Draft",
		"survey.states.ACTIVE": "Active",

		"stats.generalTitle":         "General Statistics",
		"stats.startedInterviews":    "Started interviews: {{count}}",
		"stats.completedInterviews":  "Completed interviews: {{count}}",
		"stats.completionPercentage": "Completion percentage: {{percentage}}%",
		"stats.averageCompletionTime": "Average completion time: {{time}}s",
		"stats.noData":               "Statistics data unavailable",
		"stats.agree":                "Agree",
		"stats.disagree":             "Disagree",
		"stats.averageRating":        "Average rating: {{avg}}",
		"stats.star":                 "{{star}} star",
		"stats.times":                "{{count}} times",
		"stats.andAbove":             "and above",
		"stats.showRemaining":        "Use --all to show the remaining answers",

		"csv.generalTitle": "General statistics",
		"csv.started":      "Started interviews",
		"csv.completed":    "Completed interviews",
		"csv.averageTime":  "Average completion time",
		"csv.question":     "Question: {{label}}",
		"csv.type":         "Type: {{type}}",
		"csv.averageRating": "Average rating",

		"params.required":        "Required",
		"params.minAnswersCount": "Minimum Answers Count",
		"params.maxAnswersCount": "Maximum Answers Count",
		"params.maxLength":       "Maximum Length",
		"params.minNumber":       "Minimum Number",
		"params.maxNumber":       "Maximum Number",
		"params.starsCount":      "Number of Stars",
		"params.minDate":         "Minimum Date",
		"params.maxDate":         "Maximum Date",
	},
	RU: {
		"validation.required":  "Необходимо ответить на этот вопрос",
		"validation.invalid":   "Ответ имеет неверный формат",
		"validation.multiMin":  "Необходимо выбрать не менее {{count}} ответов",
		"validation.multiMax":  "Необходимо выбрать не более {{count}} ответов",
		"validation.maxLength": "Максимальная длина ответа {{count}} символов",
		"validation.numberMin": "Число не должно быть меньше {{min}}",
		"validation.numberMax": "Число не должно превышать {{max}}",
		"validation.email":     "Введите корректный email",

		"survey.states.DRAFT":  "Черновик",
		"survey.states.ACTIVE": "Активный",

		"stats.generalTitle":         "Общая статистика",
		"stats.startedInterviews":    "Начато интервью: {{count}}",
		"stats.completedInterviews":  "Завершено интервью: {{count}}",
		"stats.completionPercentage": "Процент завершения: {{percentage}}%",
		"stats.averageCompletionTime": "Среднее время прохождения анкеты: {{time}}с",
		"stats.noData":               "Данные статистики недоступны",
		"stats.agree":                "Согласны",
		"stats.disagree":             "Не согласны",
		"stats.averageRating":        "Средний рейтинг: {{avg}}",
		"stats.star":                 "{{star}} звезда",
		"stats.times":                "{{count}} раз",
		"stats.andAbove":             "и выше",
		"stats.showRemaining":        "Используйте --all, чтобы показать остальные ответы",

		"csv.generalTitle": "Общая статистика",
		"csv.started":      "Начато интервью",
		"csv.completed":    "Завершено интервью",
		"csv.averageTime":  "Среднее время прохождение анкеты",
		"csv.question":     "Вопрос: {{label}}",
		"csv.type":         "Тип: {{type}}",
		"csv.averageRating": "Средний рейтинг",

		"params.required":        "Обязательный",
		"params.minAnswersCount": "Минимальное количество ответов",
		"params.maxAnswersCount": "Максимальное количество ответов",
		"params.maxLength":       "Максимальная длина",
		"params.minNumber":       "Минимальное число",
		"params.maxNumber":       "Максимальное число",
		"params.starsCount":      "Количество звёзд",
		"params.minDate":         "Минимальная дата",
		"params.maxDate":         "Максимальная дата",
	},
}
