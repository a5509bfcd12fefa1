package render

type badge struct {
	text  string
	class string
}

var orderStatusBadges = map[string]badge{
	"planned":     {"Планируется", "status-planned"},
	"in_progress": {"В работе", "status-in-progress"},
	"paused":      {"На паузе", "status-paused"},
	"completed":   {"Завершен", "status-completed"},
}

var priorityBadges = map[string]badge{
	"high":   {"Высокий", "priority-high"},
	"medium": {"Средний", "priority-medium"},
	"low":    {"Низкий", "priority-low"},
}

var parameterStatusText = map[string]string{
	"normal":   "Норма",
	"warning":  "Предупреждение",
	"critical": "Критично",
}

var defectTypeText = map[string]string{
	"solder_bridge":     "Перемычка припоя",
	"component_missing": "Отсутствующий компонент",
	"misalignment":      "Смещение",
	"damage":            "Повреждение",
	"test_failure":      "Неудачное тестирование",
}

var operationText = map[string]string{
	"soldering": "Пайка",
	"mounting":  "Монтаж",
	"testing":   "Тестирование",
	"packaging": "Упаковка",
}

var severityText = map[string]string{
	"minor":    "Мелкий",
	"major":    "Значительный",
	"critical": "Критический",
}

var defectStatusText = map[string]string{
	"open":        "Открыт",
	"in_progress": "В работе",
	"resolved":    "Решен",
}

var notificationIcons = map[string]string{
	"info":    "info",
	"warning": "warning",
	"error":   "error",
}

// Unknown order statuses render as planned, unknown priorities as medium.
func OrderStatusBadge(status string) (text, class string) {
	b, ok := orderStatusBadges[status]
	if !ok {
		b = orderStatusBadges["planned"]
	}
	return b.text, b.class
}

func PriorityBadge(priority string) (text, class string) {
	b, ok := priorityBadges[priority]
	if !ok {
		b = priorityBadges["medium"]
	}
	return b.text, b.class
}

func ParameterStatusText(status string) string {
	if t, ok := parameterStatusText[status]; ok {
		return t
	}
	return parameterStatusText["normal"]
}

func DefectTypeText(t string) string { return lookup(defectTypeText, t) }
func OperationText(op string) string { return lookup(operationText, op) }
func SeverityText(s string) string { return lookup(severityText, s) }
func DefectStatusText(status string) string { return lookup(defectStatusText, status) }

func NotificationIcon(kind string) string {
	if icon, ok := notificationIcons[kind]; ok {
		return icon
	}
	return "info"
}

func lookup(table map[string]string, key string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return key
}
