package memory

import "ems-dashboard/internal/storage"

func seedOrders() []storage.Order {
	return []storage.Order{
		{
			ID:               "PO-2024-00123",
			Product:          "Контроллер PLC-100",
			Article:          "PLC-100-01",
			Status:           storage.OrderInProgress,
			CurrentOperation: "Пайка компонентов",
			Priority:         storage.PriorityHigh,
			Quantity:         1000,
			CreatedAt:        "2024-01-15",
			Progress:         65,
		},
		{
			ID:               "PO-2024-00124",
			Product:          "Датчик температуры",
			Article:          "TEMP-SENSOR-02",
			Status:           storage.OrderPlanned,
			CurrentOperation: "Планирование",
			Priority:         storage.PriorityMedium,
			Quantity:         5000,
			CreatedAt:        "2024-01-16",
			Progress:         0,
		},
		{
			ID:               "PO-2024-00125",
			Product:          "Модуль связи",
			Article:          "COMM-MODULE-05",
			Status:           storage.OrderInProgress,
			CurrentOperation: "Тестирование",
			Priority:         storage.PriorityHigh,
			Quantity:         2000,
			CreatedAt:        "2024-01-14",
			Progress:         30,
		},
		{
			ID:               "PO-2024-00126",
			Product:          "Блок питания",
			Article:          "PWR-SUPPLY-12",
			Status:           storage.OrderPaused,
			CurrentOperation: "Монтаж",
			Priority:         storage.PriorityLow,
			Quantity:         800,
			CreatedAt:        "2024-01-13",
			Progress:         45,
		},
		{
			ID:               "PO-2024-00127",
			Product:          "Интерфейсная плата",
			Article:          "IF-BOARD-08",
			Status:           storage.OrderCompleted,
			CurrentOperation: "Завершено",
			Priority:         storage.PriorityMedium,
			Quantity:         3000,
			CreatedAt:        "2024-01-10",
			Progress:         100,
		},
	}
}

// seedParameters derives each status from the seeded value so the collection
// starts consistent with its bounds.
func seedParameters() []storage.Parameter {
	params := []storage.Parameter{
		{ID: "temp_soldering", Name: "Температура пайки", Value: 245, Unit: "°C", Min: 230, Max: 260, WarningMin: 235, WarningMax: 255},
		{ID: "pressure_reflow", Name: "Давление рефлоу", Value: 1.2, Unit: "атм", Min: 1.0, Max: 1.5, WarningMin: 1.1, WarningMax: 1.4},
		{ID: "concentration_flux", Name: "Концентрация флюса", Value: 8.5, Unit: "%", Min: 7.0, Max: 9.0, WarningMin: 7.5, WarningMax: 8.8},
		{ID: "speed_conveyor", Name: "Скорость конвейера", Value: 1.8, Unit: "м/мин", Min: 1.5, Max: 2.2, WarningMin: 1.6, WarningMax: 2.1},
	}

	for i := range params {
		params[i] = params[i].WithValue(params[i].Value)
	}

	return params
}

func seedDefects() []storage.Defect {
	return []storage.Defect{
		{
			ID:        "DEF-001",
			Batch:     "BATCH-2024-001",
			Type:      "solder_bridge",
			Cause:     "Перегрев при пайке",
			Operation: "soldering",
			Severity:  storage.SeverityMajor,
			Date:      "2024-01-15 14:30",
			Status:    storage.DefectOpen,
		},
		{
			ID:        "DEF-002",
			Batch:     "BATCH-2024-002",
			Type:      "component_missing",
			Cause:     "Ошибка установки",
			Operation: "mounting",
			Severity:  storage.SeverityCritical,
			Date:      "2024-01-15 16:45",
			Status:    storage.DefectInProgress,
		},
		{
			ID:        "DEF-003",
			Batch:     "BATCH-2024-003",
			Type:      "test_failure",
			Cause:     "Несоответствие параметров",
			Operation: "testing",
			Severity:  storage.SeverityMinor,
			Date:      "2024-01-16 09:15",
			Status:    storage.DefectResolved,
		},
	}
}
