package simulator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"ems-dashboard/internal/service/notify"
)

const (
	followUpDelay  = 3 * time.Second
	followUpChance = 0.5
	randomChance   = 0.3
)

type announcement struct {
	kind    notify.Kind
	title   string
	message string
}

var cannedAnnouncements = []announcement{
	{notify.KindInfo, "Заказ завершен", "Заказ PO-2024-00127 успешно завершен"},
	{notify.KindWarning, "Низкая производительность", "Линия L-02 показывает снижение производительности"},
	{notify.KindError, "Обнаружен дефект", "В партии BATCH-2024-003 обнаружены критические дефекты"},
	{notify.KindInfo, "Плановое обслуживание", "Запланировано техническое обслуживание линии L-01"},
}

// Announcer emits the background notifications an operator sees without
// doing anything: the startup greeting and occasional canned events.
type Announcer struct {
	log      *slog.Logger
	clock    clockwork.Clock
	notifier Notifier
	rng      Rand

	mu       sync.Mutex
	followUp clockwork.Timer
}

func NewAnnouncer(log *slog.Logger, clock clockwork.Clock, notifier Notifier, rng Rand) *Announcer {
	return &Announcer{log: log, clock: clock, notifier: notifier, rng: rng}
}

// Startup announces the system start and, half the time, schedules a
// near-limit warning a few seconds later.
func (a *Announcer) Startup(ctx context.Context) {
	a.notifier.Notify(ctx, notify.KindInfo,
		"Система запущена",
		"Производственная система Milar EMS успешно инициализирована",
		0,
	)

	if a.rng.Float64() <= followUpChance {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.followUp = a.clock.AfterFunc(followUpDelay, func() {
		if ctx.Err() != nil {
			return
		}
		a.notifier.Notify(ctx, notify.KindWarning,
			"Параметр близок к границе",
			"Температура пайки приближается к верхнему пределу",
			0,
		)
	})
}

// Random picks a canned announcement and shows it with a 30% chance.
func (a *Announcer) Random(ctx context.Context) {
	pick := cannedAnnouncements[int(a.rng.Float64()*float64(len(cannedAnnouncements)))%len(cannedAnnouncements)]

	if a.rng.Float64() >= randomChance {
		return
	}

	a.log.Debug("random announcement", slog.String("title", pick.title))
	a.notifier.Notify(ctx, pick.kind, pick.title, pick.message, 0)
}

// Stop cancels a pending follow-up.
func (a *Announcer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.followUp != nil {
		a.followUp.Stop()
	}
}
