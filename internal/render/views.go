package render

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ems-dashboard/internal/storage"
)

type Layout int

const (
	// LayoutFull is the orders page table with article, quantity, date and edit action.
	LayoutFull Layout = iota
	// LayoutActive is the dashboard table with a progress bar.
	LayoutActive
)

const (
	fullOrderColumns = 9
	defectColumns    = 8
)

var printer = message.NewPrinter(language.Russian)

// Orders renders one row per order.
func Orders(t Target, orders []storage.Order, layout Layout) {
	if t == nil {
		return
	}

	t.Replace(orderRows(orders, layout))
}

// FilteredOrders renders a filter result; an empty result gets a
// "nothing found" placeholder row instead of an empty table.
func FilteredOrders(t Target, orders []storage.Order) {
	if t == nil {
		return
	}

	nodes := orderRows(orders, LayoutFull)
	if len(orders) == 0 {
		nodes = append(nodes, placeholder(fullOrderColumns, "search_off", "Заказы не найдены", "Попробуйте изменить параметры поиска или фильтры"))
	}
	t.Replace(nodes)
}

func Parameters(t Target, params []storage.Parameter) {
	if t == nil {
		return
	}

	nodes := make([]Node, 0, len(params))
	for _, p := range params {
		nodes = append(nodes, parameterCard(p))
	}
	t.Replace(nodes)
}

func Defects(t Target, defects []storage.Defect) {
	if t == nil {
		return
	}

	t.Replace(defectRows(defects))
}

func FilteredDefects(t Target, defects []storage.Defect) {
	if t == nil {
		return
	}

	nodes := defectRows(defects)
	if len(defects) == 0 {
		nodes = append(nodes, placeholder(defectColumns, "check_circle", "Дефекты не найдены", "Попробуйте изменить параметры фильтра"))
	}
	t.Replace(nodes)
}

// Notice is the visual part of a notification.
type Notice struct {
	ID      string
	Kind    string
	Title   string
	Message string
}

// Notifications renders the stack in arrival order.
func Notifications(t Target, notices []Notice) {
	if t == nil {
		return
	}

	nodes := make([]Node, 0, len(notices))
	for _, n := range notices {
		nodes = append(nodes, Node{
			Kind:  KindNotification,
			Key:   n.ID,
			Class: "notification " + n.Kind,
			Cells: []Cell{
				{Kind: CellIcon, Text: NotificationIcon(n.Kind)},
				{Kind: CellText, Text: n.Title, Class: "notification-title"},
				{Kind: CellText, Text: n.Message, Class: "notification-message"},
				{Kind: CellAction, Text: "close", Class: "notification-close"},
			},
		})
	}
	t.Replace(nodes)
}

func LastUpdate(t Target, at time.Time) {
	if t == nil {
		return
	}

	t.SetText(at.Format("15:04:05"))
}

func orderRows(orders []storage.Order, layout Layout) []Node {
	nodes := make([]Node, 0, len(orders)+1)
	for _, o := range orders {
		nodes = append(nodes, orderRow(o, layout))
	}
	return nodes
}

func orderRow(o storage.Order, layout Layout) Node {
	statusText, statusClass := OrderStatusBadge(string(o.Status))
	priorityText, priorityClass := PriorityBadge(string(o.Priority))

	if layout == LayoutActive {
		return Node{
			Kind: KindRow,
			Key:  o.ID,
			Cells: []Cell{
				{Kind: CellText, Text: o.ID},
				{Kind: CellText, Text: o.Product},
				{Kind: CellBadge, Text: statusText, Class: "status-badge " + statusClass},
				{Kind: CellText, Text: o.CurrentOperation},
				{Kind: CellText, Text: priorityText, Class: priorityClass},
				{Kind: CellProgress, Text: strconv.Itoa(o.Progress) + "%", Percent: float64(o.Progress)},
			},
		}
	}

	return Node{
		Kind: KindRow,
		Key:  o.ID,
		Cells: []Cell{
			{Kind: CellText, Text: o.ID},
			{Kind: CellText, Text: o.Product},
			{Kind: CellText, Text: o.Article},
			{Kind: CellBadge, Text: statusText, Class: "status-badge " + statusClass},
			{Kind: CellText, Text: o.CurrentOperation},
			{Kind: CellText, Text: priorityText, Class: priorityClass},
			{Kind: CellText, Text: FormatQuantity(o.Quantity)},
			{Kind: CellText, Text: o.CreatedAt},
			{Kind: CellAction, Text: "edit", Class: "btn-action"},
		},
	}
}

func parameterCard(p storage.Parameter) Node {
	status := string(p.Status)

	return Node{
		Kind:  KindCard,
		Key:   p.ID,
		Class: "parameter-card " + status,
		Cells: []Cell{
			{Kind: CellText, Text: p.Name, Class: "parameter-name"},
			{Kind: CellBadge, Text: ParameterStatusText(status), Class: "parameter-status " + status},
			{Kind: CellText, Text: FormatValue(p.Value), Class: "parameter-value"},
			{Kind: CellText, Text: p.Unit, Class: "parameter-unit"},
			{
				Kind:    CellRange,
				Text:    FormatValue(p.Min) + p.Unit + " - " + FormatValue(p.Max) + p.Unit,
				Class:   "range-fill " + status,
				Percent: max(0, min(100, percentOfRange(p, p.Value))),
				Markers: []float64{percentOfRange(p, p.WarningMin), percentOfRange(p, p.WarningMax)},
			},
		},
	}
}

func defectRows(defects []storage.Defect) []Node {
	nodes := make([]Node, 0, len(defects)+1)
	for _, d := range defects {
		nodes = append(nodes, defectRow(d))
	}
	return nodes
}

func defectRow(d storage.Defect) Node {
	return Node{
		Kind: KindRow,
		Key:  d.ID,
		Cells: []Cell{
			{Kind: CellText, Text: d.ID},
			{Kind: CellText, Text: d.Batch},
			{Kind: CellText, Text: DefectTypeText(d.Type)},
			{Kind: CellText, Text: d.Cause},
			{Kind: CellText, Text: OperationText(d.Operation)},
			{Kind: CellText, Text: SeverityText(string(d.Severity)), Class: "severity-" + string(d.Severity)},
			{Kind: CellText, Text: d.Date},
			{Kind: CellText, Text: DefectStatusText(string(d.Status))},
		},
	}
}

func placeholder(cols int, icon, title, hint string) Node {
	return Node{
		Kind: KindPlaceholder,
		Cells: []Cell{
			{Kind: CellIcon, Text: icon, ColSpan: cols},
			{Kind: CellText, Text: title},
			{Kind: CellText, Text: hint, Class: "hint"},
		},
	}
}

func percentOfRange(p storage.Parameter, v float64) float64 {
	span := p.Span()
	if span == 0 {
		return 0
	}
	return (v - p.Min) / span * 100
}

// FormatQuantity groups thousands the Russian way.
func FormatQuantity(q int) string {
	return printer.Sprintf("%d", q)
}

// FormatValue rounds to two decimals and drops trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
