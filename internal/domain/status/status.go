package status

import "errors"

// Status — закрытый перечень статусов позиции заказа.
type Status string

const (
	New           Status = "NEW"
	Processing    Status = "PROCESSING"
	InTransit     Status = "IN_TRANSIT"
	AtPickupPoint Status = "AT_PICKUP_POINT"
	Delivered     Status = "DELIVERED"
	Cancelled     Status = "CANCELLED"
	Returned      Status = "RETURNED"
	Refunded      Status = "REFUNDED"
)

// ColorTag — семантическая категория цвета для отображения статуса.
// Потребители опираются на категорию, а не на конкретный цвет.
type ColorTag string

const (
	ColorBlue    ColorTag = "blue"
	ColorOrange  ColorTag = "orange"
	ColorPurple  ColorTag = "purple"
	ColorGreen   ColorTag = "green"
	ColorSuccess ColorTag = "success"
	ColorDanger  ColorTag = "danger"
	ColorWarning ColorTag = "warning"
	ColorInfo    ColorTag = "info"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// entry описывает один статус целиком: текст, цвет, признак "в пути"
// и допустимые следующие статусы. Порядок записей в таблице задаёт
// приоритет при свёртке статусов заказа, поэтому активное подмножество
// и приоритетный список не могут разойтись.
type entry struct {
	status   Status
	text     string
	color    ColorTag
	inFlight bool
	next     []Status
}

var table = []entry{
	{New, "Новый", ColorBlue, true, []Status{Processing, Cancelled}},
	{Processing, "В обработке", ColorOrange, true, []Status{InTransit, Cancelled}},
	{InTransit, "В пути", ColorPurple, true, []Status{AtPickupPoint, Cancelled}},
	{AtPickupPoint, "В пункте выдачи", ColorGreen, true, []Status{Delivered, Returned}},
	{Delivered, "Доставлен", ColorSuccess, false, []Status{Returned}},
	{Cancelled, "Отменен", ColorDanger, false, nil},
	{Returned, "Возвращен", ColorWarning, false, []Status{Refunded}},
	{Refunded, "Возмещен", ColorInfo, false, nil},
}

func lookup(s Status) (entry, bool) {
	for _, e := range table {
		if e.status == s {
			return e, true
		}
	}
	return entry{}, false
}

// Valid сообщает, принадлежит ли значение закрытому перечню.
func Valid(s Status) bool {
	_, ok := lookup(s)
	return ok
}

// All возвращает все статусы в порядке приоритета (NEW первым, REFUNDED последним).
func All() []Status {
	out := make([]Status, 0, len(table))
	for _, e := range table {
		out = append(out, e.status)
	}
	return out
}

// Text возвращает отображаемый текст статуса. Для любого статуса из перечня
// строка непустая.
func Text(s Status) string {
	if e, ok := lookup(s); ok {
		return e.text
	}
	return ""
}

// Color возвращает цветовую категорию статуса.
func Color(s Status) ColorTag {
	if e, ok := lookup(s); ok {
		return e.color
	}
	return ""
}

// AvailableNext возвращает допустимые следующие статусы.
// CANCELLED и REFUNDED — терминальные, для них список пуст.
func AvailableNext(s Status) []Status {
	e, ok := lookup(s)
	if !ok || len(e.next) == 0 {
		return nil
	}
	out := make([]Status, len(e.next))
	copy(out, e.next)
	return out
}

// CanTransition проверяет, разрешён ли переход from -> to по таблице переходов.
func CanTransition(from, to Status) bool {
	e, ok := lookup(from)
	if !ok {
		return false
	}
	for _, n := range e.next {
		if n == to {
			return true
		}
	}
	return false
}

// Transition валидирует переход; запрошенный вне таблицы переход
// отклоняется и никогда не применяется молча.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// IsTerminal сообщает, является ли статус стоком графа переходов.
func IsTerminal(s Status) bool {
	e, ok := lookup(s)
	return ok && len(e.next) == 0
}

// InFlight сообщает, входит ли статус в активное подмножество
// (заказ с такой позицией ещё не завершён).
func InFlight(s Status) bool {
	e, ok := lookup(s)
	return ok && e.inFlight
}
