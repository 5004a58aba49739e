package forms

// CodeLength — длина кода подтверждения.
const CodeLength = 6

// CodeInput моделирует ввод кода подтверждения по одной цифре на ячейку:
// ввод цифры двигает фокус вперёд, backspace на пустой ячейке — назад,
// вставка распределяет цифры слева направо.
type CodeInput struct {
	cells [CodeLength]string
	focus int
}

func NewCodeInput() *CodeInput {
	return &CodeInput{}
}

// Focus возвращает индекс ячейки с фокусом.
func (c *CodeInput) Focus() int { return c.focus }

// Cells возвращает содержимое ячеек.
func (c *CodeInput) Cells() [CodeLength]string { return c.cells }

// Code собирает введённый код в строку.
func (c *CodeInput) Code() string {
	out := ""
	for _, cell := range c.cells {
		out += cell
	}
	return out
}

// Enter вводит значение в ячейку i: одна цифра или пустая строка (стирание).
// Другие значения игнорируются. После ввода цифры фокус переходит на
// следующую ячейку, если она есть.
func (c *CodeInput) Enter(i int, value string) {
	if i < 0 || i >= CodeLength {
		return
	}
	if value != "" && (len(value) != 1 || value[0] < '0' || value[0] > '9') {
		return
	}
	c.cells[i] = value
	c.focus = i
	if value != "" && i < CodeLength-1 {
		c.focus = i + 1
	}
}

// Backspace обрабатывает нажатие backspace в ячейке i: на пустой ячейке фокус
// уходит к предыдущей (содержимое не меняется), заполненная ячейка очищается.
func (c *CodeInput) Backspace(i int) {
	if i < 0 || i >= CodeLength {
		return
	}
	if c.cells[i] == "" {
		if i > 0 {
			c.focus = i - 1
		}
		return
	}
	c.cells[i] = ""
	c.focus = i
}

// Paste распределяет вставленную строку из 1–6 цифр по ячейкам слева направо
// и ставит фокус на последнюю заполненную. Невалидная вставка игнорируется.
func (c *CodeInput) Paste(text string) {
	if len(text) > CodeLength {
		text = text[:CodeLength]
	}
	if text == "" {
		return
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return
		}
	}
	c.cells = [CodeLength]string{}
	for i := 0; i < len(text); i++ {
		c.cells[i] = string(text[i])
	}
	c.focus = len(text) - 1
}

// Clear очищает все ячейки и возвращает фокус к первой.
func (c *CodeInput) Clear() {
	c.cells = [CodeLength]string{}
	c.focus = 0
}
