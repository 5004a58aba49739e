package forms_test

import (
	"testing"

	"github.com/limarket/marketplace/internal/forms"
	"github.com/stretchr/testify/assert"
)

func TestCodeInput_EnterAdvancesFocus(t *testing.T) {
	c := forms.NewCodeInput()

	c.Enter(0, "1")
	assert.Equal(t, 1, c.Focus())
	c.Enter(1, "2")
	assert.Equal(t, 2, c.Focus())
	assert.Equal(t, "12", c.Code())

	// Последняя ячейка: фокус остаётся на месте
	c.Enter(5, "9")
	assert.Equal(t, 5, c.Focus())
}

func TestCodeInput_EnterRejectsNonDigits(t *testing.T) {
	c := forms.NewCodeInput()

	c.Enter(0, "a")
	c.Enter(0, "12")
	assert.Empty(t, c.Code())
	assert.Equal(t, 0, c.Focus())
}

func TestCodeInput_BackspaceOnEmptyCellMovesFocusBack(t *testing.T) {
	c := forms.NewCodeInput()
	c.Paste("12345")

	// Шестая ячейка пуста: backspace двигает фокус назад, содержимое не трогает
	c.Backspace(5)
	assert.Equal(t, 4, c.Focus())
	assert.Equal(t, "12345", c.Code())

	// Первая ячейка: двигаться некуда
	c.Clear()
	c.Backspace(0)
	assert.Equal(t, 0, c.Focus())
}

func TestCodeInput_BackspaceClearsFilledCell(t *testing.T) {
	c := forms.NewCodeInput()
	c.Paste("123456")

	c.Backspace(5)
	assert.Equal(t, "12345", c.Code())
	assert.Equal(t, 5, c.Focus())
}

func TestCodeInput_Paste(t *testing.T) {
	c := forms.NewCodeInput()

	c.Paste("123456")
	assert.Equal(t, "123456", c.Code())
	assert.Equal(t, 5, c.Focus())

	// Частичная вставка: фокус на последней заполненной ячейке
	c.Clear()
	c.Paste("987")
	assert.Equal(t, "987", c.Code())
	assert.Equal(t, 2, c.Focus())

	// Лишние символы обрезаются до шести
	c.Clear()
	c.Paste("12345678")
	assert.Equal(t, "123456", c.Code())

	// Вставка с нецифровыми символами игнорируется
	c.Clear()
	c.Paste("12a456")
	assert.Empty(t, c.Code())
}

func TestCodeInput_Clear(t *testing.T) {
	c := forms.NewCodeInput()
	c.Paste("123456")

	c.Clear()
	assert.Empty(t, c.Code())
	assert.Equal(t, 0, c.Focus())
	for _, cell := range c.Cells() {
		assert.Empty(t, cell)
	}
}
