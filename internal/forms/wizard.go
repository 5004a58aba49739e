package forms

import (
	"context"
	"fmt"
	"net/http"
)

// Values — состояние формы: значения полей по составным ключам
// (например "person.surname" или "address.postalCode").
type Values map[string]string

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// RemoteError — ошибка внешнего вызова (отправка кода, создание аккаунта),
// классифицируемая по HTTP-статусу ответа.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call failed: status %d: %s", e.StatusCode, e.Message)
}

// Step — один шаг мастера. Validate возвращает ошибки полей шага по полному
// состоянию формы; OnAdvance — побочное действие при переходе вперёд
// (например, отправка кода подтверждения после ввода почты).
type Step struct {
	Name      string
	Validate  func(v Values) ErrorRecord
	OnAdvance func(ctx context.Context, v Values) error
}

// Wizard — многошаговая форма: переход к следующему шагу открывается только
// при пустой записи ошибок текущего. На последнем шаге вместо перехода
// выполняется Submit. Любая ошибка внешнего вызова при отправке полностью
// сбрасывает форму на первый шаг — частичное восстановление не поддерживается.
type Wizard struct {
	steps  []Step
	submit func(ctx context.Context, v Values) error

	step   int // 1-based, как нумеруются шаги в формах
	values Values
	done   bool
}

func NewWizard(steps []Step, submit func(ctx context.Context, v Values) error) *Wizard {
	return &Wizard{
		steps:  steps,
		submit: submit,
		step:   1,
		values: Values{},
	}
}

// Step возвращает номер текущего шага (с единицы).
func (w *Wizard) Step() int { return w.step }

// Steps возвращает количество шагов мастера.
func (w *Wizard) Steps() int { return len(w.steps) }

// Done сообщает, завершена ли форма успешной отправкой.
func (w *Wizard) Done() bool { return w.done }

// Set записывает значение поля.
func (w *Wizard) Set(key, value string) { w.values[key] = value }

// Get возвращает значение поля.
func (w *Wizard) Get(key string) string { return w.values[key] }

// Values возвращает копию состояния формы.
func (w *Wizard) Values() Values { return w.values.Clone() }

// ValidateStep — чистая проверка шага по текущему состоянию формы.
func (w *Wizard) ValidateStep(step int) ErrorRecord {
	if step < 1 || step > len(w.steps) {
		return ErrorRecord{}
	}
	if w.steps[step-1].Validate == nil {
		return ErrorRecord{}
	}
	return w.steps[step-1].Validate(w.values)
}

// Advance валидирует текущий шаг и двигает форму вперёд. Возвращаемая запись
// пуста при успешном переходе (или успешной отправке на последнем шаге);
// непустая запись означает, что форма осталась на месте и ошибки нужно
// показать пользователю.
func (w *Wizard) Advance(ctx context.Context) ErrorRecord {
	stepErrors := w.ValidateStep(w.step)
	if HasErrors(stepErrors) {
		return stepErrors
	}

	cur := w.steps[w.step-1]
	if w.step < len(w.steps) {
		if cur.OnAdvance != nil {
			if err := cur.OnAdvance(ctx, w.values); err != nil {
				stepErrors.Set("Ошибка при отправке кода", "email")
				return stepErrors
			}
		}
		w.step++
		return stepErrors
	}

	if w.submit != nil {
		if err := w.submit(ctx, w.values); err != nil {
			stepErrors.Set(classifyRemote(err), "email")
			w.Reset()
			return stepErrors
		}
	}
	w.done = true
	return stepErrors
}

// Back возвращает форму на предыдущий шаг без валидации.
func (w *Wizard) Back() {
	if w.step > 1 {
		w.step--
	}
}

// Reset очищает все введённые значения и возвращает форму на первый шаг.
func (w *Wizard) Reset() {
	w.values = Values{}
	w.step = 1
	w.done = false
}

// classifyRemote переводит ошибку внешнего вызова в сообщение пользователю.
// 401/404 — ошибка учётных данных или поиска, 409 — конфликт (занятая почта):
// показывается сообщение сервера; остальное — общее «попробуйте позже».
func classifyRemote(err error) string {
	const fallback = "Ошибка при создании аккаунта, попробуйте попытку позже!"
	remote, ok := err.(*RemoteError)
	if !ok {
		return fallback
	}
	switch remote.StatusCode {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict:
		if remote.Message != "" {
			return remote.Message
		}
	}
	return fallback
}
