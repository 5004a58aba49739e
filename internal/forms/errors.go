package forms

// ErrorRecord — структурированный результат валидации шага. Ключи повторяют
// поля формы; значением может быть либо строка с сообщением, либо вложенный
// ErrorRecord для группы полей (адрес, реквизиты).
type ErrorRecord map[string]any

// Set записывает сообщение по пути полей, создавая вложенные записи по пути.
// Пустое сообщение не записывается: отсутствие ключа и означает «поле валидно».
func (r ErrorRecord) Set(msg string, path ...string) {
	if msg == "" || len(path) == 0 {
		return
	}
	rec := r
	for _, key := range path[:len(path)-1] {
		nested, ok := rec[key].(ErrorRecord)
		if !ok {
			nested = ErrorRecord{}
			rec[key] = nested
		}
		rec = nested
	}
	rec[path[len(path)-1]] = msg
}

// Get возвращает сообщение по пути полей, "" если ошибки нет.
func (r ErrorRecord) Get(path ...string) string {
	rec := r
	for i, key := range path {
		if i == len(path)-1 {
			if msg, ok := rec[key].(string); ok {
				return msg
			}
			return ""
		}
		nested, ok := rec[key].(ErrorRecord)
		if !ok {
			return ""
		}
		rec = nested
	}
	return ""
}

// HasErrors сообщает, есть ли в записи хотя бы одно непустое сообщение
// на любом уровне вложенности.
func HasErrors(r ErrorRecord) bool {
	for _, v := range r {
		switch val := v.(type) {
		case string:
			if val != "" {
				return true
			}
		case ErrorRecord:
			if HasErrors(val) {
				return true
			}
		}
	}
	return false
}
