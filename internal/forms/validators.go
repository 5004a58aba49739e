package forms

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Валидаторы полей — чистые функции: пустая строка означает «валидно»,
// иначе возвращается локализованное сообщение для отображения под полем.

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\+7\d{10}$`)
	postalCodeRe = regexp.MustCompile(`^\d{6}$`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
	latinNameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// Email проверяет адрес электронной почты.
func Email(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Электронная почта не должна быть пустой"
	}
	if !emailRe.MatchString(email) {
		return "Электронная почта должна быть валидной"
	}
	return ""
}

// Минимальные длины пароля по ролям: покупателю достаточно 8 символов,
// продавцу и пункту выдачи требуется 10.
const (
	UserPasswordMinLen   = 8
	SellerPasswordMinLen = 10
)

// Password проверяет пароль: минимум min символов, только буквы (латиница
// или кириллица) и цифры, обязательно хотя бы одна буква и одна цифра.
func Password(password string, min int) string {
	msg := "Пароль должен содержать минимум 10 символов, включая буквы и цифры"
	if min == UserPasswordMinLen {
		msg = "Пароль должен содержать минимум 8 символов, включая буквы (латиница или кириллица) и цифры"
	}
	if password == "" {
		return "Пароль не должен быть пустым"
	}
	if len([]rune(password)) < min {
		return msg
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case isPasswordLetter(r):
			hasLetter = true
		default:
			return msg
		}
	}
	if !hasLetter || !hasDigit {
		return msg
	}
	return ""
}

func isPasswordLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= 'А' && r <= 'я') || r == 'Ё' || r == 'ё'
}

// Phone проверяет телефон в формате +7XXXXXXXXXX.
func Phone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "Телефон не должен быть пустым"
	}
	if !phoneRe.MatchString(phone) {
		return "Телефон должен быть в формате +7XXXXXXXXXX"
	}
	return ""
}

// Code проверяет код подтверждения: все шесть ячеек должны быть заполнены.
func Code(code string) string {
	if len(code) == CodeLength && digitsRe.MatchString(code) {
		return ""
	}
	return "Все поля кода должны быть заполнены"
}

// VerificationCode — проверка кода в формах профиля, с пофакторными сообщениями.
func VerificationCode(code string) string {
	if code == "" {
		return "Код подтверждения обязателен"
	}
	if len(code) != CodeLength {
		return "Код должен содержать 6 цифр"
	}
	if !digitsRe.MatchString(code) {
		return "Код должен содержать только цифры"
	}
	return ""
}

// Required проверяет непустоту текстового поля.
func Required(value, fieldName string) string {
	if strings.TrimSpace(value) == "" {
		return fieldName + " не должно быть пустым"
	}
	return ""
}

// Name и Surname — проверки анкеты покупателя.
func Name(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Имя не должно быть пустым"
	}
	return ""
}

func Surname(surname string) string {
	if strings.TrimSpace(surname) == "" {
		return "Фамилия не должна быть пустой"
	}
	return ""
}

// PostalCode — почтовый индекс, ровно 6 цифр.
func PostalCode(code string) string {
	if !postalCodeRe.MatchString(code) {
		return "Почтовый индекс должен содержать 6 цифр"
	}
	return ""
}

// INN — ИНН, ровно 10 цифр.
func INN(inn string) string {
	if len(inn) == 10 && digitsRe.MatchString(inn) {
		return ""
	}
	return "ИНН должен содержать 10 цифр"
}

// BIC — БИК, ровно 9 цифр.
func BIC(bic string) string {
	if len(bic) == 9 && digitsRe.MatchString(bic) {
		return ""
	}
	return "БИК должен содержать 9 цифр"
}

// BankAccount — расчётный счёт, ровно 20 цифр.
func BankAccount(account string) string {
	if len(account) == 20 && digitsRe.MatchString(account) {
		return ""
	}
	return "Номер счета должен содержать 20 цифр"
}

// WorkingHours — режим работы пункта выдачи, осмысленное содержимое.
func WorkingHours(hours string) string {
	if len(strings.TrimSpace(hours)) >= 5 {
		return ""
	}
	return "Укажите режим работы"
}

// CardNumber проверяет номер карты: 16 цифр и контрольная сумма Луна.
func CardNumber(cardNumber string) string {
	clean := strings.ReplaceAll(cardNumber, " ", "")
	if clean == "" {
		return "Номер карты обязателен"
	}
	if len(clean) != 16 || !digitsRe.MatchString(clean) {
		return "Номер карты должен содержать 16 цифр"
	}
	if !luhnCheck(clean) {
		return "Некорректный номер карты"
	}
	return ""
}

// ExpiryDate проверяет срок действия карты в формате MM/YY, включая истечение.
func ExpiryDate(expiryDate string) string {
	if expiryDate == "" {
		return "Срок действия обязателен"
	}
	if !expiryRe.MatchString(expiryDate) {
		return "Формат даты должен быть MM/YY"
	}
	parts := strings.Split(expiryDate, "/")
	expMonth := int(parts[0][0]-'0')*10 + int(parts[0][1]-'0')
	expYear := int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')

	now := time.Now()
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if expYear < curYear || (expYear == curYear && expMonth < curMonth) {
		return "Срок действия карты истек"
	}
	return ""
}

// CVV — трёхзначный код карты.
func CVV(cvv string) string {
	if cvv == "" {
		return "CVV обязателен"
	}
	if !cvvRe.MatchString(cvv) {
		return "CVV должен содержать 3 цифры"
	}
	return ""
}

// CardHolderName — имя держателя карты латиницей.
func CardHolderName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Имя держателя карты обязательно"
	}
	if len([]rune(trimmed)) < 2 {
		return "Имя должно содержать минимум 2 символа"
	}
	if !latinNameRe.MatchString(trimmed) {
		return "Имя должно содержать только латинские буквы и пробелы"
	}
	return ""
}

// luhnCheck — алгоритм Луна для контрольной суммы номера карты.
func luhnCheck(cardNumber string) bool {
	sum := 0
	double := false
	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit := int(cardNumber[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}
