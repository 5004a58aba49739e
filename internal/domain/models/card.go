package models

// Типы платёжных карт, определяются по префиксу номера.
const (
	CardTypeVisa       = "VISA"
	CardTypeMastercard = "MASTERCARD"
	CardTypeMir        = "MIR"
	CardTypeUnknown    = "UNKNOWN"
)

// PaymentCard — сохранённая карта покупателя. Полный номер не хранится,
// только последние четыре цифры и тип.
type PaymentCard struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"-"`
	LastFourDigits string `json:"lastFourDigits"`
	CardType       string `json:"cardType"`
	ExpiryDate     string `json:"expiryDate"` // формат MM/YY
	CardHolderName string `json:"cardHolderName"`
	IsDefault      bool   `json:"isDefault"`
}

// CardTypeOf определяет платёжную систему по номеру карты.
// Диапазон 22-27 относится к Mastercard, остальные номера на 2 — к МИР.
func CardTypeOf(cardNumber string) string {
	if cardNumber == "" {
		return CardTypeUnknown
	}
	switch {
	case cardNumber[0] == '4':
		return CardTypeVisa
	case len(cardNumber) >= 2 && cardNumber[0] == '5' && cardNumber[1] >= '1' && cardNumber[1] <= '5':
		return CardTypeMastercard
	case len(cardNumber) >= 2 && cardNumber[0] == '2' && cardNumber[1] >= '2' && cardNumber[1] <= '7':
		return CardTypeMastercard
	case cardNumber[0] == '2':
		return CardTypeMir
	default:
		return CardTypeUnknown
	}
}
