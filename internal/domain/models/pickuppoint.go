package models

// Address — адрес пункта выдачи. Почтовый индекс — ровно 6 цифр.
type Address struct {
	Region     string `json:"region"`
	City       string `json:"city"`
	Street     string `json:"street"`
	House      string `json:"house"`
	PostalCode string `json:"postalCode"`
}

// String собирает отображаемый адрес, по нему работает текстовый поиск
// в истории заказов.
func (a Address) String() string {
	out := a.Street + ", " + a.House + ", " + a.City
	if a.Region != "" {
		out += ", " + a.Region
	}
	return out
}

// PickupPoint представляет аккаунт пункта выдачи.
// PointID генерируется на стороне формы регистрации (UUID).
type PickupPoint struct {
	ID           int64   `json:"-"`
	PointID      string  `json:"id"`
	Email        string  `json:"email"`
	PassHash     []byte  `json:"-"`
	Address      Address `json:"address"`
	WorkingHours string  `json:"workingHours"`
	PhoneNumber  string  `json:"phoneNumber"`
	AddInfo      string  `json:"addInfo,omitempty"`
}
