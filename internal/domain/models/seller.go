package models

// PersonDetail — контактное лицо продавца.
type PersonDetail struct {
	Surname     string `json:"surname"`
	Name        string `json:"name"`
	Patronymic  string `json:"patronymic"`
	PhoneNumber string `json:"phoneNumber"`
}

// PaymentDetail — банковские реквизиты продавца.
type PaymentDetail struct {
	BankAccountNumber string `json:"bankAccountNumber"`
	BankName          string `json:"bankName"`
	BIC               string `json:"bic"`
	AccountHolderName string `json:"accountHolderName"`
	INN               string `json:"inn"`
}

// SellerProfile — сведения о компании.
type SellerProfile struct {
	FullCompanyName  string `json:"fullCompanyName"`
	ShortCompanyName string `json:"shortCompanyName"`
	Description      string `json:"description"`
}

// Seller представляет аккаунт продавца.
type Seller struct {
	ID       int64         `json:"-"`
	Email    string        `json:"email"`
	PassHash []byte        `json:"-"`
	IsActive bool          `json:"isActive"`
	IsLocked bool          `json:"isLocked"`
	Profile  SellerProfile `json:"sellerProfile"`
	Person   PersonDetail  `json:"personDetail"`
	Payment  PaymentDetail `json:"paymentDetail"`
}
