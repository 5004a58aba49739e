package models

// Роли аккаунтов. Роль входит в JWT и определяет доступные разделы API.
const (
	RoleUser        = "user"
	RoleSeller      = "seller"
	RolePickupPoint = "pickup_point"
)

// UserProfile — анкетные данные покупателя.
type UserProfile struct {
	Surname     string `json:"surname"`
	Name        string `json:"name"`
	Patronymic  string `json:"patronymic"`
	PhoneNumber string `json:"phoneNumber"`
}

// User представляет аккаунт покупателя.
type User struct {
	ID       int64       `json:"-"`
	Email    string      `json:"email"`
	PassHash []byte      `json:"-"`
	Role     string      `json:"role"`
	IsActive bool        `json:"isActive"`
	IsLocked bool        `json:"isLocked"`
	Profile  UserProfile `json:"userProfile"`
}
