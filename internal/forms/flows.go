package forms

import (
	"context"

	"github.com/google/uuid"
)

// Конкретные мастера приложения. Каждый собирается из общих шагов и
// валидаторов; побочные действия (отправка кода, создание аккаунта)
// передаются снаружи.

// Action — внешний вызов, выполняемый при переходе или отправке формы.
type Action func(ctx context.Context, v Values) error

// SendCodeAction заворачивает отправку кода подтверждения на почту.
func SendCodeAction(send func(ctx context.Context, email string) error, emailKey string) func(ctx context.Context, v Values) error {
	return func(ctx context.Context, v Values) error {
		return send(ctx, v[emailKey])
	}
}

// UserSignUp — регистрация покупателя: почта → код → пароль → анкета.
func UserSignUp(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "email",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["email"]), "email")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Code(v["verifyCode"]), "verifyCode")
				return rec
			},
		},
		{
			Name: "password",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Password(v["password"], UserPasswordMinLen), "password")
				return rec
			},
		},
		{
			Name: "profile",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Name(v["userProfile.name"]), "userProfile", "name")
				rec.Set(Surname(v["userProfile.surname"]), "userProfile", "surname")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// SellerSignUp — регистрация продавца: почта → код → пароль → контактное
// лицо → компания → банковские реквизиты.
func SellerSignUp(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "email",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["email"]), "email")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Code(v["code"]), "code")
				return rec
			},
		},
		{
			Name: "password",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Password(v["password"], SellerPasswordMinLen), "password")
				return rec
			},
		},
		{
			Name: "person",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Required(v["person.surname"], "Фамилия"), "person", "surname")
				rec.Set(Required(v["person.name"], "Имя"), "person", "name")
				rec.Set(Phone(v["person.phoneNumber"]), "person", "phoneNumber")
				return rec
			},
		},
		{
			Name: "company",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Required(v["fullCompanyName"], "Полное название компании"), "fullCompanyName")
				rec.Set(Required(v["shortCompanyName"], "Краткое название компании"), "shortCompanyName")
				return rec
			},
		},
		{
			Name: "payment",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Required(v["paymentDetail.bankName"], "Название банка"), "paymentDetail", "bankName")
				rec.Set(BankAccount(v["paymentDetail.bankAccountNumber"]), "paymentDetail", "bankAccountNumber")
				rec.Set(BIC(v["paymentDetail.bic"]), "paymentDetail", "bic")
				rec.Set(Required(v["paymentDetail.accountHolderName"], "Владелец счета"), "paymentDetail", "accountHolderName")
				rec.Set(INN(v["paymentDetail.inn"]), "paymentDetail", "inn")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// PickupPointSignUp — регистрация пункта выдачи: почта → код → пароль →
// адрес → режим работы и контакты. Идентификатор пункта генерируется
// при переходе от адреса к последнему шагу.
func PickupPointSignUp(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "email",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["email"]), "email")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Code(v["code"]), "code")
				return rec
			},
		},
		{
			Name: "password",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Password(v["password"], SellerPasswordMinLen), "password")
				return rec
			},
		},
		{
			Name: "address",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Required(v["address.region"], "Регион"), "address", "region")
				rec.Set(Required(v["address.city"], "Город"), "address", "city")
				rec.Set(Required(v["address.street"], "Улица"), "address", "street")
				rec.Set(Required(v["address.house"], "Дом"), "address", "house")
				rec.Set(PostalCode(v["address.postalCode"]), "address", "postalCode")
				return rec
			},
			OnAdvance: func(ctx context.Context, v Values) error {
				v["id"] = uuid.NewString()
				return nil
			},
		},
		{
			Name: "details",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(WorkingHours(v["workingHours"]), "workingHours")
				rec.Set(Phone(v["phoneNumber"]), "phoneNumber")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// SignInWithCode — вход по одноразовому коду: почта → код.
func SignInWithCode(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "email",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["email"]), "email")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Code(v["verifyCode"]), "verifyCode")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// SignInWithPassword — вход по паролю, один шаг.
func SignInWithPassword(submit Action) *Wizard {
	steps := []Step{
		{
			Name: "credentials",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["email"]), "email")
				rec.Set(Required(v["password"], "Пароль"), "password")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// EmailUpdate — смена почты в профиле: новая почта → код подтверждения.
func EmailUpdate(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "email",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(Email(v["newEmail"]), "newEmail")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(VerificationCode(v["verificationCode"]), "verificationCode")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// PasswordUpdate — смена пароля в профиле: текущий и новый пароли → код.
func PasswordUpdate(sendCode Action, submit Action) *Wizard {
	steps := []Step{
		{
			Name: "passwords",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				if v["currentPassword"] == "" {
					rec.Set("Текущий пароль обязателен", "currentPassword")
				}
				rec.Set(Password(v["newPassword"], UserPasswordMinLen), "newPassword")
				return rec
			},
			OnAdvance: sendCode,
		},
		{
			Name: "code",
			Validate: func(v Values) ErrorRecord {
				rec := ErrorRecord{}
				rec.Set(VerificationCode(v["verificationCode"]), "verificationCode")
				return rec
			},
		},
	}
	return NewWizard(steps, submit)
}

// ValidatePaymentCard проверяет все поля формы добавления карты разом.
func ValidatePaymentCard(cardNumber, expiryDate, cvv, cardHolderName string) ErrorRecord {
	rec := ErrorRecord{}
	rec.Set(CardNumber(cardNumber), "cardNumber")
	rec.Set(ExpiryDate(expiryDate), "expiryDate")
	rec.Set(CVV(cvv), "cvv")
	rec.Set(CardHolderName(cardHolderName), "cardHolderName")
	return rec
}

// ValidateAll прогоняет валидаторы всех шагов мастера по полному состоянию
// формы и сливает результаты. Используется на сервере, где анкета приходит
// целиком, а не по шагам.
func ValidateAll(w *Wizard, v Values) ErrorRecord {
	merged := ErrorRecord{}
	for _, step := range w.steps {
		if step.Validate == nil {
			continue
		}
		mergeRecords(merged, step.Validate(v))
	}
	return merged
}

func mergeRecords(dst, src ErrorRecord) {
	for key, val := range src {
		switch typed := val.(type) {
		case ErrorRecord:
			nested, ok := dst[key].(ErrorRecord)
			if !ok {
				nested = ErrorRecord{}
				dst[key] = nested
			}
			mergeRecords(nested, typed)
		case string:
			if typed != "" {
				dst[key] = typed
			}
		}
	}
}
