package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baseURL = "http://localhost:8080"

// ErrorResponse структура ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}

// CategoryResponse – узел дерева категорий каталога
type CategoryResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Subcategories []CategoryResponse `json:"subcategories,omitempty"`
}

// StatusResponse – справочная карточка статуса заказа
type StatusResponse struct {
	Status    string   `json:"status"`
	Text      string   `json:"text"`
	ColorTag  string   `json:"colorTag"`
	Available []string `json:"availableStatuses"`
}

// сценарий с запросом кода подтверждения
func TestSendCode(t *testing.T) {
	resp, err := http.Post(baseURL+"/api/auth/send_code?email=testuser@gmail.com", "application/json", nil)
	assert.NoError(t, err, "Send code request should not error")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Expected 200 OK for valid email")
}

// сценарий с запросом кода на невалидную почту
func TestSendCodeInvalidEmail(t *testing.T) {
	resp, err := http.Post(baseURL+"/api/auth/send_code?email=not-an-email", "application/json", nil)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for invalid email")

	var errResp ErrorResponse
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	assert.NoError(t, err)
	assert.Equal(t, "Электронная почта должна быть валидной", errResp.Message)
}

// сценарий входа с неверными учетными данными
func TestSignInInvalidCredentials(t *testing.T) {
	reqBody := []byte(`{"email": "nobody@test.com", "password": "wrongpass1"}`)
	resp, err := http.Post(baseURL+"/api/auth/sign_in/with_password/user", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for unknown account")

	var errResp ErrorResponse
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	assert.NoError(t, err)
	assert.Equal(t, "Неверная почта или пароль", errResp.Message)
}

// сценарий входа с пустым телом запроса
func TestSignInEmptyBody(t *testing.T) {
	reqBody := []byte(`{"email": "", "password": ""}`)
	resp, err := http.Post(baseURL+"/api/auth/sign_in/with_password/user", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for empty credentials")
}

// сценарий входа с несуществующей ролью
func TestSignInUnknownRole(t *testing.T) {
	reqBody := []byte(`{"email": "nobody@test.com", "password": "wrongpass1"}`)
	resp, err := http.Post(baseURL+"/api/auth/sign_in/with_password/admin", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "expected 404 for unknown role")
}

// сценарий с запросом заказов без авторизации
func TestListOrdersUnauthorized(t *testing.T) {
	req, err := http.NewRequest("GET", baseURL+"/api/orders", nil)
	assert.NoError(t, err)
	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 unauthorized for missing token")
}

// сценарий с проверкой сессии без токена
func TestCheckUnauthorized(t *testing.T) {
	req, err := http.NewRequest("GET", baseURL+"/api/auth/check", nil)
	assert.NoError(t, err)
	client := &http.Client{}
	resp, err := client.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for missing token")
}

// сценарий с получением дерева категорий каталога
func TestGetCategories(t *testing.T) {
	resp, err := http.Get(baseURL + "/api/categories")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "expected 200 OK for /api/categories")

	var categories []CategoryResponse
	err = json.NewDecoder(resp.Body).Decode(&categories)
	assert.NoError(t, err, "Decoding categories response should succeed")
	assert.NotEmpty(t, categories, "seeded catalog should not be empty")
	for _, c := range categories {
		assert.NotEmpty(t, c.Name)
	}
}

// сценарий с запросом несуществующей категории
func TestGetCategoryNotFound(t *testing.T) {
	resp, err := http.Get(baseURL + "/api/categories/999999")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "expected 404 for unknown category")
}

// сценарий регистрации покупателя со слабым паролем:
// ответ повторяет структуру формы, ошибка лежит под ключом поля
func TestSignUpUserWeakPassword(t *testing.T) {
	reqBody := []byte(`{
		"email": "weakpass@test.com",
		"verifyCode": "123456",
		"password": "short",
		"userProfile": {"surname": "Петров", "name": "Иван"}
	}`)
	resp, err := http.Post(baseURL+"/api/auth/sign_up/user", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "expected 400 for weak password")

	var fieldErrors map[string]any
	err = json.NewDecoder(resp.Body).Decode(&fieldErrors)
	assert.NoError(t, err)
	assert.Contains(t, fieldErrors, "password")
}

// сценарий регистрации покупателя с чужим кодом подтверждения
func TestSignUpUserInvalidCode(t *testing.T) {
	reqBody := []byte(`{
		"email": "nocode@test.com",
		"verifyCode": "000000",
		"password": "abc12345",
		"userProfile": {"surname": "Петров", "name": "Иван"}
	}`)
	resp, err := http.Post(baseURL+"/api/auth/sign_up/user", "application/json", bytes.NewBuffer(reqBody))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for unknown verification code")

	var errResp ErrorResponse
	err = json.NewDecoder(resp.Body).Decode(&errResp)
	assert.NoError(t, err)
	assert.Equal(t, "Неверный или устаревший код подтверждения", errResp.Message)
}
