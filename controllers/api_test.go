package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldpro-backend/config"
	"fieldpro-backend/controllers"
	"fieldpro-backend/models"
	"fieldpro-backend/routes"
	"fieldpro-backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAPI(t *testing.T) *gin.Engine {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.UserSettings{}, &models.Customer{},
		&models.Technician{}, &models.Appointment{}, &models.Bill{},
		&models.BillLineItem{}, &models.Photo{}, &models.Settings{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db

	if err := config.EnsureSettings(db); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	store, err := services.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	controllers.PhotoStore = store

	return routes.SetupRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "dispatch@example.com",
		"name":     "Dispatch",
		"password": "longenough",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatalf("no token in register response")
	}
	return resp.Token
}

func TestRequestsWithoutTokenAreUnauthorized(t *testing.T) {
	r := setupAPI(t)

	for _, path := range []string{"/api/customers", "/api/appointments", "/api/bills"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, w.Code)
		}
	}
}

func TestAppointmentBillingFlowOverHTTP(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	// Create a customer
	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"first_name": "Ray",
		"last_name":  "Fields",
		"email":      "ray@example.com",
		"phone":      "1234567890",
		"address":    "12 Elm St",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer: %d %s", w.Code, w.Body.String())
	}
	var customer models.Customer
	decode(t, w, &customer)

	// Create an appointment: its draft bill must appear automatically
	w = doJSON(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"customer_id":      customer.ID,
		"appointment_date": "2026-09-14",
		"start_time":       "09:00",
		"end_time":         "11:00",
		"description":      "Fix sink",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create appointment: %d %s", w.Code, w.Body.String())
	}
	var appt models.Appointment
	decode(t, w, &appt)
	if appt.Status != models.AppointmentScheduled || appt.Priority != models.PriorityMedium {
		t.Errorf("defaults not applied: status=%q priority=%q", appt.Status, appt.Priority)
	}

	w = doJSON(t, r, http.MethodGet, "/api/bills?appointment="+appt.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list bills: %d %s", w.Code, w.Body.String())
	}
	var bills []models.Bill
	decode(t, w, &bills)
	if len(bills) != 1 {
		t.Fatalf("expected 1 linked bill, got %d", len(bills))
	}
	bill := bills[0]
	if bill.Type != models.BillTypeBill || bill.Status != models.BillDraft {
		t.Errorf("bill type/status = %q/%q, want bill/draft", bill.Type, bill.Status)
	}
	if bill.Description != "Fix sink" {
		t.Errorf("bill description = %q", bill.Description)
	}
	if len(bill.LineItems) != 1 || bill.LineItems[0].Amount != 0 {
		t.Errorf("expected one zero-amount default line item")
	}

	// Updating the appointment description syncs the bill
	w = doJSON(t, r, http.MethodPut, "/api/appointments/"+appt.ID.String(), token, gin.H{
		"description": "Fix sink and faucet",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update appointment: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/bills/"+bill.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get bill: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &bill)
	if bill.Description != "Fix sink and faucet" {
		t.Errorf("bill description = %q, want synced value", bill.Description)
	}

	// Replace line items via the bill payload and check the derived total
	w = doJSON(t, r, http.MethodPut, "/api/bills/"+bill.ID.String(), token, gin.H{
		"line_items": []gin.H{
			{"description": "Faucet cartridge", "quantity": 2, "unit_price": 50.0},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update bill: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &bill)
	if bill.TotalAmount != 100 {
		t.Errorf("total_amount = %v, want 100.00", bill.TotalAmount)
	}
	if len(bill.LineItems) != 1 {
		t.Errorf("line items = %d, want replacement list only", len(bill.LineItems))
	}

	// Deleting the customer keeps the bill but clears its references
	w = doJSON(t, r, http.MethodDelete, "/api/customers/"+customer.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete customer: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/api/appointments/"+appt.ID.String(), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("appointment should be gone, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/bills/"+bill.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("bill should survive, got %d", w.Code)
	}
	decode(t, w, &bill)
	if bill.CustomerID != nil || bill.AppointmentID != nil {
		t.Errorf("bill references = %v/%v, want cleared", bill.CustomerID, bill.AppointmentID)
	}
}

func TestUpdateBillClearsReferencesOnExplicitNull(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"first_name": "Ana",
		"last_name":  "Brooks",
		"email":      "ana@example.com",
		"phone":      "5551234567",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer: %d %s", w.Code, w.Body.String())
	}
	var customer models.Customer
	decode(t, w, &customer)

	w = doJSON(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"customer_id":      customer.ID,
		"appointment_date": "2026-10-01",
		"start_time":       "13:00",
		"end_time":         "14:00",
		"description":      "Inspect crawlspace",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create appointment: %d %s", w.Code, w.Body.String())
	}
	var appt models.Appointment
	decode(t, w, &appt)

	w = doJSON(t, r, http.MethodGet, "/api/bills?appointment="+appt.ID.String(), token, nil)
	var bills []models.Bill
	decode(t, w, &bills)
	if len(bills) != 1 {
		t.Fatalf("expected 1 linked bill, got %d", len(bills))
	}
	bill := bills[0]

	// Omitting the field leaves both references alone
	w = doJSON(t, r, http.MethodPut, "/api/bills/"+bill.ID.String(), token, gin.H{
		"notes": "reviewed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update bill: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &bill)
	if bill.CustomerID == nil || bill.AppointmentID == nil {
		t.Fatalf("references cleared by an update that omitted them")
	}

	// An explicit null clears the appointment reference only
	w = doJSON(t, r, http.MethodPut, "/api/bills/"+bill.ID.String(), token, gin.H{
		"appointment_id": nil,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("clear appointment ref: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &bill)
	if bill.AppointmentID != nil {
		t.Errorf("appointment_id = %v, want cleared", bill.AppointmentID)
	}
	if bill.CustomerID == nil || *bill.CustomerID != customer.ID {
		t.Errorf("customer_id = %v, want untouched", bill.CustomerID)
	}

	w = doJSON(t, r, http.MethodPut, "/api/bills/"+bill.ID.String(), token, gin.H{
		"customer_id": nil,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("clear customer ref: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &bill)
	if bill.CustomerID != nil {
		t.Errorf("customer_id = %v, want cleared", bill.CustomerID)
	}
}

func TestAppointmentValidation(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	// Missing customer
	w := doJSON(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"appointment_date": "2026-09-14",
		"start_time":       "09:00",
		"end_time":         "11:00",
		"description":      "No customer",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing customer_id = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"first_name": "Ada", "last_name": "Nine", "email": "ada@example.com", "phone": "1234567890",
	})
	var customer models.Customer
	decode(t, w, &customer)

	// Malformed date
	w = doJSON(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"customer_id":      customer.ID,
		"appointment_date": "14/09/2026",
		"start_time":       "09:00",
		"end_time":         "11:00",
		"description":      "Bad date",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date = %d, want 400", w.Code)
	}

	// Enum outside allowed set
	w = doJSON(t, r, http.MethodPost, "/api/appointments", token, gin.H{
		"customer_id":      customer.ID,
		"appointment_date": "2026-09-14",
		"start_time":       "09:00",
		"end_time":         "11:00",
		"description":      "Bad status",
		"status":           "parked",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status = %d, want 400", w.Code)
	}

	// No appointment may exist without its bill, so failures leave nothing behind
	var apptCount, billCount int64
	config.DB.Model(&models.Appointment{}).Count(&apptCount)
	config.DB.Model(&models.Bill{}).Count(&billCount)
	if apptCount != 0 || billCount != 0 {
		t.Errorf("rejected requests persisted rows: appointments=%d bills=%d", apptCount, billCount)
	}
}

func TestPhotoUploadAndFilter(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"first_name": "Kim", "last_name": "Soto", "email": "kim@example.com", "phone": "1234567890",
	})
	var customer models.Customer
	decode(t, w, &customer)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("content_type", "customer")
	mw.WriteField("object_id", customer.ID.String())
	mw.WriteField("description", "before photo")
	fw, _ := mw.CreateFormFile("photo", "before.jpg")
	fw.Write([]byte("jpeg bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload photo: %d %s", rec.Code, rec.Body.String())
	}
	var photo models.Photo
	decode(t, rec, &photo)
	if photo.URL == "" {
		t.Errorf("photo URL not set")
	}
	if photo.ContentType != models.OwnerCustomer || photo.ObjectID != customer.ID {
		t.Errorf("photo owner tag = %s/%s", photo.ContentType, photo.ObjectID)
	}

	w = doJSON(t, r, http.MethodGet,
		"/api/photos?content_type=customer&object_id="+customer.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list photos: %d %s", w.Code, w.Body.String())
	}
	var photos []models.Photo
	decode(t, w, &photos)
	if len(photos) != 1 {
		t.Errorf("filtered photos = %d, want 1", len(photos))
	}

	// Upload against a nonexistent owner is rejected
	buf.Reset()
	mw = multipart.NewWriter(&buf)
	mw.WriteField("content_type", "bill")
	mw.WriteField("object_id", customer.ID.String())
	fw, _ = mw.CreateFormFile("photo", "stray.jpg")
	fw.Write([]byte("x"))
	mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("upload to missing owner = %d, want 400", rec.Code)
	}
}

type brokenDeleteStore struct {
	services.PhotoStorage
}

func (brokenDeleteStore) Delete(ctx context.Context, url string) error {
	return errors.New("backend unavailable")
}

func TestDeletePhotoSurvivesBlobRemovalFailure(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"first_name": "Lee", "last_name": "Nash", "email": "lee@example.com", "phone": "1234567890",
	})
	var customer models.Customer
	decode(t, w, &customer)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("content_type", "customer")
	mw.WriteField("object_id", customer.ID.String())
	fw, _ := mw.CreateFormFile("photo", "panel.jpg")
	fw.Write([]byte("jpeg bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload photo: %d %s", rec.Code, rec.Body.String())
	}
	var photo models.Photo
	decode(t, rec, &photo)

	controllers.PhotoStore = brokenDeleteStore{controllers.PhotoStore}

	w = doJSON(t, r, http.MethodDelete, "/api/photos/"+photo.ID.String(), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete photo = %d, want 200 once the record is gone", w.Code)
	}

	var count int64
	config.DB.Model(&models.Photo{}).Where("id = ?", photo.ID).Count(&count)
	if count != 0 {
		t.Errorf("photo rows = %d, want record deleted", count)
	}
}

func TestSettingsLifecycle(t *testing.T) {
	r := setupAPI(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodGet, "/api/settings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get settings: %d %s", w.Code, w.Body.String())
	}
	var settings models.Settings
	decode(t, w, &settings)
	if settings.ID != models.SettingsRowID {
		t.Errorf("settings row not seeded at startup")
	}

	w = doJSON(t, r, http.MethodPut, "/api/settings", token, gin.H{"sales_tax_rate": 0.055})
	if w.Code != http.StatusOK {
		t.Fatalf("update settings: %d %s", w.Code, w.Body.String())
	}
	decode(t, w, &settings)
	if settings.SalesTaxRate != 0.055 {
		t.Errorf("sales_tax_rate = %v, want 0.055", settings.SalesTaxRate)
	}

	w = doJSON(t, r, http.MethodGet, "/api/user-settings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get user settings: %d %s", w.Code, w.Body.String())
	}
	var userSettings models.UserSettings
	decode(t, w, &userSettings)
	if userSettings.Theme != "light" || userSettings.FontSize != "medium" {
		t.Errorf("user settings defaults = %q/%q", userSettings.Theme, userSettings.FontSize)
	}
}
