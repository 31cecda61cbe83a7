package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestige-rentals/internal/checkin"
	"prestige-rentals/internal/logger"
	"prestige-rentals/internal/models"
	"prestige-rentals/internal/order/qr"
)

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func (f *fakeOrderStore) GetOrderByReference(ref string) (*models.Order, error) {
	o, ok := f.orders[ref]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) UpdateOrder(o *models.Order) error {
	copied := *o
	f.orders[o.BookingReference] = &copied
	return nil
}

func newTestHandler() (*Handler, *fakeOrderStore) {
	store := &fakeOrderStore{orders: make(map[string]*models.Order)}
	svc := checkin.NewService(store, logger.NewLogger())
	return &Handler{Checkin: svc, Logger: logger.NewLogger()}, store
}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "scan.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/image/booking/validate-qrcode", &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestValidateQRCodeEndpoint(t *testing.T) {
	h, store := newTestHandler()
	store.orders["PR-AB12CD34"] = &models.Order{ID: 5, BookingReference: "PR-AB12CD34"}

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	png, err := qr.Render(qr.BuildPayload("PR-AB12CD34", 1, start, start.Add(48*time.Hour)))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ValidateQRCode(w, uploadRequest(t, "image", png))

	require.Equal(t, http.StatusOK, w.Code)

	var result models.QRValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.IsValid)
	assert.True(t, store.orders["PR-AB12CD34"].IsUsed)
}

func TestValidateQRCodeEndpointUnreadableImage(t *testing.T) {
	h, _ := newTestHandler()

	w := httptest.NewRecorder()
	h.ValidateQRCode(w, uploadRequest(t, "image", []byte("not an image")))

	require.Equal(t, http.StatusOK, w.Code)

	var result models.QRValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
}

func TestValidateQRCodeEndpointMissingFile(t *testing.T) {
	h, _ := newTestHandler()

	w := httptest.NewRecorder()
	h.ValidateQRCode(w, uploadRequest(t, "wrong-field", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateQRCodeEndpointNotMultipart(t *testing.T) {
	h, _ := newTestHandler()

	r := httptest.NewRequest(http.MethodPost, "/api/image/booking/validate-qrcode", bytes.NewBufferString("plain body"))
	w := httptest.NewRecorder()
	h.ValidateQRCode(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
