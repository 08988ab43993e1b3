package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickinvoice/invoice-builder-service/internal/domain"
	"github.com/quickinvoice/invoice-builder-service/internal/preview"
	"github.com/quickinvoice/invoice-builder-service/internal/repository"
	"github.com/quickinvoice/invoice-builder-service/internal/service"
)

const testUserID = "user-1"

// stubAuth stands in for the JWT middleware in handler tests
func stubAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userEmail", userID+"@example.com")
		c.Next()
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, service.DraftService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	draftService := service.NewDraftService(repository.NewMemoryTemplateRepository(), domain.TaxModeFlat, 0)
	profileService := service.NewProfileService(repository.NewMemoryProfileRepository(), nil)

	router := gin.New()
	draftHandler := NewDraftHandler(draftService, profileService)
	draftHandler.RegisterRoutes(router, stubAuth(testUserID))
	templateHandler := NewTemplateHandler(draftService)
	templateHandler.RegisterRoutes(router, stubAuth(testUserID))

	return router, draftService
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) *service.DraftState {
	t.Helper()
	var state service.DraftState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotNil(t, state.Draft)
	return &state
}

func TestGetDraftReturnsDefaultDraft(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/draft", nil)
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, "INR", state.Draft.Currency)
	assert.Len(t, state.Draft.LineItems, 1)
	assert.Equal(t, 0.0, state.Totals.Subtotal)
}

func TestUpdateDraftFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/v1/draft", gin.H{
		"client_name": "Acme Corp",
		"tax_rate":    "5",
	})
	require.Equal(t, http.StatusOK, w.Code)

	state := decodeState(t, w)
	assert.Equal(t, "Acme Corp", state.Draft.ClientName)
	assert.Equal(t, 5.0, state.Draft.TaxRate)
}

func TestLineItemLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/draft/items", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	state := decodeState(t, w)
	require.Len(t, state.Draft.LineItems, 2)
	itemID := state.Draft.LineItems[0].ID

	w = doJSON(t, router, http.MethodPatch, "/v1/draft/items/"+itemID, gin.H{
		"field": "description", "value": "Design work",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/v1/draft/items/"+itemID, gin.H{
		"field": "quantity", "value": "2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPatch, "/v1/draft/items/"+itemID, gin.H{
		"field": "rate", "value": "100",
	})
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Equal(t, 200.0, state.Totals.Subtotal)

	w = doJSON(t, router, http.MethodDelete, "/v1/draft/items/"+itemID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeState(t, w)
	assert.Len(t, state.Draft.LineItems, 1)
	assert.Equal(t, 0.0, state.Totals.Subtotal)
}

func TestUpdateLineItemUnknownField(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/draft", nil)
	state := decodeState(t, w)
	itemID := state.Draft.LineItems[0].ID

	w = doJSON(t, router, http.MethodPatch, "/v1/draft/items/"+itemID, gin.H{
		"field": "color", "value": "blue",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveUnknownLineItemIsNoOp(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/v1/draft/items/no-such-id", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Len(t, state.Draft.LineItems, 1)
}

func TestGetTotals(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/draft/totals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var totals domain.Totals
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, domain.TaxModeFlat, totals.Mode)
	assert.Equal(t, 0.0, totals.Total)
}

func TestGetPreviewShowsPlaceholderForEmptyDraft(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/draft/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var model preview.Model
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	assert.False(t, model.HasItems)
	assert.Equal(t, preview.PlaceholderNoItems, model.Placeholder)
	assert.Equal(t, preview.PlaceholderBusinessName, model.Business.Name)
}

func TestSignatureUploadAndRemove(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := signatureForm(t, encodePNG(t, 8, 8))
	req := httptest.NewRequest(http.MethodPost, "/v1/draft/signature", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.True(t, strings.HasPrefix(state.Draft.SignatureURL, "data:image/png;base64,"))

	w2 := doJSON(t, router, http.MethodDelete, "/v1/draft/signature", nil)
	require.Equal(t, http.StatusOK, w2.Code)
	state = decodeState(t, w2)
	assert.Empty(t, state.Draft.SignatureURL)
}

func TestSignatureUploadRejectsNonImage(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := signatureForm(t, []byte("not an image at all"))
	req := httptest.NewRequest(http.MethodPost, "/v1/draft/signature", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestTemplateSaveAndLoad(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/v1/draft", gin.H{
		"client_name": "Roundtrip Client",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/v1/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/v1/templates/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	assert.Equal(t, "Roundtrip Client", state.Draft.ClientName)
}

func TestLoadLatestTemplateAbsentReturnsNoContent(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/templates/latest", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func signatureForm(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("signature", "signature.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func imageForm(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, fmt.Sprintf("%s.png", field))
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
