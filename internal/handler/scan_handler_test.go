package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-ingest/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIngestService is a mock implementation of IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) StoreScan(ctx context.Context, raw string) (*model.ScanResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanResult), args.Error(1)
}

func TestScanHandler_StoreQR(t *testing.T) {
	logger := zerolog.Nop()

	scanID := uuid.New()
	productID := uuid.New()
	okResult := &model.ScanResult{
		ScanID:            scanID,
		ProductID:         productID,
		AvailableQuantity: 8,
	}

	tests := []struct {
		name           string
		method         string
		body           string
		mockResult     *model.ScanResult
		mockError      error
		expectService  bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			method:         http.MethodPost,
			body:           `{"qr_text": "name=Widget|category=Tools|quantity=5"}`,
			mockResult:     okResult,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			body:           "",
			expectService:  false,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "Invalid JSON body",
			method:         http.MethodPost,
			body:           `{"qr_text": `,
			expectService:  false,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid JSON",
		},
		{
			name:           "Parse failure returns 400",
			method:         http.MethodPost,
			body:           `{"qr_text": "quantity=5"}`,
			mockError:      model.NewMissingFieldError("name"),
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing required field",
		},
		{
			name:           "Empty payload returns 400",
			method:         http.MethodPost,
			body:           `{"qr_text": ""}`,
			mockError:      model.ErrEmptyPayload,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "empty",
		},
		{
			name:           "Storage failure returns 500",
			method:         http.MethodPost,
			body:           `{"qr_text": "name=Widget|category=Tools|quantity=5"}`,
			mockError:      errors.New("connection refused"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockIngestService)
			if tt.expectService {
				mockService.On("StoreScan", mock.Anything, mock.Anything).Return(tt.mockResult, tt.mockError)
			}

			h := NewScanHandler(mockService, logger)

			req := httptest.NewRequest(tt.method, "/api/store_qr", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.StoreQR(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusOK {
				var resp StoreQRResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, scanID.String(), resp.ScanID)
				assert.Equal(t, productID.String(), resp.ProductID)
				assert.Equal(t, int64(8), resp.AvailableQuantity)
			} else if tt.expectedError != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Contains(t, strings.ToLower(resp.Error), strings.ToLower(tt.expectedError))
			}

			if !tt.expectService {
				mockService.AssertNotCalled(t, "StoreScan", mock.Anything, mock.Anything)
			} else {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestScanHandler_StoreQR_PassesRawPayloadThrough(t *testing.T) {
	logger := zerolog.Nop()
	mockService := new(MockIngestService)

	raw := "name=Widget=Deluxe|category=Tools|quantity=5"
	mockService.On("StoreScan", mock.Anything, raw).Return(&model.ScanResult{
		ScanID:            uuid.New(),
		ProductID:         uuid.New(),
		AvailableQuantity: 5,
	}, nil)

	h := NewScanHandler(mockService, logger)

	body, err := json.Marshal(StoreQRRequest{QRText: raw})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/store_qr", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	h.StoreQR(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
