package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"mechanical-burger/internal/media"
	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUploader is a mock implementation of ImageUploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, filename, body)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) Delete(ctx context.Context, url string) {
	m.Called(ctx, url)
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMediaHandler_Upload(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	tests := []struct {
		name           string
		field          string
		mockURL        string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "stored",
			field:          "image",
			mockURL:        "/media/menu/1700000000000_classic.png",
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "wrong field",
			field:          "file",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "rejected type",
			field:          "image",
			mockError:      model.ErrUnsupportedMedia,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectService:  true,
		},
		{
			name:           "too large",
			field:          "image",
			mockError:      model.ErrMediaTooLarge,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := new(MockUploader)
			if tt.expectService {
				uploader.On("Upload", mock.Anything, "classic.png", png).Return(tt.mockURL, tt.mockError)
			}
			h := NewMediaHandler(uploader, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Upload(rec, multipartRequest(t, tt.field, "classic.png", png))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.mockURL != "" {
				var resp imageResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.mockURL, resp.URL)
			}
			uploader.AssertExpectations(t)
		})
	}
}

func TestMediaHandler_Upload_BodyCap(t *testing.T) {
	uploader := new(MockUploader)
	h := NewMediaHandler(uploader, zerolog.Nop())

	big := bytes.Repeat([]byte{0xff}, media.MaxImageSize+128<<10)
	rec := httptest.NewRecorder()
	h.Upload(rec, multipartRequest(t, "image", "huge.jpg", big))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaHandler_Delete(t *testing.T) {
	uploader := new(MockUploader)
	uploader.On("Delete", mock.Anything, "/media/menu/a.png").Return()
	h := NewMediaHandler(uploader, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/images?url=/media/menu/a.png", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/images", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uploader.AssertExpectations(t)
}
