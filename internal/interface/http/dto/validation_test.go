package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

func bindReview(t *testing.T, body string) error {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return BindError(err)
	}
	return nil
}

func TestBindError_Rating(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"评分为0", `{"book":1,"title":"t","content":"c","rating":0}`, true},
		{"评分为6", `{"book":1,"title":"t","content":"c","rating":6}`, true},
		{"评分类型错误", `{"book":1,"title":"t","content":"c","rating":"five"}`, true},
		{"评分为1", `{"book":1,"title":"t","content":"c","rating":1}`, false},
		{"评分为5", `{"book":1,"title":"t","content":"c","rating":5}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindReview(t, tt.body)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
			assert.Contains(t, appErr.Fields, "rating")
		})
	}
}

func TestBindError_FieldNames(t *testing.T) {
	err := bindReview(t, `{"rating":3}`)
	require.Error(t, err)
	fields := apperrors.GetAppError(err).Fields
	assert.Contains(t, fields, "book")
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.NotContains(t, fields, "rating")
}

func TestBindError_Malformed(t *testing.T) {
	err := bindReview(t, `{"book":`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeBindError, apperrors.GetAppError(err).Code)
}

func TestListBooksQuery_Prices(t *testing.T) {
	lo, hi, err := ListBooksQuery{PriceMin: "10", PriceMax: "25.50"}.Prices()
	require.NoError(t, err)
	assert.Equal(t, "10.00", lo.StringFixed(2))
	assert.Equal(t, "25.50", hi.StringFixed(2))

	lo, hi, err = ListBooksQuery{}.Prices()
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Nil(t, hi)

	_, _, err = ListBooksQuery{PriceMin: "-1"}.Prices()
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Fields, "price_min")
}
