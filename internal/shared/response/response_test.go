package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(write func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	write(c)

	var body Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := record(func(c *gin.Context) {
		Success(c, http.StatusCreated, gin.H{"id": "b1"})
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
}

func TestListCarriesTotal(t *testing.T) {
	rec, body := record(func(c *gin.Context) {
		List(c, []string{"a", "b", "c"}, 3)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 3, body.Meta.Total)
}

func TestNoCopiesAvailableCode(t *testing.T) {
	rec, body := record(func(c *gin.Context) {
		NoCopiesAvailable(c, "No copies of this book are available")
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NO_COPIES_AVAILABLE", body.Error.Code)
}

func TestValidationFailedDetails(t *testing.T) {
	vErrs := validation.Errors{"email": validation.NewError("validation_required", "email is required")}

	rec, body := record(func(c *gin.Context) {
		ValidationFailed(c, vErrs)
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "email")
}
