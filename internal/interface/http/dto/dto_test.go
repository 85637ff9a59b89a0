package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"Dune"`, "Dune"},
		{`1965`, "1965"},
		{`19.99`, "19.99"},
		{`-3`, "-3"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var s FlexString
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &s), tt.raw)
		assert.Equal(t, tt.want, s.String(), tt.raw)
	}

	var s FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}

func TestFlexStrings(t *testing.T) {
	var s FlexStrings
	require.NoError(t, json.Unmarshal([]byte(`[1, "2", 3.0]`), &s))
	assert.Equal(t, FlexStrings{"1", "2", "3.0"}, s)

	require.NoError(t, json.Unmarshal([]byte(`7`), &s))
	assert.Equal(t, FlexStrings{"7"}, s)

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Nil(t, s)

	assert.Error(t, json.Unmarshal([]byte(`[{}]`), &s))
}

func newContext(body, contentType string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	return c
}

func TestBindBookForm(t *testing.T) {
	form := url.Values{
		"title":            {"Dune"},
		"author":           {"1"},
		"publication_year": {"1965"},
		"genres":           {"1", " ", "2"},
		"price":            {"19.99"},
	}
	c := newContext(form.Encode(), "application/x-www-form-urlencoded")
	got, err := BindBookForm(c)
	require.NoError(t, err)
	assert.True(t, IsForm(c))
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, []string{"1", "2"}, got.Genres)
	assert.Equal(t, "", got.DiscountedPrice)

	c = newContext(`{"title":"Dune","author":1,"publication_year":"1965","genres":[1,2],"price":19.99}`, "application/json")
	got, err = BindBookForm(c)
	require.NoError(t, err)
	assert.False(t, IsForm(c))
	assert.Equal(t, "1", got.Author)
	assert.Equal(t, []string{"1", "2"}, got.Genres)
	assert.Equal(t, "19.99", got.Price)

	c = newContext(`{"title":`, "application/json")
	_, err = BindBookForm(c)
	assert.Equal(t, apperrors.ErrCodeBindError, apperrors.GetAppError(err).Code)
}
