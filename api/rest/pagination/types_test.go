package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := map[string]Params{
		"/":                     {Limit: 20, Offset: 0},
		"/?limit=5&offset=10":   {Limit: 5, Offset: 10},
		"/?limit=1000":          {Limit: 100, Offset: 0},
		"/?limit=abc&offset=-3": {Limit: 20, Offset: 0},
	}

	for url, want := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", url, nil)

		assert.Equal(t, want, FromQuery(c, 20, 100), url)
	}
}

func TestNewMeta(t *testing.T) {
	assert.True(t, NewMeta(Params{Limit: 10, Offset: 0}, 11).HasMore)
	assert.False(t, NewMeta(Params{Limit: 10, Offset: 10}, 20).HasMore)
}
