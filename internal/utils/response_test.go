package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"mediconnect-server/internal/lifecycle"
)

func TestLifecycleErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", lifecycle.ErrNotFound, http.StatusNotFound},
		{"forbidden", lifecycle.ErrForbidden, http.StatusForbidden},
		{"conflict", lifecycle.ErrConflict, http.StatusBadRequest},
		{"validation", lifecycle.ErrValidation, http.StatusBadRequest},
		{"wrapped conflict", fmt.Errorf("%w: already paid", lifecycle.ErrConflict), http.StatusBadRequest},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			LifecycleError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
