// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/wayfare/internal/web"
)

func TestPages(t *testing.T) {
	router := web.NewHandler().Routes()

	tests := map[string]string{
		"/":               "text/html",
		"/login":          "text/html",
		"/register":       "text/html",
		"/static/auth.js": "javascript",
	}

	for path, contentType := range tests {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, path)
		assert.Contains(t, recorder.Header().Get("Content-Type"), contentType, path)
	}
}
