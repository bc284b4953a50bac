package colors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/devpalette/internal/middleware"
)

// serve runs one handler call as user u1 and returns the recorder and the
// handler error.
func serve(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.UserIDContextKey, "u1")
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return rec, h(c)
}

func TestHandler_AddAndList(t *testing.T) {
	svc, _ := newTestColorService(t)
	h := NewHandler(svc)

	rec, err := serve(t, h.Add, http.MethodPost, "/api/v1/colors", `{"name":"Lemon","hex":"#FFF44F"}`)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var added ColorView
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if added.Hex != "#fff44f" || added.Contrast != "#000000" || added.ID == "" {
		t.Errorf("unexpected response %s", rec.Body.String())
	}

	rec, err = serve(t, h.List, http.MethodGet, "/api/v1/colors?q=lem&favorites=false", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(list) != 1 || list[0]["name"] != "Lemon" || list[0]["isFavorite"] != false {
		t.Errorf("unexpected list %s", rec.Body.String())
	}
	if _, ok := list[0]["rgb"].(map[string]any); !ok {
		t.Error("expected embedded color fields at the top level")
	}
}

func TestHandler_AddValidation(t *testing.T) {
	svc, _ := newTestColorService(t)
	h := NewHandler(svc)

	_, err := serve(t, h.Add, http.MethodPost, "/api/v1/colors", `{"name":"","hex":"#ffffff"}`)
	assertAppError(t, err, http.StatusUnprocessableEntity)

	_, err = serve(t, h.Add, http.MethodPost, "/api/v1/colors", `{"name":`)
	assertAppError(t, err, http.StatusBadRequest)

	_, err = serve(t, h.List, http.MethodGet, "/api/v1/colors?favorites=maybe", "")
	assertAppError(t, err, http.StatusBadRequest)
}

func TestHandler_Code(t *testing.T) {
	svc, _ := newTestColorService(t)
	h := NewHandler(svc)
	c := mustAdd(t, svc, "u1", "Brand Primary", "#6366f1")

	tests := []struct {
		query string
		want  CodeResult
	}{
		{"?format=css-var", CodeResult{Format: "css-var", Code: "--brand-primary: #6366f1;"}},
		{"?format=CSS-VAR&var=accent", CodeResult{Format: "css-var", Code: "--accent: #6366f1;"}},
		{"?format=rgb", CodeResult{Format: "rgb", Code: "rgb(99, 102, 241)"}},
		{"?format=cmyk", CodeResult{Format: "hex", Code: "#6366F1"}},
		{"", CodeResult{Format: "hex", Code: "#6366F1"}},
	}
	for _, tt := range tests {
		rec, err := serve(t, h.Code, http.MethodGet, "/api/v1/colors/"+c.ID+"/code"+tt.query, "", "id", c.ID)
		if err != nil {
			t.Fatalf("Code%s: %v", tt.query, err)
		}
		var got CodeResult
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got != tt.want {
			t.Errorf("Code%s = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestHandler_DeleteAndClear(t *testing.T) {
	svc, _ := newTestColorService(t)
	h := NewHandler(svc)
	c := mustAdd(t, svc, "u1", "Gone", "#000000")

	rec, err := serve(t, h.Delete, http.MethodDelete, "/api/v1/colors/"+c.ID, "", "id", c.ID)
	if err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (err %v)", rec.Code, err)
	}

	rec, err = serve(t, h.Clear, http.MethodDelete, "/api/v1/colors", "")
	if err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (err %v)", rec.Code, err)
	}
}
