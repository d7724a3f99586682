package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/JonMunkholm/recordcheck/internal/config"
	"github.com/JonMunkholm/recordcheck/internal/core"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ShutdownTimeout: time.Second,
			RequestTimeout:  5 * time.Second,
			MaxConcurrent:   2,
			MaxWaitTime:     20 * time.Millisecond,
			HistorySize:     10,
		},
		Batch: config.BatchConfig{
			Workers:      2,
			DefaultSort:  "none",
			MaxFileSize:  1 << 20,
			OutputFormat: "blocks",
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func recordJSON(telephone string, weight, age int) string {
	return fmt.Sprintf(`{"telephone": %q, "weight": %d, "inn": "123456789012", "passport_series": "12 34",`+
		` "university": "Московский университет", "age": %d, "political_views": "Демократия",`+
		` "worldview": "Рационализм", "address": "ул. Ленина 5"}`, telephone, weight, age)
}

func batchJSON() string {
	return "[" + strings.Join([]string{
		recordJSON("+7-(123)-456-78-90", 80, 30),
		recordJSON("12345", 70, 25),
		recordJSON("+7-(123)-456-78-91", 60, 40),
	}, ",") + "]"
}

type validateBody struct {
	RunID   string `json:"run_id"`
	SortKey string `json:"sort_key"`
	Tally   struct {
		Total   int            `json:"total"`
		Valid   int            `json:"valid"`
		Invalid int            `json:"invalid"`
		Errors  []struct {
			Category string `json:"category"`
			Count    int    `json:"count"`
		} `json:"errors"`
	} `json:"tally"`
	Records []struct {
		Telephone string `json:"telephone"`
		Weight    int    `json:"weight"`
	} `json:"records"`
}

// ServerSuite exercises the HTTP surface end to end through the router.
type ServerSuite struct {
	suite.Suite
	cfg    *config.Config
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.cfg = testConfig()
	s.server = NewServer(s.cfg)
}

func (s *ServerSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.server.Router().ServeHTTP(rec, req)
	return rec
}

func (s *ServerSuite) decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func (s *ServerSuite) validate() validateBody {
	rec := s.do(http.MethodPost, "/api/validate?sort=weight", batchJSON())
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body validateBody
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *ServerSuite) TestValidate() {
	s.Run("json envelope sorted by weight", func() {
		body := s.validate()

		s.NotEmpty(body.RunID)
		s.Equal("weight", body.SortKey)
		s.Equal(3, body.Tally.Total)
		s.Equal(2, body.Tally.Valid)
		s.Equal(1, body.Tally.Invalid)
		s.Require().Len(body.Tally.Errors, 9)
		s.Equal("error_telephone_number", body.Tally.Errors[0].Category)
		s.Equal(1, body.Tally.Errors[0].Count)
		s.Equal("error_weight", body.Tally.Errors[1].Category)
		s.Equal(0, body.Tally.Errors[1].Count)
		s.Require().Len(body.Records, 2)
		s.Equal(60, body.Records[0].Weight)
		s.Equal(80, body.Records[1].Weight)
	})

	s.Run("blocks format", func() {
		rec := s.do(http.MethodPost, "/api/validate?format=blocks", batchJSON())
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Header().Get("Content-Type"), "text/plain")
		s.NotEmpty(rec.Header().Get("X-Run-ID"))
		s.Equal("3", rec.Header().Get("X-Total-Records"))
		s.Equal("2", rec.Header().Get("X-Valid-Records"))
		s.True(strings.HasPrefix(rec.Body.String(), "{\n telephone: +7-(123)-456-78-90\n weight: 80\n"))
		s.Equal(2, strings.Count(rec.Body.String(), "}\n"))
	})

	s.Run("empty batch", func() {
		rec := s.do(http.MethodPost, "/api/validate", "[]")
		s.Require().Equal(http.StatusOK, rec.Code)

		var body validateBody
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(0, body.Tally.Total)
		s.Empty(body.Records)
		s.Contains(rec.Body.String(), `"records":[]`)
	})
}

func (s *ServerSuite) TestValidate_Errors() {
	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad sort key", "/api/validate?sort=height", "[]", http.StatusBadRequest, "RUN005"},
		{"bad format", "/api/validate?format=xml", "[]", http.StatusBadRequest, "RUN006"},
		{"invalid json", "/api/validate", "[{", http.StatusBadRequest, "FILE003"},
		{"empty body", "/api/validate", "", http.StatusBadRequest, "FILE005"},
		{"missing field", "/api/validate", `[{"telephone": "+7-(123)-456-78-90"}]`, http.StatusBadRequest, "FILE004"},
		{"number in text field", "/api/validate", `[` + strings.Replace(recordJSON("x", 1, 1), `"123456789012"`, `123456789012`, 1) + `]`, http.StatusBadRequest, "VAL001"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, tt.target, tt.body)
			s.Equal(tt.wantStatus, rec.Code, rec.Body.String())
			s.Equal(tt.wantCode, s.decodeError(rec).Code)
		})
	}
}

func (s *ServerSuite) TestValidate_TooLarge() {
	s.cfg.Batch.MaxFileSize = 16
	s.server = NewServer(s.cfg)

	rec := s.do(http.MethodPost, "/api/validate", batchJSON())
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("FILE001", s.decodeError(rec).Code)
}

func (s *ServerSuite) TestValidate_Busy() {
	s.Require().True(s.server.limiter.TryAcquire())
	s.Require().True(s.server.limiter.TryAcquire())
	defer s.server.limiter.Release()
	defer s.server.limiter.Release()

	rec := s.do(http.MethodPost, "/api/validate", batchJSON())
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("RUN001", s.decodeError(rec).Code)
	s.NotEmpty(rec.Header().Get("Retry-After"))
}

func (s *ServerSuite) TestValidate_ReleasesSlot() {
	s.validate()
	s.Equal(0, s.server.limiter.Active())
	s.Equal(2, s.server.limiter.Status().Available)
}

func (s *ServerSuite) TestValidate_WaitsForFreeSlot() {
	s.cfg.Server.MaxWaitTime = 2 * time.Second
	s.server = NewServer(s.cfg)

	s.Require().True(s.server.limiter.TryAcquire())
	s.Require().True(s.server.limiter.TryAcquire())
	defer s.server.limiter.Release()

	go func() {
		time.Sleep(30 * time.Millisecond)
		s.server.limiter.Release()
	}()

	rec := s.do(http.MethodPost, "/api/validate", batchJSON())
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *ServerSuite) TestRuns() {
	body := s.validate()

	s.Run("list", func() {
		rec := s.do(http.MethodGet, "/api/runs", "")
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp struct {
			Runs []core.RunSummary `json:"runs"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Runs, 1)
		s.Equal(body.RunID, resp.Runs[0].RunID)
		s.Equal("api", resp.Runs[0].Source)
	})

	s.Run("get", func() {
		rec := s.do(http.MethodGet, "/api/runs/"+body.RunID, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"valid":2`)
	})

	s.Run("get unknown", func() {
		rec := s.do(http.MethodGet, "/api/runs/nope", "")
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("RUN004", s.decodeError(rec).Code)
	})

	s.Run("html report", func() {
		rec := s.do(http.MethodGet, "/runs/"+body.RunID, "")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Header().Get("Content-Type"), "text/html")
		s.Contains(rec.Body.String(), "Run "+body.RunID)
		s.Contains(rec.Body.String(), "<tr><td>Invalid telephone number</td><td>1</td></tr>")
	})

	s.Run("html report unknown", func() {
		rec := s.do(http.MethodGet, "/runs/nope", "")
		s.Equal(http.StatusNotFound, rec.Code)
		s.Contains(rec.Header().Get("Content-Type"), "text/html")
		s.Contains(rec.Body.String(), "RUN004")
	})
}

func (s *ServerSuite) TestInspect() {
	s.Run("reports every failing field", func() {
		rec := s.do(http.MethodPost, "/api/inspect", recordJSON("+7-(123)-456-78-90", 0, 200))
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Category string `json:"category"`
			Valid    bool   `json:"valid"`
			Errors   []struct {
				Category string `json:"category"`
				Field    string `json:"field"`
			} `json:"errors"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("error_weight", resp.Category)
		s.False(resp.Valid)
		s.Require().Len(resp.Errors, 2)
		s.Equal("weight", resp.Errors[0].Field)
		s.Equal("age", resp.Errors[1].Field)
	})

	s.Run("valid record", func() {
		rec := s.do(http.MethodPost, "/api/inspect", recordJSON("+7-(123)-456-78-90", 70, 25))
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"valid":true`)
		s.Contains(rec.Body.String(), `"errors":[]`)
	})

	s.Run("not an object", func() {
		rec := s.do(http.MethodPost, "/api/inspect", "[]")
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("FILE003", s.decodeError(rec).Code)
	})
}

func (s *ServerSuite) TestHealthAndMetrics() {
	s.validate()

	rec := s.do(http.MethodGet, "/healthz", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"ok"`)
	s.Contains(rec.Body.String(), `"runs":1`)
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	out := rec.Body.String()
	s.Contains(out, `recordcheck_records_total{outcome="valid"} 2`)
	s.Contains(out, `recordcheck_records_total{outcome="error_telephone_number"} 1`)
	s.Contains(out, `recordcheck_runs_total{status="ok"} 1`)
	s.Contains(out, "recordcheck_active_batches 0")
}

func (s *ServerSuite) TestShutdownWithoutStart() {
	s.NoError(s.server.Shutdown(context.Background()))
}
