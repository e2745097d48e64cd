package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/jobs"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
	"github.com/use-agent/seoaudit/webhook"
)

const okPage = `<html><head><title>Fine</title><meta name="description" content="desc"></head>` +
	`<body><h1>Hi</h1><p>some words here</p></body></html>`

// site serves /ok with a small page and 404s everything else.
func site(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, okPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Audit:     config.AuditConfig{MaxURLs: 3},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *jobs.Store) {
	t.Helper()
	a := audit.New(engine.NewHTTPEngine(engine.WithTimeout(2*time.Second)), audit.WithDelay(0))
	store := jobs.New(10, time.Hour)
	t.Cleanup(store.Close)
	return NewRouter(a, store, cfg, time.Now()), store
}

func doJSON(r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(r, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.HealthResponse](t, w)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, models.Version, resp.Version)
	assert.Zero(t, resp.Jobs)
}

func TestPostAudit_JSON(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	body := `{"urls":["` + srv.URL + `/ok","` + srv.URL + `/ok","` + srv.URL + `/missing"]}`
	w := doJSON(r, http.MethodPost, "/api/v1/audit", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.AuditResponse](t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Empty)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Processed)
	assert.Equal(t, 1, resp.Skipped)

	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]
	assert.Equal(t, srv.URL+"/ok", rec.URL)
	assert.Equal(t, "Fine", rec.Title)
	assert.Equal(t, "desc", rec.MetaDescription)
	assert.Equal(t, 200, rec.StatusCode)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "Failed to crawl: "+srv.URL+"/missing", resp.Failures[0].Message)
	assert.Equal(t, models.ErrCodeFetch, resp.Failures[0].Code)
}

func TestPostAudit_TextInput(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	body, _ := json.Marshal(models.AuditRequest{Text: "\n  " + srv.URL + "/ok  \r\n\n"})
	w := doJSON(r, http.MethodPost, "/api/v1/audit", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.AuditResponse](t, w)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, srv.URL+"/ok", resp.Records[0].URL)
}

func TestPostAudit_NothingSucceeded(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(r, http.MethodPost, "/api/v1/audit", `{"urls":["`+srv.URL+`/nope"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.AuditResponse](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Empty)
	assert.Empty(t, resp.Records)
	assert.Len(t, resp.Failures, 1)
}

func TestPostAudit_CSV(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(r, http.MethodPost, "/api/v1/audit?format=csv", `{"urls":["`+srv.URL+`/ok"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, `attachment; filename="seo_audit_report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(models.CSVHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], srv.URL+"/ok,200,Fine,desc,No Canonical,1,"))
}

func TestPostAudit_InvalidInput(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	cases := map[string]string{
		"malformed json": `{"urls":`,
		"no urls":        `{"urls":["  ",""]}`,
		"empty":          `{}`,
		"too many":       `{"urls":["http://a/","http://b/","http://c/","http://d/"]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/audit", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[models.AuditResponse](t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
		})
	}
}

func TestAuthProtectsAPIButNotHealth(t *testing.T) {
	srv := site(t)
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"secret"}}
	r, _ := newTestRouter(t, cfg)

	body := `{"urls":["` + srv.URL + `/ok"]}`
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/api/v1/audit", body).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/v1/audit", body, "X-API-Key", "secret").Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/v1/health", "").Code)
}

func TestJobs_Lifecycle(t *testing.T) {
	srv := site(t)
	r, store := newTestRouter(t, testConfig())

	w := doJSON(r, http.MethodPost, "/api/v1/audit/jobs", `{"urls":["`+srv.URL+`/ok","`+srv.URL+`/missing"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[models.JobResponse](t, w)
	assert.Equal(t, models.JobProcessing, created.Status)
	assert.Equal(t, 2, created.Total)
	assert.Equal(t, 1, store.Len())

	var status models.JobStatusResponse
	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, "/api/v1/audit/jobs/"+created.ID, "")
		if w.Code != http.StatusOK || json.Unmarshal(w.Body.Bytes(), &status) != nil {
			return false
		}
		return status.Status != models.JobProcessing
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, models.JobPartial, status.Status)
	assert.Equal(t, 2, status.Completed)
	assert.Equal(t, 1.0, status.Progress)
	require.Len(t, status.Records, 1)
	require.Len(t, status.Failures, 1)

	w = doJSON(r, http.MethodGet, "/api/v1/audit/jobs/"+created.ID+"/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="`+report.Filename+`"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), srv.URL+"/ok,200,Fine")
}

func TestJobs_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	for _, path := range []string{"/api/v1/audit/jobs/audit-missing", "/api/v1/audit/jobs/audit-missing/csv"} {
		w := doJSON(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode[models.AuditResponse](t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, models.ErrCodeNotFound, resp.Error.Code)
	}
}

func TestJobs_WebhookOnCompletion(t *testing.T) {
	srv := site(t)

	var (
		mu     sync.Mutex
		events []webhook.Event
		valid  bool
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev webhook.Event
		_ = json.Unmarshal(body, &ev)
		mu.Lock()
		events = append(events, ev)
		valid = webhook.Verify("shh", body, r.Header.Get(webhook.SignatureHeader))
		mu.Unlock()
	}))
	t.Cleanup(hook.Close)

	r, _ := newTestRouter(t, testConfig())
	body, _ := json.Marshal(models.AuditRequest{
		URLs:          []string{srv.URL + "/ok"},
		WebhookURL:    hook.URL,
		WebhookSecret: "shh",
	})
	w := doJSON(r, http.MethodPost, "/api/v1/audit/jobs", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[models.JobResponse](t, w)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, valid)
	assert.Equal(t, webhook.EventAuditCompleted, events[0].Type)
	assert.Equal(t, created.ID, events[0].JobID)
}

func TestJobs_RejectsBadWebhookURL(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())
	w := doJSON(r, http.MethodPost, "/api/v1/audit/jobs", `{"urls":["http://a/"],"webhook_url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexPage(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := doJSON(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, "SEO Bulk Audit Web Tool")
	assert.Contains(t, page, "Run Audit")
	assert.Contains(t, page, "Developed by Himanshu &amp; Ahezam")
	assert.Contains(t, page, ".custom-footer")
	assert.NotContains(t, page, "Audit complete!")
}

func postForm(r http.Handler, urls string) *httptest.ResponseRecorder {
	form := url.Values{"urls": {urls}}
	req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFormAudit(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	w := postForm(r, srv.URL+"/ok\n"+srv.URL+"/missing\n")
	require.Equal(t, http.StatusOK, w.Code)

	page := w.Body.String()
	assert.Contains(t, page, "Failed to crawl: "+srv.URL+"/missing")
	assert.Contains(t, page, "Audit complete!")
	assert.Contains(t, page, "<th>Has RDFa Schema</th>")
	assert.Contains(t, page, "<td>Fine</td>")
	assert.Contains(t, page, "data:text/csv;charset=utf-8;base64,")
	assert.NotContains(t, page, "No pages were successfully audited")
}

func TestFormAudit_NothingSucceeded(t *testing.T) {
	srv := site(t)
	r, _ := newTestRouter(t, testConfig())

	page := postForm(r, srv.URL+"/missing").Body.String()
	assert.Contains(t, page, "No pages were successfully audited. Please check your URLs and try again.")
	assert.NotContains(t, page, "Download All Results as CSV")
}

func TestFormAudit_BlankInputRendersForm(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := postForm(r, "  \n \n")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Audit complete!")
}

func TestFormAudit_TooManyURLs(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	w := postForm(r, "http://a/\nhttp://b/\nhttp://c/\nhttp://d/")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Too many URLs")
}
