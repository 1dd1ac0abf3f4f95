package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfextract-backend/internal/engines/enginetest"
	"pdfextract-backend/internal/jobs"
	"pdfextract-backend/internal/shared/auth"
	"pdfextract-backend/internal/shared/config"
)

var samplePDF = enginetest.MinimalPDF("Invoice 42 paid")

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:               "dev",
		JWTSecret:         "scenario-secret",
		FrontendURL:       "http://localhost:5173",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		RecordStoreType:   "memory",
		WorkQueueType:     "memory",
		ObjectStoreType:   "local",
		LocalStoreDir:     t.TempDir(),
		MaxUploadBytes:    20 << 20,
		WorkerConcurrency: 2,
	}
}

func buildApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok, err := auth.SignJWT(auth.Claims{Sub: sub, Login: "user" + sub})
	require.NoError(t, err)
	return "Bearer " + tok
}

func upload(t *testing.T, r http.Handler, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="doc.pdf"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createJob(r http.Handler, token, uploadID, engine string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"upload_id": uploadID, "engine": engine})
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJob(r http.Handler, token, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+id, nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadToResultScenario(t *testing.T) {
	app := buildApp(t, testConfig(t))
	require.True(t, app.EmbeddedWorker())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.NewWorker().Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	alice, mallory := bearer(t, "1"), bearer(t, "2")

	w := upload(t, app.Router, alice, "text/plain", []byte("hello"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only PDF files are allowed")

	w = upload(t, app.Router, alice, "application/pdf", samplePDF)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var up struct {
		UploadID string `json:"upload_id"`
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	assert.Equal(t, "doc.pdf", up.Filename)
	assert.Equal(t, int64(len(samplePDF)), up.Size)

	w = createJob(app.Router, alice, up.UploadID, "foo")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid engine")

	w = createJob(app.Router, mallory, up.UploadID, "markitdown")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = createJob(app.Router, alice, up.UploadID, "markitdown")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "queued", created.Status)

	require.Eventually(t, func() bool {
		job, err := app.Jobs.Load(context.Background(), created.JobID)
		return err == nil && job.Status.Terminal()
	}, 15*time.Second, 50*time.Millisecond)

	w = getJob(app.Router, alice, created.JobID)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Status     string  `json:"status"`
		Result     *string `json:"result"`
		Error      *string `json:"error"`
		StartedAt  *string `json:"started_at"`
		FinishedAt *string `json:"finished_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, string(jobs.StatusSucceeded), view.Status)
	require.NotNil(t, view.Result)
	assert.Contains(t, *view.Result, "Invoice 42 paid")
	assert.Nil(t, view.Error)
	assert.NotNil(t, view.StartedAt)
	assert.NotNil(t, view.FinishedAt)

	w = getJob(app.Router, mallory, created.JobID)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "Invoice")
}

func TestBuildDurableBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "sqlite records, redis queue", mutate: func(c *config.Config) {
			c.RecordStoreType = "sqlite"
			c.SQLitePath = filepath.Join(t.TempDir(), "records.db")
			c.WorkQueueType = "redis"
			c.RedisURL = "redis://" + mr.Addr() + "/0"
		}},
		{name: "redis records and queue", mutate: func(c *config.Config) {
			c.RecordStoreType = "redis"
			c.WorkQueueType = "redis"
			c.RedisURL = "redis://" + mr.Addr() + "/0"
		}},
		{name: "pebble records", mutate: func(c *config.Config) {
			c.RecordStoreType = "pebble"
			c.PebbleDir = filepath.Join(t.TempDir(), "pebble")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.mutate(&cfg)
			app := buildApp(t, cfg)
			alice := bearer(t, "1")

			w := upload(t, app.Router, alice, "application/pdf", samplePDF)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var up struct {
				UploadID string `json:"upload_id"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))

			w = createJob(app.Router, alice, up.UploadID, "markitdown")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			depth, err := app.Queue.Len(context.Background())
			require.NoError(t, err)
			assert.GreaterOrEqual(t, depth, int64(1))
		})
	}
}

func TestBuildRejectsIncompleteConfig(t *testing.T) {
	for _, mutate := range []func(*config.Config){
		func(c *config.Config) { c.RecordStoreType = "postgres" },
		func(c *config.Config) { c.WorkQueueType = "sqs" },
		func(c *config.Config) { c.ObjectStoreType = "s3" },
	} {
		cfg := testConfig(t)
		mutate(&cfg)
		_, err := Build(context.Background(), cfg)
		assert.Error(t, err)
	}
}

func TestReadyChecksBackends(t *testing.T) {
	app := buildApp(t, testConfig(t))
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"records":"ok"`)
}
