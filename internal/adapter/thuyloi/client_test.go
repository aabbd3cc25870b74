package thuyloi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/floodwatch/internal/domain"
)

func testClient(url string, retries int) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(Options{URL: url, Timeout: 5 * time.Second, Retries: retries}, logger)
}

func TestClient_DayStatus(t *testing.T) {
	day := time.Date(2024, 11, 15, 0, 0, 0, 0, domain.LocalZone)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2024-11-15 00:00:00,000", r.PostForm.Get("time"))
		assert.Equal(t, "0", r.PostForm.Get("ishothuydien"))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(`[{"LakeCode":"abc","ThoiGianCapNhat":1731628800000,"TdMucNuoc":23.5,"XuThe":"Lên chậm"}]`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL, 0).DayStatus(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "abc", records[0].LakeCode)
	assert.Equal(t, "1731628800000", string(records[0].UpdatedAt))
	require.NotNil(t, records[0].WaterLevel)
	assert.Equal(t, 23.5, *records[0].WaterLevel)
	assert.Equal(t, "Lên chậm", records[0].Trend)
}

func TestClient_DayStatus_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL, 3).DayStatus(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, calls)
}

func TestClient_DayStatus_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).DayStatus(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_DayStatus_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 0).DayStatus(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
