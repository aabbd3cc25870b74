package vndms

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
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(listURL, detailURL string) *Client {
	return NewClient(Options{
		StationListURL: listURL,
		DetailURL:      detailURL,
		Timeout:        5 * time.Second,
		Retries:        0,
	}, testLogger())
}

const layerPayload = `{
  "features": [
    {
      "properties": {
        "label": "Trà Khúc",
        "popupInfo": "Mã trạm: <b>71540</b><br>Sông: <b>Sông Trà Khúc</b>"
      },
      "geometry": {"type": "Point", "coordinates": [108.8, 15.12]}
    },
    {
      "properties": {
        "label": "Unknown Station",
        "popupInfo": "Mã trạm: <b>12345</b><br>Sông: <b>Sông Lạ</b>"
      },
      "geometry": {"type": "Point", "coordinates": [107.0, 16.0]}
    },
    {
      "properties": {
        "label": "No Code",
        "popupInfo": "Sông: <b>Sông X</b>"
      },
      "geometry": {"type": "Point", "coordinates": [107.0, 16.0]}
    }
  ]
}`

func TestClient_Stations(t *testing.T) {
	var layers []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		layers = append(layers, r.URL.Query().Get("lv"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(layerPayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	keep := func(id string) bool { return id == "71540" }

	stations, err := c.Stations(context.Background(), keep)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2", "3"}, layers)
	require.Len(t, stations, 1)

	meta := stations["71540"]
	assert.Equal(t, "Trà Khúc", meta.Name)
	assert.Equal(t, "Sông Trà Khúc", meta.River)
	require.NotNil(t, meta.X)
	assert.Equal(t, 108.8, *meta.X)
	require.NotNil(t, meta.Y)
	assert.Equal(t, 15.12, *meta.Y)
}

func TestClient_Stations_PartialLayerFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(layerPayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	stations, err := c.Stations(context.Background(), func(string) bool { return true })
	require.NoError(t, err)
	assert.Len(t, stations, 2) // feature without a station code is skipped
}

func TestClient_Stations_AllLayersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.Stations(context.Background(), func(string) bool { return true })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all layers failed")
}

func TestClient_Detail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "71540", r.PostForm.Get("id"))
		assert.Equal(t, "7", r.PostForm.Get("timeSelect"))
		assert.Equal(t, "Water", r.PostForm.Get("source"))

		// Served as text/html, as the portal does.
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`{"bao_dong1":"3.5,","labels":"7h \n15/11","value":"3.2","province_name":"Quảng Ngãi"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	detail, err := c.Detail(context.Background(), "71540")
	require.NoError(t, err)

	assert.Equal(t, "3.5,", detail.BD1)
	assert.Equal(t, "7h \n15/11", detail.Labels)
	assert.Equal(t, "3.2", detail.Values)
	assert.Equal(t, "Quảng Ngãi", detail.Province)
}

func TestClient_Detail_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.Detail(context.Background(), "71540")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestPopupField(t *testing.T) {
	popup := "Mã trạm: <b>69702</b><br>Sông: <b> Sê San </b>"

	assert.Equal(t, "69702", popupField(popup, "Mã trạm"))
	assert.Equal(t, "Sê San", popupField(popup, "Sông"))
	assert.Equal(t, "", popupField(popup, "Tỉnh"))
	assert.Equal(t, "", popupField("no markup at all", "Mã trạm"))
}
