package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

// recorded holds the last request URL seen by the fake API.
type recorded struct {
	url *url.URL
}

func newTestService(t *testing.T, body string) (*GeocodeService, *recorded) {
	t.Helper()
	seen := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.url = r.URL
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	s, err := NewGeocodeService("test-key", "bw", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return s, seen
}

func TestGeocodeService_Geocode(t *testing.T) {
	s, seen := newTestService(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "Broadhurst, Gaborone, Botswana",
			"geometry": {"location": {"lat": -24.6295, "lng": 25.944}}
		}]
	}`)

	p, err := s.Geocode(context.Background(), "ABSA Broadhurst")
	require.NoError(t, err)
	assert.InDelta(t, -24.6295, p.Lat, 1e-9)
	assert.InDelta(t, 25.944, p.Lng, 1e-9)

	require.NotNil(t, seen.url)
	assert.Equal(t, "/maps/api/geocode/json", seen.url.Path)
	assert.Equal(t, "ABSA Broadhurst", seen.url.Query().Get("address"))
	assert.Equal(t, "bw", seen.url.Query().Get("region"))
}

func TestGeocodeService_NoResults(t *testing.T) {
	s, _ := newTestService(t, `{"status": "ZERO_RESULTS", "results": []}`)

	_, err := s.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGeocodeService_APIError(t *testing.T) {
	s, _ := newTestService(t, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)

	_, err := s.Geocode(context.Background(), "CBD Station")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResults)
}
