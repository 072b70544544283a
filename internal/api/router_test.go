package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dogstory/internal/app"
	"dogstory/internal/geom"
	"dogstory/internal/worldmap"
)

func testCatalog(t *testing.T) *worldmap.Catalog {
	t.Helper()
	catalog := worldmap.NewCatalog(2.0, 3, 60000, worldmap.LootGeneratorConfig{PeriodMs: 5000, Probability: 0.5})
	require.NoError(t, catalog.Add(&worldmap.Map{
		ID:          "map1",
		Name:        "Map 1",
		DogSpeed:    2.0,
		BagCapacity: 3,
		LootScores:  []int{10},
		Roads: []worldmap.Road{
			{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}},
		},
	}))
	return catalog
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	application := app.New(testCatalog(t), false, rand.New(rand.NewSource(1)), nil)
	router := NewRouter(RouterConfig{
		App:                 application,
		TickEndpointEnabled: true,
		RateLimitConfig:     &RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		DisableLogging:      true,
	})
	return httptest.NewServer(router)
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestJoinThenState(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/join", "", map[string]string{
		"userName": "Alice", "mapId": "map1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["authToken"].(string)
	require.Len(t, token, 32)
	assert.EqualValues(t, 0, body["playerId"])

	resp, state := doJSON(t, http.MethodGet, ts.URL+"/api/v1/game/state", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	players := state["players"].(map[string]interface{})
	dog0 := players["0"].(map[string]interface{})
	assert.Equal(t, "U", dog0["dir"])
	assert.InDelta(t, 0, dog0["score"], 0)
}

func TestMoveAndClamp(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	_, joinBody := doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/join", "", map[string]string{
		"userName": "Alice", "mapId": "map1",
	})
	token := joinBody["authToken"].(string)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/player/action", token, map[string]string{"move": "R"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/tick", "", map[string]int{"timeDelta": 1000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, state := doJSON(t, http.MethodGet, ts.URL+"/api/v1/game/state", token, nil)
	dog0 := state["players"].(map[string]interface{})["0"].(map[string]interface{})
	pos := dog0["pos"].([]interface{})
	assert.InDelta(t, 2.0, pos[0], 1e-9)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/tick", "", map[string]int{"timeDelta": 10000})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, state = doJSON(t, http.MethodGet, ts.URL+"/api/v1/game/state", token, nil)
	dog0 = state["players"].(map[string]interface{})["0"].(map[string]interface{})
	pos = dog0["pos"].([]interface{})
	speed := dog0["speed"].([]interface{})
	assert.InDelta(t, 10.4, pos[0], 1e-9)
	assert.InDelta(t, 0.0, speed[0], 1e-9)
}

func TestJoinRejectsUnknownMap(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/game/join", "", map[string]string{
		"userName": "Alice", "mapId": "no-such-map",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "mapNotFound", body["code"])
}

func TestStateRejectsBadToken(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/game/state", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalidToken", body["code"])
}

func TestListMapsAndMapDetail(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/maps")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var maps []map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&maps))
	require.Len(t, maps, 1)
	assert.Equal(t, "map1", maps[0]["id"])

	resp2, err := http.Get(ts.URL + "/api/v1/maps/map1")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestRecordsRejectsOversizedPage(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/game/records?maxItems=500")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
