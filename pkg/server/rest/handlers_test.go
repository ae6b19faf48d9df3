package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/gridnav/pkg/datastructure"
	"warehouse/gridnav/pkg/grid"
	"warehouse/gridnav/pkg/kv"
	"warehouse/gridnav/pkg/server/rest"
	"warehouse/gridnav/pkg/server/rest/service"
	"warehouse/gridnav/pkg/types"
)

type brokenLayoutStore struct{}

func (brokenLayoutStore) SaveLayout(name string, layout datastructure.FloorLayout) error {
	return types.WrapErrorf(errors.New("disk failure"), types.ErrInternalServerError,
		"save layout %s", name)
}

func (brokenLayoutStore) GetLayout(name string) (datastructure.FloorLayout, error) {
	return datastructure.FloorLayout{}, types.WrapErrorf(errors.New("disk failure"),
		types.ErrInternalServerError, "get layout %s", name)
}

func newTestRouter(t *testing.T, floor *grid.Floor) *chi.Mux {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	t.Cleanup(func() { kvDB.Close() })

	svc := service.NewNavigationService(floor, kvDB)
	m := rest.NewMetrics(prometheus.NewRegistry())

	r := chi.NewRouter()
	rest.NavigatorRouter(r, svc, m)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	bb, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(bb))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouteHandler(t *testing.T) {

	t.Run("route query returns the shortest route", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(5, 5))

		rec := postJSON(t, r, "/api/navigations/route", map[string]interface{}{
			"source": map[string]int{"column": 0, "row": 0},
			"target": map[string]int{"column": 4, "row": 0},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Found     bool   `json:"found"`
			StepCount int    `json:"step_count"`
			Path      string `json:"path"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Found)
		assert.Equal(t, 4, resp.StepCount)
		assert.NotEmpty(t, resp.Path)
	})

	t.Run("unreachable target still answers 200 with found false", func(t *testing.T) {
		floor := grid.NewFloor(3, 1)
		require.NoError(t, floor.PlaceRobot("r1", datastructure.NewCoordinate(1, 0)))
		r := newTestRouter(t, floor)

		rec := postJSON(t, r, "/api/navigations/route", map[string]interface{}{
			"source": map[string]int{"column": 0, "row": 0},
			"target": map[string]int{"column": 2, "row": 0},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Found bool `json:"found"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Found)
	})

	t.Run("negative coordinates fail validation", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(5, 5))

		rec := postJSON(t, r, "/api/navigations/route", map[string]interface{}{
			"source": map[string]int{"column": -1, "row": 0},
			"target": map[string]int{"column": 4, "row": 0},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bulk query rejects an empty pair list", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(5, 5))

		rec := postJSON(t, r, "/api/navigations/bulk", map[string]interface{}{
			"pairs": []interface{}{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("robot placement conflicts map to 409", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(5, 5))

		rec := postJSON(t, r, "/api/robots", map[string]interface{}{
			"robot_id": "r1",
			"cell":     map[string]int{"column": 1, "row": 1},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = postJSON(t, r, "/api/robots", map[string]interface{}{
			"robot_id": "r2",
			"cell":     map[string]int{"column": 1, "row": 1},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown layout load maps to 404", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(5, 5))

		rec := postJSON(t, r, "/api/floor/layouts/nope/load", map[string]interface{}{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("floor snapshot lists walls and robots", func(t *testing.T) {
		floor := grid.NewFloor(4, 4)
		require.NoError(t, floor.SetWall(datastructure.NewCoordinate(2, 2)))
		r := newTestRouter(t, floor)

		req := httptest.NewRequest(http.MethodGet, "/api/floor/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Columns int `json:"columns"`
			Rows    int `json:"rows"`
			Walls   []struct {
				Column int `json:"column"`
				Row    int `json:"row"`
			} `json:"walls"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Columns)
		require.Len(t, resp.Walls, 1)
		assert.Equal(t, 2, resp.Walls[0].Column)
	})

	t.Run("empty floor snapshot renders empty wall and robot lists", func(t *testing.T) {
		r := newTestRouter(t, grid.NewFloor(2, 2))

		req := httptest.NewRequest(http.MethodGet, "/api/floor/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, `"walls":[]`)
		assert.Contains(t, body, `"robots":[]`)
	})

	t.Run("layout store failure maps to 500", func(t *testing.T) {
		svc := service.NewNavigationService(grid.NewFloor(3, 3), brokenLayoutStore{})
		m := rest.NewMetrics(prometheus.NewRegistry())
		r := chi.NewRouter()
		rest.NavigatorRouter(r, svc, m)

		rec := postJSON(t, r, "/api/floor/layouts/site-a/save", map[string]interface{}{})
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "internal server error", resp.Status)
	})
}
