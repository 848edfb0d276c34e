package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/normalize"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", opts...)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOK  bool
		wantErr bool
	}{
		{name: "ok true", status: 200, body: `{"ok":true,"ts":"2024-01-01T00:00:00Z"}`, wantOK: true},
		{name: "ok missing", status: 200, body: `{}`, wantOK: true},
		{name: "not json", status: 200, body: `pong`, wantOK: true},
		{name: "ok false", status: 200, body: `{"ok":false}`, wantOK: false},
		{name: "server error", status: 503, body: `{"ok":true}`, wantErr: true},
		{name: "no content", status: 204, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, PathHealth, r.URL.Path)
				assert.Equal(t, "no-store", r.Header.Get("Cache-Control"))
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			h, err := c.Health(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindStatus))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, h.OK)
		})
	}
}

func TestHealth_Timestamp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true,"ts":"2024-05-01T10:00:00Z"}`)
	})
	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", h.Timestamp)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.NotEmpty(t, err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "health transport")
}

func TestSimulate_RequestBody(t *testing.T) {
	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathSimulate, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"utilizationPercent":{"volume":72,"weight":55},"totalWeight":14000,"placements":[]}`)
	})

	env, err := c.Simulate(context.Background(), NewSimulateRequest(model.DefaultInputs()))
	require.NoError(t, err)
	assert.Equal(t, normalize.PlanCanonical, env.Shape)
	assert.Equal(t, 72.0, env.Plan.Utilization.Volume)

	containers := got["emptyContainers"].([]interface{})
	require.Len(t, containers, 1)
	assert.Equal(t, map[string]interface{}{
		"id": "20 HC", "l": 5900.0, "w": 2350.0, "h": 2390.0, "maxPayload": 20000.0,
	}, containers[0])

	cargoes := got["cargoes"].([]interface{})
	require.Len(t, cargoes, 1)
	assert.Equal(t, map[string]interface{}{
		"id": "A1", "l": 485.0, "w": 385.0, "h": 200.0, "weight": 17.4,
		"quantity": 800.0, "rotation": "all", "family": "A", "stack": true,
	}, cargoes[0])
	assert.Equal(t, map[string]interface{}{"gap": 5.0}, got["rules"])
}

func TestSimulate_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.Simulate(context.Background(), NewSimulateRequest(model.DefaultInputs()))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindStatus, ce.Kind)
	assert.Equal(t, 500, ce.Status)
	assert.Equal(t, "simulate", ce.Op)
	assert.Equal(t, "500 Internal Server Error", err.Error())
}

func TestSimulate_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})
	_, err := c.Simulate(context.Background(), NewSimulateRequest(model.DefaultInputs()))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDecode))
	assert.Contains(t, err.Error(), "invalid plan JSON")
}

func TestBearerToken(t *testing.T) {
	var token atomic.Value
	token.Store("")
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"ok":true}`)
	}, WithTokenSource(TokenFunc(func() string { return token.Load().(string) })))

	_, err := c.Health(context.Background())
	require.NoError(t, err)
	token.Store("  abc123 ")
	_, err = c.Health(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc123"}, seen)
}

func TestUnauthorizedIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer expired", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}, WithTokenSource(StaticToken("expired")))

	_, err := c.Optimize(context.Background(), OptimizeRequest{ContainerID: "C1", Gap: 5})
	require.Error(t, err)
	assert.Equal(t, "401 Unauthorized", err.Error())
}

func TestOptimize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathOptimize, r.URL.Path)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"containerId": "C1", "gap": 10.0}, body)
		_, _ = io.WriteString(w, `{
			"container":{"id":"C1","l":12000,"w":2350,"h":2690,"payload":26000},
			"utilizationPercent":{"volume":50,"weight":20},
			"loadedWeight":5000,
			"placements":[{"x":0,"y":0,"z":0,"l":100,"w":100,"h":100}],
			"notPlaced":[{"id":"A1","qty":4}]
		}`)
	})

	env, err := c.Optimize(context.Background(), OptimizeRequest{ContainerID: "C1", Gap: 10})
	require.NoError(t, err)
	require.NotNil(t, env.Plan.Container)
	assert.Equal(t, 26000.0, env.Plan.Container.MaxPayload)
	assert.Equal(t, 4, env.Plan.NotPlacedCount())
}

func TestCatalog(t *testing.T) {
	var posted []map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == PathContainers:
			_, _ = io.WriteString(w, `[{"id":"20 HC","l":5900,"w":2350,"h":2390,"payload":20000}]`)
		case r.Method == http.MethodGet && r.URL.Path == PathItems:
			_, _ = io.WriteString(w, `{"items":[{"id":"A1","l":485,"w":385,"h":200,"wt":17.4,"qty":800,"rotation":"all","family":"A"}]}`)
		case r.Method == http.MethodPost:
			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body["_path"] = r.URL.Path
			posted = append(posted, body)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	containers, err := c.Containers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Container{model.DefaultContainer()}, containers)

	items, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 17.4, items[0].Weight)
	assert.Equal(t, 800, items[0].Quantity)

	require.NoError(t, c.SaveContainer(ctx, model.DefaultContainer()))
	require.NoError(t, c.SaveItem(ctx, model.DefaultCargoItem()))
	require.Len(t, posted, 2)
	assert.Equal(t, map[string]interface{}{
		"_path": PathContainers, "id": "20 HC", "l": 5900.0, "w": 2350.0, "h": 2390.0, "payload": 20000.0,
	}, posted[0])
	assert.Equal(t, map[string]interface{}{
		"_path": PathItems, "id": "A1", "l": 485.0, "w": 385.0, "h": 200.0,
		"wt": 17.4, "qty": 800.0, "rotation": "all", "family": "A",
	}, posted[1])
}

func TestReport(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	var body map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathReport, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})

	plan := &model.LastPlan{
		Inputs: model.DefaultInputs(),
		Result: model.PlanResult{
			Utilization: model.Utilization{Volume: 72, Weight: 55},
			TotalWeight: 14000,
			Placements:  make([]model.Placement, 10),
		},
	}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := c.Report(context.Background(), NewReportRequest(plan.Inputs, plan, "data:image/png;base64,AAAA", now))
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, "2024-03-01T12:00:00Z", meta["createdAt"])
	assert.Equal(t, ReportTitle, meta["title"])
	assert.Equal(t, "data:image/png;base64,AAAA", body["snapshot"])
	input := body["input"].(map[string]interface{})
	assert.Contains(t, input, "container")
	assert.Contains(t, input, "item")
	assert.Contains(t, input, "rules")
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, "20 HC", summary["containerId"])
	assert.Equal(t, 10.0, summary["loaded"])
}

func TestNewReportRequest_NullSnapshot(t *testing.T) {
	req := NewReportRequest(model.DefaultInputs(), nil, "", time.Now())
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"snapshot":null`))
	assert.NotContains(t, string(b), `"summary"`)
}

func TestBaseURLTrimmed(t *testing.T) {
	assert.Equal(t, "http://example.test", New(" http://example.test/ ").BaseURL())
}
