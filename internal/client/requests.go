package client

import (
	"context"
	"net/http"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/normalize"
)

// ReportTitle is sent as the report's meta title.
const ReportTitle = "Load Plan Report"

// Health is the result of a health check.
type Health struct {
	OK        bool
	Timestamp string
}

// ─── Simulate ──────────────────────────────────────────────

// EmptyContainer is a container as the simulate and report endpoints take it.
type EmptyContainer struct {
	ID         string  `json:"id"`
	L          float64 `json:"l"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	MaxPayload float64 `json:"maxPayload"`
}

// Cargo is one cargo line of a simulation.
type Cargo struct {
	ID       string  `json:"id"`
	L        float64 `json:"l"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Weight   float64 `json:"weight"`
	Quantity int     `json:"quantity"`
	Rotation string  `json:"rotation"`
	Family   string  `json:"family"`
	Stack    bool    `json:"stack"`
}

// Rules are the packing rules of a simulation.
type Rules struct {
	Gap float64 `json:"gap"`
}

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	EmptyContainers []EmptyContainer `json:"emptyContainers"`
	Cargoes         []Cargo          `json:"cargoes"`
	Rules           Rules            `json:"rules"`
}

func emptyContainer(c model.Container) EmptyContainer {
	return EmptyContainer{ID: c.ID, L: c.Length, W: c.Width, H: c.Height, MaxPayload: c.MaxPayload}
}

// NewSimulateRequest builds a one-container, one-cargo simulation.
func NewSimulateRequest(in model.Inputs) SimulateRequest {
	it := in.Item
	return SimulateRequest{
		EmptyContainers: []EmptyContainer{emptyContainer(in.Container)},
		Cargoes: []Cargo{{
			ID:       it.ID,
			L:        it.Length,
			W:        it.Width,
			H:        it.Height,
			Weight:   it.Weight,
			Quantity: it.Quantity,
			Rotation: it.Rotation.String(),
			Family:   it.Family,
			Stack:    it.Stackable,
		}},
		Rules: Rules{Gap: in.Rules.Gap},
	}
}

// OptimizeRequest is the body of POST /api/optimize.
type OptimizeRequest struct {
	ContainerID string  `json:"containerId"`
	Gap         float64 `json:"gap"`
}

// ─── Catalog ───────────────────────────────────────────────

// CatalogContainer is the body of POST /api/containers.
type CatalogContainer struct {
	ID      string  `json:"id"`
	L       float64 `json:"l"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Payload float64 `json:"payload"`
}

// CatalogItem is the body of POST /api/items.
type CatalogItem struct {
	ID       string  `json:"id"`
	L        float64 `json:"l"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Wt       float64 `json:"wt"`
	Qty      int     `json:"qty"`
	Rotation string  `json:"rotation"`
	Family   string  `json:"family"`
}

// Containers lists the container catalog.
func (c *Client) Containers(ctx context.Context) ([]model.Container, error) {
	body, err := c.call(ctx, "containers", http.MethodGet, PathContainers, nil)
	if err != nil {
		return nil, err
	}
	list, err := normalize.DecodeContainers(body)
	if err != nil {
		return nil, decodeError("containers", err)
	}
	return list, nil
}

// SaveContainer adds or updates a catalog container.
func (c *Client) SaveContainer(ctx context.Context, ct model.Container) error {
	_, err := c.call(ctx, "save container", http.MethodPost, PathContainers, CatalogContainer{
		ID: ct.ID, L: ct.Length, W: ct.Width, H: ct.Height, Payload: ct.MaxPayload,
	})
	return err
}

// Items lists the cargo item catalog.
func (c *Client) Items(ctx context.Context) ([]model.CargoItem, error) {
	body, err := c.call(ctx, "items", http.MethodGet, PathItems, nil)
	if err != nil {
		return nil, err
	}
	list, err := normalize.DecodeItems(body)
	if err != nil {
		return nil, decodeError("items", err)
	}
	return list, nil
}

// SaveItem adds or updates a catalog item.
func (c *Client) SaveItem(ctx context.Context, it model.CargoItem) error {
	_, err := c.call(ctx, "save item", http.MethodPost, PathItems, CatalogItem{
		ID:       it.ID,
		L:        it.Length,
		W:        it.Width,
		H:        it.Height,
		Wt:       it.Weight,
		Qty:      it.Quantity,
		Rotation: it.Rotation.String(),
		Family:   it.Family,
	})
	return err
}

// ─── Report ────────────────────────────────────────────────

// ReportMeta describes the report document.
type ReportMeta struct {
	CreatedAt string `json:"createdAt"`
	Title     string `json:"title"`
}

// ReportItem is the cargo item as echoed into a report.
type ReportItem struct {
	ID       string  `json:"id"`
	L        float64 `json:"l"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Weight   float64 `json:"weight"`
	Qty      int     `json:"qty"`
	Rotation string  `json:"rotation"`
	Family   string  `json:"family"`
	Stack    bool    `json:"stack"`
}

// ReportInput is the form input a report was requested with.
type ReportInput struct {
	Container EmptyContainer `json:"container"`
	Item      ReportItem     `json:"item"`
	Rules     Rules          `json:"rules"`
}

// ReportSummary carries the figures of the plan being reported.
type ReportSummary struct {
	ContainerID  string  `json:"containerId"`
	VolumeUtil   float64 `json:"volumeUtil"`
	WeightUtil   float64 `json:"weightUtil"`
	TotalWeight  float64 `json:"totalWeight"`
	LoadedWeight float64 `json:"loadedWeight,omitempty"`
	Loaded       int     `json:"loaded"`
	NotPlaced    int     `json:"notPlaced"`
}

// ReportRequest is the body of POST /api/report.
type ReportRequest struct {
	Meta      ReportMeta      `json:"meta"`
	Input     ReportInput     `json:"input"`
	Container *EmptyContainer `json:"container,omitempty"`
	Summary   *ReportSummary  `json:"summary,omitempty"`
	Snapshot  *string         `json:"snapshot"` // PNG data URL; null without a frame
}

// NewReportRequest builds a report request for inputs and, when non-nil,
// the plan they produced.
func NewReportRequest(in model.Inputs, plan *model.LastPlan, snapshot string, now time.Time) ReportRequest {
	it := in.Item
	req := ReportRequest{
		Meta: ReportMeta{
			CreatedAt: now.UTC().Format(time.RFC3339Nano),
			Title:     ReportTitle,
		},
		Input: ReportInput{
			Container: emptyContainer(in.Container),
			Item: ReportItem{
				ID:       it.ID,
				L:        it.Length,
				W:        it.Width,
				H:        it.Height,
				Weight:   it.Weight,
				Qty:      it.Quantity,
				Rotation: it.Rotation.String(),
				Family:   it.Family,
				Stack:    it.Stackable,
			},
			Rules: Rules{Gap: in.Rules.Gap},
		},
	}
	if snapshot != "" {
		req.Snapshot = &snapshot
	}
	if plan != nil {
		r := plan.Result
		if r.Container != nil {
			ct := emptyContainer(*r.Container)
			req.Container = &ct
		}
		req.Summary = &ReportSummary{
			ContainerID:  plan.ContainerID(),
			VolumeUtil:   r.Utilization.Volume,
			WeightUtil:   r.Utilization.Weight,
			TotalWeight:  r.TotalWeight,
			LoadedWeight: r.LoadedWeight,
			Loaded:       r.LoadedCount(),
			NotPlaced:    r.NotPlacedCount(),
		}
	}
	return req
}
