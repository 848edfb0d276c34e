package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxQuantity is the upper bound applied to cargo item quantities.
const MaxQuantity = 100000

// Rotation is the rotation policy the optimizer applies to a cargo item.
// Values other than the constants below are passed to the backend verbatim.
type Rotation string

const (
	RotationAll  Rotation = "all"  // Any of the six orientations
	RotationNone Rotation = "none" // Keep the given orientation
)

func (r Rotation) String() string {
	if r == "" {
		return string(RotationAll)
	}
	return string(r)
}

// Container describes an empty container to be loaded.
type Container struct {
	ID         string  `json:"id" validate:"required"`
	Length     float64 `json:"l" validate:"gt=0"`          // mm
	Width      float64 `json:"w" validate:"gt=0"`          // mm
	Height     float64 `json:"h" validate:"gt=0"`          // mm
	MaxPayload float64 `json:"maxPayload" validate:"gt=0"` // kg
}

// Volume returns the inner volume in mm³.
func (c Container) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// CargoItem describes one cargo line: an item type and how many of it to load.
type CargoItem struct {
	ID        string   `json:"id" validate:"required"`
	Length    float64  `json:"l" validate:"gt=0"`       // mm
	Width     float64  `json:"w" validate:"gt=0"`       // mm
	Height    float64  `json:"h" validate:"gt=0"`       // mm
	Weight    float64  `json:"weight" validate:"gte=0"` // kg per unit
	Quantity  int      `json:"quantity" validate:"gte=0,lte=100000"`
	Rotation  Rotation `json:"rotation"`
	Family    string   `json:"family"` // Color grouping only
	Stackable bool     `json:"stack"`
}

// NewCargoItem creates a cargo item with a generated short ID.
func NewCargoItem(l, w, h, weight float64, qty int) CargoItem {
	return CargoItem{
		ID:        uuid.New().String()[:8],
		Length:    l,
		Width:     w,
		Height:    h,
		Weight:    weight,
		Quantity:  qty,
		Rotation:  RotationAll,
		Stackable: true,
	}
}

// Rules holds the packing rules sent along with a simulation.
type Rules struct {
	Gap float64 `json:"gap" validate:"gte=0,lte=200"` // mm between placed items
}

// Inputs is one collection of the form: what a run sends to the optimizer.
type Inputs struct {
	Container Container `json:"container"`
	Item      CargoItem `json:"item"`
	Rules     Rules     `json:"rules"`
}

// Placement is a single item's position and size within a container,
// in the backend coordinate frame.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Length float64 `json:"l"`
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Family string  `json:"family,omitempty"`
	ID     string  `json:"id,omitempty"`
}

// Volume returns the placed box volume in mm³.
func (p Placement) Volume() float64 {
	return p.Length * p.Width * p.Height
}

// NotPlaced is a residual the optimizer could not fit.
type NotPlaced struct {
	ItemID   string `json:"id"`
	Quantity int    `json:"qty"`
}

// CargoSummary is the per-item loaded count some backends return.
type CargoSummary struct {
	ItemID string `json:"id"`
	Loaded int    `json:"loaded"`
}

// Utilization holds volume and weight usage percentages.
type Utilization struct {
	Volume float64 `json:"volume"`
	Weight float64 `json:"weight"`
}

// PlanResult is the canonical form of an optimizer response.
type PlanResult struct {
	ContainerID  string         `json:"containerID,omitempty"`
	Container    *Container     `json:"container,omitempty"`
	Utilization  Utilization    `json:"utilizationPercent"`
	TotalWeight  float64        `json:"totalWeight"`
	LoadedWeight float64        `json:"loadedWeight"`
	Placements   []Placement    `json:"placements"`
	NotPlaced    []NotPlaced    `json:"notPlaced,omitempty"`
	CargoSummary []CargoSummary `json:"cargoSummary,omitempty"`
	Exceptions   []string       `json:"exceptions,omitempty"`
}

// LoadedCount returns the number of loaded items. A cargo summary, when the
// backend sent one, takes precedence over the placement count.
func (r PlanResult) LoadedCount() int {
	if r.CargoSummary != nil {
		total := 0
		for _, c := range r.CargoSummary {
			total += c.Loaded
		}
		return total
	}
	return len(r.Placements)
}

// NotPlacedCount returns the total quantity the optimizer left out.
func (r PlanResult) NotPlacedCount() int {
	total := 0
	for _, n := range r.NotPlaced {
		total += n.Quantity
	}
	return total
}

// PlacedVolume returns the summed volume of all placements in mm³.
func (r PlanResult) PlacedVolume() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.Volume()
	}
	return total
}

// LastPlan is a plan that was applied to the scene, together with the inputs
// that produced it.
type LastPlan struct {
	RunID       string     `json:"run_id"`
	Inputs      Inputs     `json:"inputs"`
	Result      PlanResult `json:"result"`
	CompletedAt time.Time  `json:"completed_at"`
}

// ContainerID returns the id the plan was computed for, preferring the
// backend's echo over the submitted input.
func (lp LastPlan) ContainerID() string {
	if lp.Result.ContainerID != "" {
		return lp.Result.ContainerID
	}
	if lp.Result.Container != nil && lp.Result.Container.ID != "" {
		return lp.Result.Container.ID
	}
	return lp.Inputs.Container.ID
}

// Project ties the form inputs and the latest plan together for save/load.
type Project struct {
	Name     string    `json:"name"`
	Inputs   Inputs    `json:"inputs"`
	LastPlan *LastPlan `json:"last_plan,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:   "Untitled",
		Inputs: DefaultInputs(),
	}
}

// DefaultContainer returns the 20' high-cube container the form falls back to.
func DefaultContainer() Container {
	return Container{
		ID:         "20 HC",
		Length:     5900,
		Width:      2350,
		Height:     2390,
		MaxPayload: 20000,
	}
}

// DefaultCargoItem returns the cargo item the form falls back to.
func DefaultCargoItem() CargoItem {
	return CargoItem{
		ID:        "A1",
		Length:    485,
		Width:     385,
		Height:    200,
		Weight:    17.4,
		Quantity:  800,
		Rotation:  RotationAll,
		Family:    "A",
		Stackable: true,
	}
}

// DefaultRules returns the default packing rules.
func DefaultRules() Rules {
	return Rules{Gap: 5}
}

func DefaultInputs() Inputs {
	return Inputs{
		Container: DefaultContainer(),
		Item:      DefaultCargoItem(),
		Rules:     DefaultRules(),
	}
}
