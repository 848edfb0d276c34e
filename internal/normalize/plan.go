// Package normalize maps the loosely typed JSON returned by optimizer
// backends onto the canonical model types. Every record is classified as
// either the canonical schema or a legacy variant and decoded by the adapter
// for that schema.
package normalize

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/LoadPlan/internal/model"
)

//go:embed plan_schema.yaml
var planSchemaYAML []byte

const planSchemaURL = "loadplan://schemas/plan.json"

// PlanShape identifies which adapter decoded a plan document.
type PlanShape int

const (
	PlanCanonical PlanShape = iota // Validated against the embedded plan schema
	PlanLegacy                     // Probed field by field
)

func (s PlanShape) String() string {
	if s == PlanCanonical {
		return "canonical"
	}
	return "legacy"
}

// Envelope is a decoded plan together with how it was decoded.
type Envelope struct {
	Shape     PlanShape
	Plan      model.PlanResult
	Defaulted int // Placement fields that fell back to 0
	Legacy    int // Placements decoded by the legacy adapter
}

// Normalizer decodes plan documents.
type Normalizer struct {
	schema *jsonschema.Schema
}

// New compiles the embedded plan schema.
func New() (*Normalizer, error) {
	var raw interface{}
	if err := yaml.Unmarshal(planSchemaYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plan schema: %w", err)
	}
	// Round-trip through JSON so the compiler sees JSON-typed values.
	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(planSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add plan schema: %w", err)
	}
	schema, err := compiler.Compile(planSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan schema: %w", err)
	}
	return &Normalizer{schema: schema}, nil
}

// MustNew is like New but panics if the embedded schema does not compile.
func MustNew() *Normalizer {
	n, err := New()
	if err != nil {
		panic(err)
	}
	return n
}

// DecodePlan decodes a plan response body. It only fails when the body is not
// a JSON object; missing or misspelled fields are defaulted.
func (n *Normalizer) DecodePlan(body []byte) (Envelope, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("invalid plan JSON: %w", err)
	}
	o, ok := asObject(inst)
	if !ok {
		return Envelope{}, fmt.Errorf("invalid plan JSON: expected an object, got %T", inst)
	}

	if n.schema.Validate(inst) == nil {
		plan, err := canonicalPlan(body)
		if err == nil {
			return Envelope{Shape: PlanCanonical, Plan: plan}, nil
		}
	}
	return legacyPlan(o), nil
}

type wireContainer struct {
	ID         string  `json:"id"`
	L          float64 `json:"l"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Payload    float64 `json:"payload"`
	MaxPayload float64 `json:"maxPayload"`
}

func (c wireContainer) model() *model.Container {
	payload := c.MaxPayload
	if payload == 0 {
		payload = c.Payload
	}
	return &model.Container{ID: c.ID, Length: c.L, Width: c.W, Height: c.H, MaxPayload: payload}
}

type wirePlan struct {
	ContainerID  string               `json:"containerID"`
	Container    *wireContainer       `json:"container"`
	Utilization  model.Utilization    `json:"utilizationPercent"`
	TotalWeight  float64              `json:"totalWeight"`
	LoadedWeight float64              `json:"loadedWeight"`
	Placements   []model.Placement    `json:"placements"`
	NotPlaced    []model.NotPlaced    `json:"notPlaced"`
	CargoSummary []model.CargoSummary `json:"cargoSummary"`
	Exceptions   []string             `json:"exceptions"`
}

func canonicalPlan(body []byte) (model.PlanResult, error) {
	var w wirePlan
	if err := json.Unmarshal(body, &w); err != nil {
		return model.PlanResult{}, err
	}
	plan := model.PlanResult{
		ContainerID:  w.ContainerID,
		Utilization:  w.Utilization,
		TotalWeight:  w.TotalWeight,
		LoadedWeight: w.LoadedWeight,
		Placements:   w.Placements,
		NotPlaced:    w.NotPlaced,
		CargoSummary: w.CargoSummary,
		Exceptions:   w.Exceptions,
	}
	if w.Container != nil {
		plan.Container = w.Container.model()
	}
	if plan.Placements == nil {
		plan.Placements = []model.Placement{}
	}
	return plan, nil
}

func legacyPlan(o Object) Envelope {
	env := Envelope{Shape: PlanLegacy}
	plan := model.PlanResult{
		ContainerID: o.firstText("containerID", "containerId"),
		Placements:  []model.Placement{},
	}

	util, _ := asObject(o["utilizationPercent"])
	if v, ok := util.firstNumber("volume"); ok {
		plan.Utilization.Volume = v
	} else {
		plan.Utilization.Volume, _ = o.firstNumber("volUtil")
	}
	if v, ok := util.firstNumber("weight"); ok {
		plan.Utilization.Weight = v
	} else {
		plan.Utilization.Weight, _ = o.firstNumber("wtUtil")
	}
	plan.TotalWeight, _ = o.firstNumber("totalWeight")
	plan.LoadedWeight, _ = o.firstNumber("loadedWeight")

	if c, ok := asObject(o["container"]); ok {
		plan.Container = legacyContainer(c)
	}

	if arr, ok := o.array("placements"); ok {
		for _, raw := range arr {
			res := Placement(raw)
			plan.Placements = append(plan.Placements, res.Placement)
			env.Defaulted += res.Defaulted
			if res.Schema == SchemaLegacy {
				env.Legacy++
			}
		}
	}

	if arr, ok := o.array("cargoSummary"); ok {
		plan.CargoSummary = []model.CargoSummary{}
		for _, raw := range arr {
			c, _ := asObject(raw)
			loaded, _ := c.firstNonZero("loaded", "loadedQty")
			plan.CargoSummary = append(plan.CargoSummary, model.CargoSummary{
				ItemID: c.firstText("id", "itemId", "sku"),
				Loaded: int(math.Trunc(loaded)),
			})
		}
	}

	if arr, ok := o.array("notPlaced"); ok {
		for _, raw := range arr {
			c, _ := asObject(raw)
			qty, _ := c.firstNumber("qty", "quantity", "remaining")
			plan.NotPlaced = append(plan.NotPlaced, model.NotPlaced{
				ItemID:   c.firstText("id", "itemId", "sku"),
				Quantity: int(math.Trunc(qty)),
			})
		}
	}

	if arr, ok := o.array("exceptions"); ok {
		for _, raw := range arr {
			switch e := raw.(type) {
			case string:
				plan.Exceptions = append(plan.Exceptions, e)
			default:
				if b, err := json.Marshal(e); err == nil {
					plan.Exceptions = append(plan.Exceptions, string(b))
				}
			}
		}
	}

	env.Plan = plan
	return env
}

func legacyContainer(c Object) *model.Container {
	out := &model.Container{ID: c.firstText("id", "containerID", "code")}
	out.Length, _ = c.firstNumber("l", "L", "length")
	out.Width, _ = c.firstNumber("w", "W", "width")
	out.Height, _ = c.firstNumber("h", "H", "height")
	out.MaxPayload, _ = c.firstNumber("maxPayload", "payload")
	return out
}
