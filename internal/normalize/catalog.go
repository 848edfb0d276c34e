package normalize

import (
	"bytes"
	"fmt"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// DecodeContainers decodes a container catalog listing. The body may be a
// bare array or an object wrapping it under "containers" or "data".
func DecodeContainers(body []byte) ([]model.Container, error) {
	arr, err := listing(body, "containers")
	if err != nil {
		return nil, err
	}
	out := make([]model.Container, 0, len(arr))
	for _, raw := range arr {
		o, ok := asObject(raw)
		if !ok {
			continue
		}
		out = append(out, *legacyContainer(o))
	}
	return out, nil
}

// DecodeItems decodes a cargo item catalog listing. The body may be a bare
// array or an object wrapping it under "items" or "data".
func DecodeItems(body []byte) ([]model.CargoItem, error) {
	arr, err := listing(body, "items")
	if err != nil {
		return nil, err
	}
	out := make([]model.CargoItem, 0, len(arr))
	for _, raw := range arr {
		o, ok := asObject(raw)
		if !ok {
			continue
		}
		item := model.CargoItem{
			ID:        o.firstText("id", "sku", "code"),
			Rotation:  model.Rotation(o.firstText("rotation")),
			Family:    o.firstText("family"),
			Stackable: true,
		}
		item.Length, _ = o.firstNumber("l", "L", "length")
		item.Width, _ = o.firstNumber("w", "W", "width")
		item.Height, _ = o.firstNumber("h", "H", "height")
		item.Weight, _ = o.firstNumber("wt", "weight")
		qty, _ := o.firstNumber("qty", "quantity")
		item.Quantity = int(math.Trunc(qty))
		if stack, ok := o["stack"].(bool); ok {
			item.Stackable = stack
		}
		out = append(out, item)
	}
	return out, nil
}

func listing(body []byte, key string) ([]interface{}, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid %s JSON: %w", key, err)
	}
	if arr, ok := inst.([]interface{}); ok {
		return arr, nil
	}
	if o, ok := asObject(inst); ok {
		for _, k := range []string{key, "data"} {
			if arr, ok := o.array(k); ok {
				return arr, nil
			}
		}
		return []interface{}{}, nil
	}
	return nil, fmt.Errorf("invalid %s JSON: expected an array, got %T", key, inst)
}
