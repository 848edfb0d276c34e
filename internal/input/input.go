// Package input turns raw form fields into the typed records sent to the
// optimizer, substituting defaults for missing values and clamping ranges.
package input

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Gap bounds in mm.
const (
	MinGap = 0
	MaxGap = 200
)

// Form is the raw text of every input field the UI exposes.
type Form struct {
	ContainerID      string
	ContainerLength  string
	ContainerWidth   string
	ContainerHeight  string
	ContainerPayload string

	ItemID       string
	ItemLength   string
	ItemWidth    string
	ItemHeight   string
	ItemWeight   string
	ItemQuantity string
	ItemRotation string
	ItemFamily   string

	Gap string
}

// Collect reads a form into typed inputs. Empty, unparsable or zero values
// fall back to the defaults; dimensions must also be positive.
func Collect(f Form) model.Inputs {
	dc := model.DefaultContainer()
	di := model.DefaultCargoItem()
	dr := model.DefaultRules()

	container := model.Container{
		ID:         orDefault(f.ContainerID, dc.ID),
		Length:     positive(num(f.ContainerLength), dc.Length),
		Width:      positive(num(f.ContainerWidth), dc.Width),
		Height:     positive(num(f.ContainerHeight), dc.Height),
		MaxPayload: positive(num(f.ContainerPayload), dc.MaxPayload),
	}

	item := model.CargoItem{
		ID:        orDefault(f.ItemID, di.ID),
		Length:    positive(num(f.ItemLength), di.Length),
		Width:     positive(num(f.ItemWidth), di.Width),
		Height:    positive(num(f.ItemHeight), di.Height),
		Weight:    positive(num(f.ItemWeight), di.Weight),
		Quantity:  ClampQuantity(nonZero(num(f.ItemQuantity), float64(di.Quantity))),
		Rotation:  model.Rotation(orDefault(f.ItemRotation, string(di.Rotation))),
		Family:    orDefault(f.ItemFamily, di.Family),
		Stackable: di.Stackable,
	}

	rules := model.Rules{
		Gap: clamp(nonZero(num(f.Gap), dr.Gap), MinGap, MaxGap),
	}

	return model.Inputs{Container: container, Item: item, Rules: rules}
}

// FormFromInputs renders typed inputs back into form text.
func FormFromInputs(in model.Inputs) Form {
	return Form{
		ContainerID:      in.Container.ID,
		ContainerLength:  format(in.Container.Length),
		ContainerWidth:   format(in.Container.Width),
		ContainerHeight:  format(in.Container.Height),
		ContainerPayload: format(in.Container.MaxPayload),
		ItemID:           in.Item.ID,
		ItemLength:       format(in.Item.Length),
		ItemWidth:        format(in.Item.Width),
		ItemHeight:       format(in.Item.Height),
		ItemWeight:       format(in.Item.Weight),
		ItemQuantity:     strconv.Itoa(in.Item.Quantity),
		ItemRotation:     in.Item.Rotation.String(),
		ItemFamily:       in.Item.Family,
		Gap:              format(in.Rules.Gap),
	}
}

// ClampQuantity truncates q to an integer in [0, model.MaxQuantity].
func ClampQuantity(q float64) int {
	return int(clamp(math.Trunc(q), 0, model.MaxQuantity))
}

// num parses a trimmed field; anything that is not a finite number reads as 0.
func num(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func nonZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func positive(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Validate checks collected inputs against the model's field rules. The
// output of Collect always passes.
func Validate(in model.Inputs) error {
	return in.Validate()
}
