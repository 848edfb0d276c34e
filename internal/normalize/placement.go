package normalize

import "github.com/piwi3910/LoadPlan/internal/model"

// Schema identifies which adapter decoded a placement record.
type Schema int

const (
	// SchemaCanonical records carry numeric lowercase x, y, z, l, w, h keys and no pos array.
	SchemaCanonical Schema = iota
	// SchemaLegacy records use upper-case or spelled-out keys, a pos array, or miss fields.
	SchemaLegacy
)

func (s Schema) String() string {
	if s == SchemaCanonical {
		return "canonical"
	}
	return "legacy"
}

var canonicalKeys = []string{"x", "y", "z", "l", "w", "h"}

// Classify reports the schema a raw placement record belongs to.
func Classify(o Object) Schema {
	if _, hasPos := o["pos"]; hasPos {
		return SchemaLegacy
	}
	for _, k := range canonicalKeys {
		if _, ok := o.firstNumber(k); !ok {
			return SchemaLegacy
		}
	}
	return SchemaCanonical
}

// Result is one normalized placement plus what the adapter had to guess.
type Result struct {
	Placement model.Placement
	Schema    Schema
	Defaulted int // Number of position/size fields that fell back to 0
}

// Placement normalizes any decoded JSON value into a placement. It never
// fails: values that are not objects produce a zero-size box at the origin.
func Placement(v interface{}) Result {
	o, ok := asObject(v)
	if !ok {
		return Result{Schema: SchemaLegacy, Defaulted: len(canonicalKeys)}
	}
	if Classify(o) == SchemaCanonical {
		return Result{Placement: canonicalPlacement(o), Schema: SchemaCanonical}
	}
	p, defaulted := legacyPlacement(o)
	return Result{Placement: p, Schema: SchemaLegacy, Defaulted: defaulted}
}

func canonicalPlacement(o Object) model.Placement {
	p := model.Placement{
		Family: o.firstText("family"),
		ID:     o.firstText("id", "sku", "code"),
	}
	p.X, _ = o.firstNumber("x")
	p.Y, _ = o.firstNumber("y")
	p.Z, _ = o.firstNumber("z")
	p.Length, _ = o.firstNumber("l")
	p.Width, _ = o.firstNumber("w")
	p.Height, _ = o.firstNumber("h")
	return p
}

// posTriple reads a pos array of exactly three numbers.
func posTriple(o Object) (x, y, z float64, ok bool) {
	pos, isArr := o.array("pos")
	if !isArr || len(pos) != 3 {
		return 0, 0, 0, false
	}
	var c [3]float64
	for i, v := range pos {
		f, isNum := number(v)
		if !isNum {
			return 0, 0, 0, false
		}
		c[i] = f
	}
	return c[0], c[1], c[2], true
}

// legacyPlacement walks the alias chain of every field and lets a
// three-number pos array override the discrete coordinates.
func legacyPlacement(o Object) (model.Placement, int) {
	defaulted := 0
	field := func(keys ...string) float64 {
		v, ok := o.firstNumber(keys...)
		if !ok {
			defaulted++
		}
		return v
	}

	p := model.Placement{
		Length: field("l", "L", "length"),
		Width:  field("w", "W", "width"),
		Height: field("h", "H", "height"),
		Family: o.firstText("family"),
		ID:     o.firstText("id", "sku", "code"),
	}

	if x, y, z, ok := posTriple(o); ok {
		p.X, p.Y, p.Z = x, y, z
		return p, defaulted
	}

	p.X = field("x", "X")
	p.Y = field("y", "Y")
	p.Z = field("z", "Z")
	return p, defaulted
}
