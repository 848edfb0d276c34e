package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestCollectEmptyFormUsesDefaults(t *testing.T) {
	in := Collect(Form{})
	assert.Equal(t, model.DefaultInputs(), in)
	require.NoError(t, in.Validate())
}

func TestCollectParsesFields(t *testing.T) {
	in := Collect(Form{
		ContainerID:      " 40 HC ",
		ContainerLength:  "12032",
		ContainerWidth:   "2352",
		ContainerHeight:  "2698",
		ContainerPayload: "26500",
		ItemID:           "SKU-9",
		ItemLength:       "600",
		ItemWidth:        "400",
		ItemHeight:       "300.5",
		ItemWeight:       "9.75",
		ItemQuantity:     "120",
		ItemRotation:     "none",
		ItemFamily:       "B",
		Gap:              "12",
	})

	assert.Equal(t, "40 HC", in.Container.ID)
	assert.Equal(t, 12032.0, in.Container.Length)
	assert.Equal(t, 26500.0, in.Container.MaxPayload)
	assert.Equal(t, "SKU-9", in.Item.ID)
	assert.Equal(t, 300.5, in.Item.Height)
	assert.Equal(t, 9.75, in.Item.Weight)
	assert.Equal(t, 120, in.Item.Quantity)
	assert.Equal(t, model.RotationNone, in.Item.Rotation)
	assert.Equal(t, "B", in.Item.Family)
	assert.Equal(t, 12.0, in.Rules.Gap)
}

func TestCollectQuantityClamp(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"-5", 0},
		{"999999", model.MaxQuantity},
		{"100000", 100000},
		{"17.9", 17},
		{"", 800},
		{"0", 800},
		{"abc", 800},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			in := Collect(Form{ItemQuantity: tt.raw})
			assert.Equal(t, tt.want, in.Item.Quantity)
		})
	}
}

func TestCollectNonPositiveDimensionsFallBack(t *testing.T) {
	in := Collect(Form{ContainerLength: "-3", ItemWidth: "0", ContainerHeight: "NaN", ItemLength: "Inf"})
	assert.Equal(t, 5900.0, in.Container.Length)
	assert.Equal(t, 2390.0, in.Container.Height)
	assert.Equal(t, 385.0, in.Item.Width)
	assert.Equal(t, 485.0, in.Item.Length)
}

func TestCollectGapClamp(t *testing.T) {
	assert.Equal(t, 200.0, Collect(Form{Gap: "500"}).Rules.Gap)
	assert.Equal(t, 0.0, Collect(Form{Gap: "-1"}).Rules.Gap)
	assert.Equal(t, 5.0, Collect(Form{Gap: "0"}).Rules.Gap)
}

func TestFormRoundTrip(t *testing.T) {
	in := model.DefaultInputs()
	in.Item.Quantity = 42
	in.Rules.Gap = 7.5

	assert.Equal(t, in, Collect(FormFromInputs(in)))
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(-5))
	assert.Equal(t, model.MaxQuantity, ClampQuantity(999999))
	assert.Equal(t, 3, ClampQuantity(3.99))
}

func TestValidateCollectedInputs(t *testing.T) {
	assert.NoError(t, Validate(Collect(Form{ItemQuantity: "-5", Gap: "999"})))

	in := Collect(Form{})
	in.Item.Length = 0
	assert.Error(t, Validate(in))
}
