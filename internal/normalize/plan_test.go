package normalize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func tenPlacements() string {
	parts := make([]string, 10)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"x":%d,"y":0,"z":0,"l":485,"w":385,"h":200,"id":"A1"}`, i*485)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestNewCompilesEmbeddedSchema(t *testing.T) {
	n, err := New()
	require.NoError(t, err)
	assert.NotNil(t, n.schema)
}

func TestDecodePlanCanonical(t *testing.T) {
	body := `{"containerID":"20 HC","utilizationPercent":{"volume":72,"weight":55},"totalWeight":14000,"placements":` + tenPlacements() + `}`

	env, err := MustNew().DecodePlan([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, PlanCanonical, env.Shape)
	assert.Equal(t, "20 HC", env.Plan.ContainerID)
	assert.Equal(t, model.Utilization{Volume: 72, Weight: 55}, env.Plan.Utilization)
	assert.Equal(t, 14000.0, env.Plan.TotalWeight)
	assert.Len(t, env.Plan.Placements, 10)
	assert.Equal(t, 10, env.Plan.LoadedCount())
	assert.Equal(t, 485.0, env.Plan.Placements[1].X)
	assert.Zero(t, env.Defaulted)
}

func TestDecodePlanOptimizeShape(t *testing.T) {
	body := `{
		"container":{"id":"C1","l":12000,"w":2350,"h":2690,"payload":26000},
		"utilizationPercent":{"volume":81.5,"weight":40},
		"loadedWeight":9800,
		"placements":[{"x":0,"y":0,"z":0,"l":1,"w":1,"h":1}],
		"notPlaced":[{"id":"A1","qty":12}]
	}`

	env, err := MustNew().DecodePlan([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, PlanCanonical, env.Shape)
	require.NotNil(t, env.Plan.Container)
	assert.Equal(t, model.Container{ID: "C1", Length: 12000, Width: 2350, Height: 2690, MaxPayload: 26000}, *env.Plan.Container)
	assert.Equal(t, 9800.0, env.Plan.LoadedWeight)
	assert.Equal(t, 12, env.Plan.NotPlacedCount())
}

func TestDecodePlanLegacy(t *testing.T) {
	body := `{
		"containerId":"40 HC",
		"volUtil":64.2,
		"wtUtil":31,
		"totalWeight":"7000",
		"placements":[
			{"X":10,"Y":20,"Z":30,"L":1,"W":2,"H":3,"family":"B"},
			{"pos":[1,2,3],"length":4,"width":5,"height":6},
			{"x":0,"y":0,"z":0,"l":7,"w":8,"h":9}
		],
		"cargoSummary":[{"id":"A1","loaded":2},{"itemId":"B1","loadedQty":5}],
		"notPlaced":[{"itemId":"B1","quantity":3}],
		"exceptions":["overweight", {"code":7}]
	}`

	env, err := MustNew().DecodePlan([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, PlanLegacy, env.Shape)
	assert.Equal(t, "40 HC", env.Plan.ContainerID)
	assert.Equal(t, 64.2, env.Plan.Utilization.Volume)
	assert.Equal(t, 31.0, env.Plan.Utilization.Weight)
	assert.Equal(t, 7000.0, env.Plan.TotalWeight)
	require.Len(t, env.Plan.Placements, 3)
	assert.Equal(t, model.Placement{X: 10, Y: 20, Z: 30, Length: 1, Width: 2, Height: 3, Family: "B"}, env.Plan.Placements[0])
	assert.Equal(t, model.Placement{X: 1, Y: 2, Z: 3, Length: 4, Width: 5, Height: 6}, env.Plan.Placements[1])
	assert.Equal(t, 2, env.Legacy)
	assert.Equal(t, 7, env.Plan.LoadedCount())
	assert.Equal(t, []model.NotPlaced{{ItemID: "B1", Quantity: 3}}, env.Plan.NotPlaced)
	assert.Equal(t, []string{"overweight", `{"code":7}`}, env.Plan.Exceptions)
}

func TestDecodePlanUtilizationObjectBeatsLegacyKeys(t *testing.T) {
	env, err := MustNew().DecodePlan([]byte(`{"utilizationPercent":{"volume":10},"volUtil":99,"wtUtil":5}`))
	require.NoError(t, err)

	assert.Equal(t, PlanLegacy, env.Shape)
	assert.Equal(t, 10.0, env.Plan.Utilization.Volume)
	assert.Equal(t, 5.0, env.Plan.Utilization.Weight)
	assert.NotNil(t, env.Plan.Placements)
	assert.Empty(t, env.Plan.Placements)
}

func TestDecodePlanMalformedPlacementIsDefaulted(t *testing.T) {
	env, err := MustNew().DecodePlan([]byte(`{"utilizationPercent":{"volume":1,"weight":1},"placements":[{"foo":"bar"}]}`))
	require.NoError(t, err)

	assert.Equal(t, PlanLegacy, env.Shape)
	require.Len(t, env.Plan.Placements, 1)
	assert.Equal(t, model.Placement{}, env.Plan.Placements[0])
	assert.Equal(t, 6, env.Defaulted)
}

func TestDecodePlanCargoSummaryZeroLoadedFallsThrough(t *testing.T) {
	body := `{"placements":[],"cargoSummary":[{"id":"A1","loaded":0,"loadedQty":4},{"id":"B1","loaded":0}]}`

	env, err := MustNew().DecodePlan([]byte(body))
	require.NoError(t, err)

	require.Len(t, env.Plan.CargoSummary, 2)
	assert.Equal(t, model.CargoSummary{ItemID: "A1", Loaded: 4}, env.Plan.CargoSummary[0])
	assert.Equal(t, model.CargoSummary{ItemID: "B1", Loaded: 0}, env.Plan.CargoSummary[1])
}

func TestDecodePlanRejectsNonObjects(t *testing.T) {
	n := MustNew()
	for _, body := range []string{``, `not json`, `[1,2]`, `"ok"`} {
		_, err := n.DecodePlan([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestDecodeContainers(t *testing.T) {
	list, err := DecodeContainers([]byte(`[{"id":"C1","l":5900,"w":2350,"h":2390,"payload":20000},{"id":"C2","length":12000,"width":2350,"height":2690,"maxPayload":26000}]`))
	require.NoError(t, err)
	assert.Equal(t, []model.Container{
		{ID: "C1", Length: 5900, Width: 2350, Height: 2390, MaxPayload: 20000},
		{ID: "C2", Length: 12000, Width: 2350, Height: 2690, MaxPayload: 26000},
	}, list)

	wrapped, err := DecodeContainers([]byte(`{"containers":[{"id":"C3","l":1,"w":1,"h":1}]}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.Equal(t, "C3", wrapped[0].ID)
}

func TestDecodeItems(t *testing.T) {
	list, err := DecodeItems([]byte(`{"data":[{"id":"A1","l":485,"w":385,"h":200,"wt":17.4,"qty":800,"rotation":"all","family":"A","stack":false}]}`))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.CargoItem{
		ID: "A1", Length: 485, Width: 385, Height: 200, Weight: 17.4,
		Quantity: 800, Rotation: model.RotationAll, Family: "A", Stackable: false,
	}, list[0])

	_, err = DecodeItems([]byte(`"nope"`))
	assert.Error(t, err)
}
