package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestLoadCatalogCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCatalog(), cat)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default catalog is written on first load")
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	cat := model.Catalog{
		Containers: []model.Container{{ID: "C1", Length: 1, Width: 2, Height: 3, MaxPayload: 4}},
	}
	require.NoError(t, SaveCatalog(path, cat))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, cat.Containers, loaded.Containers)
	assert.NotNil(t, loaded.Items)
}

func TestImportCatalogMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"containers":[{"id":"20 HC","l":1,"w":1,"h":1,"maxPayload":1},{"id":"Flat","l":5600,"w":2200,"h":2000,"maxPayload":30000}],
		"items":[{"id":"B7","l":100,"w":100,"h":100,"weight":1,"quantity":3,"stack":true}]
	}`), 0644))

	merged, err := ImportCatalog(path, model.DefaultCatalog())
	require.NoError(t, err)
	assert.Len(t, merged.Containers, 5)
	hc, _ := merged.FindContainer("20 HC")
	assert.Equal(t, 1.0, hc.Length)
	_, ok := merged.FindItem("B7")
	assert.True(t, ok)
}

func TestImportCatalogInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	existing := model.DefaultCatalog()
	got, err := ImportCatalog(path, existing)
	assert.Error(t, err)
	assert.Equal(t, existing, got)
}
