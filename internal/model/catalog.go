package model

// Catalog is the locally cached copy of the backend's container and item
// catalogs, seeded with common ISO containers.
type Catalog struct {
	Containers []Container `json:"containers"`
	Items      []CargoItem `json:"items"`
}

// DefaultCatalog returns the seed catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Containers: []Container{
			{ID: "20 GP", Length: 5898, Width: 2352, Height: 2393, MaxPayload: 28200},
			DefaultContainer(),
			{ID: "40 GP", Length: 12032, Width: 2352, Height: 2393, MaxPayload: 26700},
			{ID: "40 HC", Length: 12032, Width: 2352, Height: 2698, MaxPayload: 26500},
		},
		Items: []CargoItem{DefaultCargoItem()},
	}
}

// FindContainer returns the container with the given ID.
func (c Catalog) FindContainer(id string) (Container, bool) {
	for _, ct := range c.Containers {
		if ct.ID == id {
			return ct, true
		}
	}
	return Container{}, false
}

// FindItem returns the item with the given ID.
func (c Catalog) FindItem(id string) (CargoItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CargoItem{}, false
}

// UpsertContainer replaces the container with the same ID or appends it.
func (c *Catalog) UpsertContainer(ct Container) {
	for i := range c.Containers {
		if c.Containers[i].ID == ct.ID {
			c.Containers[i] = ct
			return
		}
	}
	c.Containers = append(c.Containers, ct)
}

// UpsertItem replaces the item with the same ID or appends it.
func (c *Catalog) UpsertItem(it CargoItem) {
	for i := range c.Items {
		if c.Items[i].ID == it.ID {
			c.Items[i] = it
			return
		}
	}
	c.Items = append(c.Items, it)
}

// Merge upserts every entry of other. Entries without an ID are skipped.
func (c *Catalog) Merge(other Catalog) {
	for _, ct := range other.Containers {
		if ct.ID != "" {
			c.UpsertContainer(ct)
		}
	}
	for _, it := range other.Items {
		if it.ID != "" {
			c.UpsertItem(it)
		}
	}
}

// ContainerIDs lists container IDs in catalog order.
func (c Catalog) ContainerIDs() []string {
	ids := make([]string, len(c.Containers))
	for i, ct := range c.Containers {
		ids[i] = ct.ID
	}
	return ids
}
