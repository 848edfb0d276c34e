package app

import (
	"context"
	"fmt"

	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/model"
)

// ImportReport summarizes an ImportItems call.
type ImportReport struct {
	Imported int
	Errors   []string
	Warnings []string
}

// SaveContainer validates ct, posts it to the backend catalog and caches it.
func (c *Controller) SaveContainer(ctx context.Context, ct model.Container) error {
	return c.catalogAction(ActionSaveContainer, func() error {
		if err := ct.Validate(); err != nil {
			return err
		}
		if err := c.client("").SaveContainer(ctx, ct); err != nil {
			return err
		}
		c.cache(func(cat *model.Catalog) { cat.UpsertContainer(ct) })
		return nil
	})
}

// SaveItem validates it, posts it to the backend catalog and caches it.
func (c *Controller) SaveItem(ctx context.Context, it model.CargoItem) error {
	return c.catalogAction(ActionSaveItem, func() error {
		if err := it.Validate(); err != nil {
			return err
		}
		if err := c.client("").SaveItem(ctx, it); err != nil {
			return err
		}
		c.cache(func(cat *model.Catalog) { cat.UpsertItem(it) })
		return nil
	})
}

// RefreshCatalog lists the backend's containers and items and merges them
// into the cached catalog.
func (c *Controller) RefreshCatalog(ctx context.Context) error {
	return c.catalogAction(ActionCatalog, func() error {
		cl := c.client("")
		containers, err := cl.Containers(ctx)
		if err != nil {
			return err
		}
		items, err := cl.Items(ctx)
		if err != nil {
			return err
		}
		c.cache(func(cat *model.Catalog) {
			cat.Merge(model.Catalog{Containers: containers, Items: items})
		})
		c.log.Info("catalog refreshed", "containers", len(containers), "items", len(items))
		return nil
	})
}

// ImportItems reads a CSV or Excel cargo list and saves each item to the
// backend catalog. Rows that fail to parse or upload are reported, not fatal.
func (c *Controller) ImportItems(ctx context.Context, path string) (ImportReport, error) {
	var rep ImportReport
	err := c.catalogAction(ActionImport, func() error {
		res := importer.ImportFile(path)
		rep.Errors = append(rep.Errors, res.Errors...)
		rep.Warnings = append(rep.Warnings, res.Warnings...)
		if len(res.Items) == 0 {
			if len(res.Errors) > 0 {
				return fmt.Errorf("nothing imported from %s: %s", path, res.Errors[0])
			}
			return fmt.Errorf("nothing imported from %s", path)
		}

		cl := c.client("")
		for _, it := range res.Items {
			if err := cl.SaveItem(ctx, it); err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", it.ID, err))
				continue
			}
			c.cache(func(cat *model.Catalog) { cat.UpsertItem(it) })
			rep.Imported++
		}
		if rep.Imported == 0 {
			return fmt.Errorf("no items could be saved")
		}
		return nil
	})
	return rep, err
}

// ReplaceCatalog swaps the cached catalog for cat, as when restoring a
// backup or importing a catalog file, and persists it.
func (c *Controller) ReplaceCatalog(cat model.Catalog) {
	c.cache(func(cur *model.Catalog) {
		*cur = model.Catalog{
			Containers: append([]model.Container(nil), cat.Containers...),
			Items:      append([]model.CargoItem(nil), cat.Items...),
		}
	})
	c.apply(func() {})
}

// catalogAction runs fn as action a, marking it pending first and recording
// the outcome.
func (c *Controller) catalogAction(a Action, fn func() error) error {
	c.apply(func() { c.state.setAction(a, StatePending) })
	err := fn()
	c.apply(func() {
		if err != nil {
			c.log.WithError(err).Warn("catalog action failed", "action", a.String())
			c.state.setAction(a, StateFailed)
			return
		}
		c.state.setAction(a, StateSucceeded)
	})
	return err
}

// cache updates the cached catalog and persists it when a save hook is set.
func (c *Controller) cache(fn func(*model.Catalog)) {
	cat := c.state.updateCatalog(fn)
	if c.saveCat == nil {
		return
	}
	if err := c.saveCat(cat); err != nil {
		c.log.WithError(err).Error("failed to save catalog")
	}
}
