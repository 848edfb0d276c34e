// Package app is the headless UI controller: it collects form inputs, calls
// the optimizer backend, applies results to the scene and keeps the
// application state the widgets render.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/LoadPlan/internal/client"
	"github.com/piwi3910/LoadPlan/internal/input"
	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/normalize"
	"github.com/piwi3910/LoadPlan/internal/scene"
)

// User-visible texts.
const (
	RunningText      = "Running…"
	OptimizingText   = "Optimizing…"
	NoPlanWarning    = "Run an optimization before generating a report."
	ReportFailedText = "Report generation failed: "
)

// ReportReleaseDelay is how long a downloaded report stays held in memory.
const ReportReleaseDelay = 2 * time.Second

var (
	// ErrSuperseded is returned when a newer request of the same family was
	// issued before the response arrived; the response is discarded.
	ErrSuperseded = errors.New("response superseded by a newer request")

	// ErrNoPlan is returned by Report before any plan has been applied.
	ErrNoPlan = errors.New("no plan available")

	// ErrUnhealthy is returned when the backend answers but reports ok: false.
	ErrUnhealthy = errors.New("backend reported not ok")
)

// Snapshotter provides the current frame of the 3D view.
type Snapshotter interface {
	DataURL() string
}

// Notifier shows messages that need the user's attention.
type Notifier interface {
	Warn(message string)
	Alert(title, message string)
}

// Config wires a Controller to its collaborators. Scene and Store are
// required; the rest have working defaults. Dispatch must run fn on the UI
// goroutine and return once it has run; it defaults to calling fn inline.
type Config struct {
	Store        Store
	Scene        *scene.Scene
	Snapshots    Snapshotter
	Downloader   Downloader
	Notifier     Notifier
	Dispatch     func(fn func())
	HTTPClient   *http.Client
	Normalizer   *normalize.Normalizer
	Logger       *logging.Logger
	Catalog      model.Catalog
	SaveCatalog  func(model.Catalog) error
	ReleaseDelay time.Duration
	Now          func() time.Time
}

// Controller runs the user actions. Action methods block until the action
// completes and are meant to be called from a goroutine; every change to
// the scene or state goes through Dispatch.
type Controller struct {
	state      *State
	scene      *scene.Scene
	snapshots  Snapshotter
	downloader Downloader
	notifier   Notifier
	dispatch   func(func())
	httpClient *http.Client
	normalizer *normalize.Normalizer
	log        *logging.Logger
	saveCat    func(model.Catalog) error
	release    time.Duration
	now        func() time.Time

	planGen   atomic.Uint64
	healthGen atomic.Uint64
	// latest plan generation issued per action
	genMu     sync.Mutex
	actionGen [len(actionNames)]atomic.Uint64

	heldMu sync.Mutex
	held   map[string][]byte

	listenMu  sync.Mutex
	listeners []func()
}

// NewController creates a Controller from cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{
		state:      NewState(cfg.Store, cfg.Catalog),
		scene:      cfg.Scene,
		snapshots:  cfg.Snapshots,
		downloader: cfg.Downloader,
		notifier:   cfg.Notifier,
		dispatch:   cfg.Dispatch,
		httpClient: cfg.HTTPClient,
		normalizer: cfg.Normalizer,
		log:        cfg.Logger,
		saveCat:    cfg.SaveCatalog,
		release:    cfg.ReleaseDelay,
		now:        cfg.Now,
		held:       map[string][]byte{},
	}
	if c.dispatch == nil {
		c.dispatch = func(fn func()) { fn() }
	}
	if c.normalizer == nil {
		c.normalizer = normalize.MustNew()
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.WithComponent("controller")
	if c.release <= 0 {
		c.release = ReportReleaseDelay
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.snapshots == nil {
		c.snapshots = noSnapshots{}
	}
	if c.notifier == nil {
		c.notifier = logNotifier{c.log}
	}
	return c
}

// State returns the controller's application state.
func (c *Controller) State() *State { return c.state }

// OnChange registers fn to run on the UI goroutine after every state change.
func (c *Controller) OnChange(fn func()) {
	c.listenMu.Lock()
	c.listeners = append(c.listeners, fn)
	c.listenMu.Unlock()
}

// apply runs fn on the UI goroutine and then notifies listeners there.
func (c *Controller) apply(fn func()) {
	c.dispatch(func() {
		fn()
		c.listenMu.Lock()
		ls := append([]func(){}, c.listeners...)
		c.listenMu.Unlock()
		for _, l := range ls {
			l()
		}
	})
}

// client returns a backend client for baseURL, or for the persisted URL
// when baseURL is empty.
func (c *Controller) client(baseURL string) *client.Client {
	if baseURL == "" {
		baseURL = c.state.BackendURL()
	}
	opts := []client.Option{
		client.WithTokenSource(client.TokenFunc(c.state.Token)),
		client.WithLogger(c.log),
		client.WithNormalizer(c.normalizer),
	}
	if c.httpClient != nil {
		opts = append(opts, client.WithHTTPClient(c.httpClient))
	}
	return client.New(baseURL, opts...)
}

// ─── Health ────────────────────────────────────────────────

// CheckHealth probes candidateURL, or the persisted URL when empty. The
// indicator turns OK or ERR; only a healthy candidate is persisted.
func (c *Controller) CheckHealth(ctx context.Context, candidateURL string) error {
	candidate := strings.TrimRight(strings.TrimSpace(candidateURL), "/")
	gen := c.healthGen.Add(1)
	c.apply(func() {
		c.state.setAction(ActionHealth, StatePending)
	})

	h, err := c.client(candidate).Health(ctx)
	if err == nil && !h.OK {
		err = ErrUnhealthy
	}

	var result error
	c.apply(func() {
		if gen != c.healthGen.Load() {
			result = ErrSuperseded
			return
		}
		if err != nil {
			c.log.WithError(err).Warn("backend health failed")
			c.state.setStatus(Status{Indicator: IndicatorErr, Note: err.Error()})
			c.state.setAction(ActionHealth, StateFailed)
			result = err
			return
		}
		note := "Backend reachable"
		if h.Timestamp != "" {
			note += " at " + h.Timestamp
		}
		if candidate != "" && candidate != c.state.BackendURL() {
			if perr := c.state.store.SetBackendURL(candidate); perr != nil {
				c.log.WithError(perr).Error("failed to persist backend URL")
				note += " (URL not saved: " + perr.Error() + ")"
			}
		}
		c.state.setStatus(Status{Indicator: IndicatorOK, Note: note})
		c.state.setAction(ActionHealth, StateSucceeded)
	})
	return result
}

// ─── Plans ─────────────────────────────────────────────────

// Run simulates the form's container and item and renders the plan.
func (c *Controller) Run(ctx context.Context, f input.Form) error {
	in := input.Collect(f)
	gen := c.nextPlanGen(ActionRun)
	runID := uuid.NewString()

	c.apply(func() {
		c.scene.SetContainer(in.Container.Length, in.Container.Width, in.Container.Height)
		c.scene.ClearPlacements()
		c.state.setSummary(RunningText)
		c.state.setAction(ActionRun, StatePending)
	})

	env, err := c.client("").Simulate(ctx, client.NewSimulateRequest(in))
	return c.applyPlan(ActionRun, gen, runID, in, env, err, false)
}

// Optimize runs the backend optimizer against the catalog container named
// in the form and renders the returned plan, including what was left out.
func (c *Controller) Optimize(ctx context.Context, f input.Form) error {
	in := input.Collect(f)
	cat := c.state.Catalog()
	if ct, ok := cat.FindContainer(in.Container.ID); ok {
		in.Container = ct
	}
	gen := c.nextPlanGen(ActionOptimize)
	runID := uuid.NewString()

	c.apply(func() {
		c.scene.SetContainer(in.Container.Length, in.Container.Width, in.Container.Height)
		c.scene.ClearPlacements()
		c.state.setSummary(OptimizingText)
		c.state.setAction(ActionOptimize, StatePending)
	})

	req := client.OptimizeRequest{ContainerID: in.Container.ID, Gap: in.Rules.Gap}
	env, err := c.client("").Optimize(ctx, req)
	return c.applyPlan(ActionOptimize, gen, runID, in, env, err, true)
}

// nextPlanGen issues a plan generation and records it as the latest for a.
func (c *Controller) nextPlanGen(a Action) uint64 {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	gen := c.planGen.Add(1)
	c.actionGen[a].Store(gen)
	return gen
}

// applyPlan applies a plan response on the UI goroutine unless a newer
// plan request has been issued since gen.
func (c *Controller) applyPlan(a Action, gen uint64, runID string, in model.Inputs, env normalize.Envelope, err error, withNotPlaced bool) error {
	log := c.log.WithRunID(runID)
	var result error
	c.apply(func() {
		if gen != c.planGen.Load() {
			log.Debug("discarding superseded plan response", "action", a.String())
			if c.actionGen[a].Load() == gen {
				c.state.setAction(a, StateIdle)
			}
			result = ErrSuperseded
			return
		}
		if err != nil {
			log.WithError(err).Warn("plan request failed", "action", a.String())
			c.state.setSummary("Error: " + err.Error())
			c.state.setAction(a, StateFailed)
			result = err
			return
		}
		if env.Defaulted > 0 {
			log.Debug("placements had missing fields", "defaulted", env.Defaulted, "legacy", env.Legacy)
		}

		plan := &model.LastPlan{
			RunID:       runID,
			Inputs:      in,
			Result:      env.Plan,
			CompletedAt: c.now(),
		}
		c.renderPlan(plan)
		c.state.setSummary(FormatSummary(plan, withNotPlaced))
		c.state.setLastPlan(plan)
		c.state.withHistory(func(h *RunHistory) { h.Push(*plan) })
		c.state.setAction(a, StateSucceeded)
		log.Info("plan applied", "action", a.String(), "placements", len(plan.Result.Placements))
	})
	return result
}

// renderPlan draws plan's container and placements. A container echoed by
// the backend replaces the submitted one.
func (c *Controller) renderPlan(plan *model.LastPlan) {
	ct := plan.Inputs.Container
	if echo := plan.Result.Container; echo != nil && echo.Length > 0 && echo.Width > 0 && echo.Height > 0 {
		ct = *echo
	}
	c.scene.SetContainer(ct.Length, ct.Width, ct.Height)
	c.scene.ClearPlacements()
	for _, p := range plan.Result.Placements {
		fam := p.Family
		if fam == "" {
			fam = plan.Inputs.Item.Family
		}
		c.scene.AddPlacement(p.X, p.Y, p.Z, p.Length, p.Width, p.Height, scene.ColorForFamily(fam))
	}
}

// FormatSummary renders the one-line result summary of plan.
func FormatSummary(plan *model.LastPlan, withNotPlaced bool) string {
	r := plan.Result
	parts := []string{
		"Container " + plan.ContainerID(),
		"Vol " + formatNumber(r.Utilization.Volume) + "%",
		"Wt " + formatNumber(r.Utilization.Weight) + "%",
		"TotalWt " + formatNumber(r.TotalWeight) + " kg",
		"Loaded " + strconv.Itoa(r.LoadedCount()),
	}
	if withNotPlaced {
		parts = append(parts, "NotPlaced "+strconv.Itoa(r.NotPlacedCount()))
	}
	return strings.Join(parts, "  •  ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ─── Run history ───────────────────────────────────────────

// PreviousRun restores the run before the one on screen. It returns false
// when there is none.
func (c *Controller) PreviousRun() bool {
	return c.restoreRun((*RunHistory).Previous)
}

// NextRun restores the run after the one on screen.
func (c *Controller) NextRun() bool {
	return c.restoreRun((*RunHistory).Next)
}

func (c *Controller) restoreRun(step func(*RunHistory) (model.LastPlan, bool)) bool {
	var ok bool
	c.apply(func() {
		var plan model.LastPlan
		c.state.withHistory(func(h *RunHistory) { plan, ok = step(h) })
		if !ok {
			return
		}
		// A restored run supersedes anything still in flight.
		c.planGen.Add(1)
		c.renderPlan(&plan)
		c.state.setSummary(FormatSummary(&plan, plan.Result.NotPlaced != nil))
		c.state.setLastPlan(&plan)
	})
	return ok
}

// RestorePlan renders a plan loaded from a project file and makes it the
// last plan. A nil plan clears the placements.
func (c *Controller) RestorePlan(plan *model.LastPlan) {
	c.apply(func() {
		c.planGen.Add(1)
		if plan == nil {
			c.scene.ClearPlacements()
			c.state.setSummary("")
			c.state.setLastPlan(nil)
			return
		}
		p := copyPlan(*plan)
		c.renderPlan(&p)
		c.state.setSummary(FormatSummary(&p, p.Result.NotPlaced != nil))
		c.state.setLastPlan(&p)
		c.state.withHistory(func(h *RunHistory) { h.Push(p) })
	})
}

// ReplaceHistory swaps in runs restored from a backup.
func (c *Controller) ReplaceHistory(runs []model.LastPlan) {
	c.apply(func() {
		c.state.withHistory(func(h *RunHistory) { h.Replace(runs) })
	})
}

// ─── Report ────────────────────────────────────────────────

// Report asks the backend for a PDF of the last plan and hands it to the
// Downloader. Without a plan it warns and sends nothing.
func (c *Controller) Report(ctx context.Context) error {
	plan := c.state.LastPlan()
	if plan == nil {
		c.apply(func() { c.notifier.Warn(NoPlanWarning) })
		return ErrNoPlan
	}

	c.apply(func() { c.state.setAction(ActionReport, StatePending) })

	now := c.now()
	req := client.NewReportRequest(plan.Inputs, plan, c.snapshots.DataURL(), now)
	pdf, err := c.client("").Report(ctx, req)
	if err == nil {
		err = c.download(ReportFileName(now), pdf)
	}

	c.apply(func() {
		if err != nil {
			c.log.WithError(err).Warn("report failed")
			c.state.setAction(ActionReport, StateFailed)
			c.notifier.Alert("Report", ReportFailedText+err.Error())
			return
		}
		c.state.setAction(ActionReport, StateSucceeded)
	})
	return err
}

// ReportFileName is the download name of a report generated at t.
func ReportFileName(t time.Time) string {
	return fmt.Sprintf("loadplan_report_%d.pdf", t.UnixMilli())
}

// download passes data to the Downloader and holds it until the release
// delay has passed.
func (c *Controller) download(name string, data []byte) error {
	if c.downloader == nil {
		return errors.New("no download target configured")
	}
	c.heldMu.Lock()
	c.held[name] = data
	c.heldMu.Unlock()

	time.AfterFunc(c.release, func() {
		c.heldMu.Lock()
		delete(c.held, name)
		c.heldMu.Unlock()
	})

	if _, err := c.downloader.Download(name, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// HeldReports returns the names of reports not yet released.
func (c *Controller) HeldReports() []string {
	c.heldMu.Lock()
	defer c.heldMu.Unlock()
	names := make([]string, 0, len(c.held))
	for n := range c.held {
		names = append(names, n)
	}
	return names
}

type noSnapshots struct{}

func (noSnapshots) DataURL() string { return "" }

// logNotifier is used when no UI is attached.
type logNotifier struct{ log *logging.Logger }

func (n logNotifier) Warn(message string)         { n.log.Warn(message) }
func (n logNotifier) Alert(title, message string) { n.log.Error(message, "title", title) }
