package app

import (
	"sync"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// Action identifies one user-triggered operation.
type Action int

const (
	ActionHealth Action = iota
	ActionRun
	ActionOptimize
	ActionReport
	ActionSaveContainer
	ActionSaveItem
	ActionCatalog
	ActionImport
)

var actionNames = [...]string{"health", "run", "optimize", "report", "save-container", "save-item", "catalog", "import"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ActionState is the lifecycle of the latest invocation of an action.
// Succeeded and Failed both leave the action ready to be triggered again.
type ActionState int

const (
	StateIdle ActionState = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s ActionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Indicator is the two-state backend status pill, plus an unknown state
// before the first check.
type Indicator int

const (
	IndicatorUnknown Indicator = iota
	IndicatorOK
	IndicatorErr
)

// Label is the text shown in the status pill.
func (i Indicator) Label() string {
	switch i {
	case IndicatorOK:
		return "OK"
	case IndicatorErr:
		return "ERR"
	default:
		return "…"
	}
}

// Status is the backend indicator with its human-readable note.
type Status struct {
	Indicator Indicator
	Note      string
}

// Store persists the backend connection settings.
// *project.ConfigStore satisfies it.
type Store interface {
	BackendURL() string
	SetBackendURL(url string) error
	Token() string
}

// State is the application state owned by the Controller. Mutations happen
// on the UI goroutine; reads may come from any goroutine.
type State struct {
	mu       sync.RWMutex
	store    Store
	status   Status
	summary  string
	lastPlan *model.LastPlan
	actions  map[Action]ActionState
	catalog  model.Catalog
	history  *RunHistory
}

// NewState creates a State backed by store with the given starting catalog.
func NewState(store Store, cat model.Catalog) *State {
	return &State{
		store:   store,
		actions: map[Action]ActionState{},
		catalog: cat,
		history: NewRunHistory(),
	}
}

// BackendURL returns the persisted backend URL, or the default when unset.
func (s *State) BackendURL() string {
	if u := s.store.BackendURL(); u != "" {
		return u
	}
	return model.DefaultBackendURL
}

// Token returns the persisted bearer token.
func (s *State) Token() string {
	return s.store.Token()
}

func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *State) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// LastPlan returns the most recently applied plan, or nil before any run.
func (s *State) LastPlan() *model.LastPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPlan
}

// Action returns the state of action a.
func (s *State) Action(a Action) ActionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actions[a]
}

// Busy reports whether action a is pending.
func (s *State) Busy(a Action) bool {
	return s.Action(a) == StatePending
}

// Catalog returns a copy of the cached catalog.
func (s *State) Catalog() model.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Catalog{
		Containers: append([]model.Container(nil), s.catalog.Containers...),
		Items:      append([]model.CargoItem(nil), s.catalog.Items...),
	}
}

// Runs returns the applied plans, oldest first.
func (s *State) Runs() []model.LastPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Runs()
}

// CanPreviousRun reports whether an earlier run can be restored.
func (s *State) CanPreviousRun() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanPrevious()
}

// CanNextRun reports whether a later run can be restored.
func (s *State) CanNextRun() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanNext()
}

func (s *State) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *State) setSummary(text string) {
	s.mu.Lock()
	s.summary = text
	s.mu.Unlock()
}

func (s *State) setAction(a Action, st ActionState) {
	s.mu.Lock()
	s.actions[a] = st
	s.mu.Unlock()
}

func (s *State) setLastPlan(p *model.LastPlan) {
	s.mu.Lock()
	s.lastPlan = p
	s.mu.Unlock()
}

func (s *State) updateCatalog(fn func(*model.Catalog)) model.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.catalog)
	return s.catalog
}

func (s *State) withHistory(fn func(*RunHistory)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.history)
}
