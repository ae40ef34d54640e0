package contactform

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/samber/lo"
)

// DismissAfter is how long a success banner stays up
const DismissAfter = 3 * time.Second

var (
	ErrBusy         = errors.New("contactform: submission already in progress")
	ErrUnknownField = errors.New("contactform: unknown field")
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StatusKind classifies the banner shown after a round trip
type StatusKind string

const (
	StatusSuccess     StatusKind = "success"
	StatusRateLimited StatusKind = "rateLimited"
	StatusInvalid     StatusKind = "invalid"
	StatusFailed      StatusKind = "failed"
)

// Status is the banner shown after a submission
type Status struct {
	Kind       StatusKind
	Message    string
	RetryAfter int
}

// Snapshot is a copy of the form's observable state
type Snapshot struct {
	State          State
	Values         map[string]string
	Errors         map[string]string
	Status         *Status
	SubmitLabel    string
	SubmitDisabled bool
}

// Submitter performs the network round trip for a form
type Submitter interface {
	Send(ctx context.Context, in contact.Input, lang i18n.Language) (*Response, error)
}

type stopper interface {
	Stop() bool
}

// Form drives a contact form through Idle, Submitting, Success or Error,
// and back to Idle. Observers receive every state change synchronously.
type Form struct {
	mu        sync.Mutex
	submitter Submitter
	schema    *contact.Schema
	catalog   *i18n.Catalog
	lang      i18n.Language

	values    map[string]string
	errors    map[string]string
	state     State
	status    *Status
	observers []func(Snapshot)

	dismissAfter time.Duration
	afterFunc    func(time.Duration, func()) stopper
	timer        stopper
	generation   int
}

// FormOption customizes a Form
type FormOption func(*Form)

// WithDismissAfter overrides the success banner lifetime
func WithDismissAfter(d time.Duration) FormOption {
	return func(f *Form) {
		f.dismissAfter = d
	}
}

// WithObserver registers fn for every state change
func WithObserver(fn func(Snapshot)) FormOption {
	return func(f *Form) {
		f.observers = append(f.observers, fn)
	}
}

func withAfterFunc(fn func(time.Duration, func()) stopper) FormOption {
	return func(f *Form) {
		f.afterFunc = fn
	}
}

func NewForm(submitter Submitter, schema *contact.Schema, catalog *i18n.Catalog, lang i18n.Language, opts ...FormOption) *Form {
	if !lang.IsSupported() {
		lang = i18n.DefaultLanguage
	}
	f := &Form{
		submitter:    submitter,
		schema:       schema,
		catalog:      catalog,
		lang:         lang,
		values:       emptyValues(),
		errors:       make(map[string]string),
		dismissAfter: DismissAfter,
		afterFunc: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe registers fn for every later state change
func (f *Form) Subscribe(fn func(Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// Snapshot returns the current state
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// SetLanguage changes the language of later messages
func (f *Form) SetLanguage(lang i18n.Language) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lang.IsSupported() {
		f.lang = lang
	}
}

// SetField updates one field. Any visible banner is dismissed.
func (f *Form) SetField(field, value string) error {
	if !lo.Contains(contact.Fields, field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	f.values[field] = value
	f.dismissLocked()
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.publish(snap)
	return nil
}

// Blur validates a single field, as when the user leaves it
func (f *Form) Blur(field string) (*contact.FieldError, error) {
	if !lo.Contains(contact.Fields, field) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	fe := f.schema.ValidateField(field, f.values[field], f.lang)
	if fe != nil {
		f.errors[field] = fe.Message
	} else {
		delete(f.errors, field)
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.publish(snap)
	return fe, nil
}

// Submit validates every field and, when they pass, sends the form.
// Invalid fields are reported inline without a network call. Observers see
// StateSubmitting before the request leaves.
func (f *Form) Submit(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	f.dismissLocked()

	in := contact.NewInput(f.values[contact.FieldName], f.values[contact.FieldEmail], f.values[contact.FieldSubject], f.values[contact.FieldMessage])
	lang := f.lang
	if _, err := f.schema.Validate(in, lang); err != nil {
		var verr *contact.ValidationError
		if !errors.As(err, &verr) {
			f.mu.Unlock()
			return Snapshot{}, err
		}
		f.errors = make(map[string]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			f.errors[fe.Field] = fe.Message
		}
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.publish(snap)
		return snap, nil
	}

	f.errors = make(map[string]string)
	f.state = StateSubmitting
	sent := maps.Clone(f.values)
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.publish(snap)

	resp, err := f.submitter.Send(ctx, in, lang)

	f.mu.Lock()
	f.finishLocked(resp, err, sent)
	snap = f.snapshotLocked()
	f.mu.Unlock()
	f.publish(snap)
	return snap, nil
}

// Dismiss hides the banner and returns to Idle
func (f *Form) Dismiss() {
	f.mu.Lock()
	if f.state != StateSuccess && f.state != StateError {
		f.mu.Unlock()
		return
	}
	f.dismissLocked()
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.publish(snap)
}

// finishLocked applies the round trip outcome. On success only the values
// that were sent are cleared; edits made while submitting survive.
func (f *Form) finishLocked(resp *Response, err error, sent map[string]string) {
	switch {
	case err != nil:
		f.setStatusLocked(StateError, StatusFailed, 0)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		for field, v := range sent {
			if f.values[field] == v {
				f.values[field] = ""
			}
		}
		f.setStatusLocked(StateSuccess, StatusSuccess, 0)
		f.scheduleDismissLocked()
	case resp.StatusCode == http.StatusTooManyRequests:
		f.setStatusLocked(StateError, StatusRateLimited, resp.RetryAfterSeconds())
	case resp.StatusCode == http.StatusBadRequest:
		f.setStatusLocked(StateError, StatusInvalid, 0)
	default:
		f.setStatusLocked(StateError, StatusFailed, 0)
	}
}

func (f *Form) setStatusLocked(state State, kind StatusKind, retryAfter int) {
	f.state = state
	f.status = &Status{
		Kind:       kind,
		Message:    f.catalog.T(f.lang, "form.status."+string(kind), i18n.Args{"seconds": retryAfter}),
		RetryAfter: retryAfter,
	}
}

func (f *Form) scheduleDismissLocked() {
	f.generation++
	gen := f.generation
	f.timer = f.afterFunc(f.dismissAfter, func() {
		f.mu.Lock()
		if gen != f.generation || f.state != StateSuccess {
			f.mu.Unlock()
			return
		}
		f.dismissLocked()
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.publish(snap)
	})
}

// dismissLocked clears a visible banner. It leaves StateSubmitting alone.
func (f *Form) dismissLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.generation++
	if f.state == StateSuccess || f.state == StateError {
		f.state = StateIdle
		f.status = nil
	}
}

func (f *Form) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:          f.state,
		Values:         make(map[string]string, len(f.values)),
		Errors:         make(map[string]string, len(f.errors)),
		SubmitDisabled: f.state == StateSubmitting,
	}
	maps.Copy(snap.Values, f.values)
	maps.Copy(snap.Errors, f.errors)
	if f.status != nil {
		status := *f.status
		snap.Status = &status
	}
	if f.state == StateSubmitting {
		snap.SubmitLabel = f.catalog.T(f.lang, "form.submitting")
	} else {
		snap.SubmitLabel = f.catalog.T(f.lang, "form.submit")
	}
	return snap
}

func (f *Form) publish(snap Snapshot) {
	f.mu.Lock()
	observers := slices.Clone(f.observers)
	f.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

func emptyValues() map[string]string {
	values := make(map[string]string, len(contact.Fields))
	for _, field := range contact.Fields {
		values[field] = ""
	}
	return values
}
