// Package form runs the create/edit forms of every resource on the server
// side: schema validation, reactive rules, reference checks against catalogs,
// asynchronous gates and normalization before the single submit call.
package form

import (
	"context"
	"errors"
	"maps"
	"sync"

	"nutripae/internal/apierror"
)

var (
	// ErrSubmitting rejects a submit while another one is still pending.
	ErrSubmitting = errors.New("form: submit already in progress")
	// ErrClosed rejects a submit on a form that is not open.
	ErrClosed = errors.New("form: not open")
)

// SubmitFunc receives the normalized values. It is the mutation.
type SubmitFunc[T any] func(ctx context.Context, values T) error

// Rule is a synchronous, pure check re-run on every Set.
type Rule[T any] func(values *T) map[string]string

// Check is an asynchronous check (catalog references, stock lookups) run on
// submit once the tags and rules pass. A non-nil error aborts the submit.
type Check[T any] func(ctx context.Context, values *T) (map[string]string, error)

// Gate blocks submission while an asynchronous condition is unresolved.
type Gate interface {
	Field() string
	Ready() bool
	Reason() string
}

type Schema[T any] struct {
	Rules  []Rule[T]
	Checks []Check[T]
	Gates  []Gate
}

// Form holds the state of one form instance: open flag, current values,
// field errors and the submitting flag.
type Form[T any] struct {
	schema   Schema[T]
	onSubmit SubmitFunc[T]

	mu         sync.Mutex
	open       bool
	values     T
	errors     map[string]string
	submitting bool
	gen        uint64
}

func New[T any](schema Schema[T], onSubmit SubmitFunc[T]) *Form[T] {
	return &Form[T]{schema: schema, onSubmit: onSubmit}
}

// Open shows the form. With initial data the values are prefilled (dates as
// yyyy-mm-dd); otherwise they reset to the empty defaults. A submit still in
// flight from an earlier opening no longer blocks this one.
func (f *Form[T]) Open(initial *T) {
	var values T
	if initial != nil {
		values = *initial
		Prefill(&values)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.open = true
	f.values = values
	f.errors = nil
	f.submitting = false
}

// Close discards the form. A submit still in flight completes but its outcome
// no longer touches this form.
func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.open = false
	f.errors = nil
	f.submitting = false
}

func (f *Form[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *Form[T]) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Form[T]) Values() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set replaces the values and re-runs the rules. It returns the rule errors.
func (f *Form[T]) Set(values T) map[string]string {
	errs := f.runRules(&values)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = values
	f.errors = errs
	return maps.Clone(errs)
}

// Errors returns the field errors of the last Set or Submit.
func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errors)
}

// CanSubmit is the state of the submit button: open, idle, no rule errors
// and every gate ready.
func (f *Form[T]) CanSubmit() bool {
	f.mu.Lock()
	ok := f.open && !f.submitting && len(f.errors) == 0
	f.mu.Unlock()
	if !ok {
		return false
	}
	for _, g := range f.schema.Gates {
		if !g.Ready() {
			return false
		}
	}
	return true
}

// Submit validates the current values and, when everything passes, calls
// onSubmit exactly once with the normalized copy. Validation failures come
// back as an *apierror.Error of kind validation.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitting
	}
	f.submitting = true
	gen := f.gen
	values := f.values
	f.mu.Unlock()

	err := f.submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return err
	}
	f.submitting = false
	switch {
	case err == nil:
		f.errors = nil
		f.open = false
	default:
		if apiErr, ok := apierror.As(err); ok && len(apiErr.Fields) > 0 {
			f.errors = maps.Clone(apiErr.Fields)
		}
	}
	return err
}

func (f *Form[T]) submit(ctx context.Context, values T) error {
	fields, err := f.Validate(ctx, &values)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return apierror.Validation(fields)
	}
	Normalize(&values)
	return f.onSubmit(ctx, values)
}

// Validate runs tags, rules, checks and gates without submitting. Checks are
// skipped when tags or rules already failed.
func (f *Form[T]) Validate(ctx context.Context, values *T) (map[string]string, error) {
	fields := ValidateStruct(values)
	merge(&fields, f.runRules(values))

	if len(fields) == 0 {
		for _, check := range f.schema.Checks {
			errs, err := check(ctx, values)
			if err != nil {
				return nil, err
			}
			merge(&fields, errs)
		}
	}
	for _, g := range f.schema.Gates {
		if !g.Ready() {
			merge(&fields, map[string]string{g.Field(): g.Reason()})
		}
	}
	return fields, nil
}

func (f *Form[T]) runRules(values *T) map[string]string {
	var out map[string]string
	for _, rule := range f.schema.Rules {
		merge(&out, rule(values))
	}
	return out
}

// merge copies src into *dst without overwriting earlier messages.
func merge(dst *map[string]string, src map[string]string) {
	if len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		if _, ok := (*dst)[k]; !ok {
			(*dst)[k] = v
		}
	}
}
