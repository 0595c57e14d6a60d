package form

import (
	"context"
	"strings"
	"sync"
	"time"

	"nutripae/internal/dto"
)

// NameStatus is the state of the ingredient name uniqueness check.
type NameStatus int

const (
	NameIdle NameStatus = iota
	NamePending
	NameAvailable
	NameTaken
	NameFailed
)

func (s NameStatus) String() string {
	switch s {
	case NameIdle:
		return "idle"
	case NamePending:
		return "pending"
	case NameAvailable:
		return "available"
	case NameTaken:
		return "taken"
	case NameFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NameCheckFunc asks the menus service whether name is free, ignoring the
// ingredient excludeID (the one being edited).
type NameCheckFunc func(ctx context.Context, name, excludeID string) (bool, error)

// NameChecker debounces the server-side uniqueness check of an ingredient
// name. Only the answer for the latest name counts. It is the form Gate for
// the "name" field.
type NameChecker struct {
	check     NameCheckFunc
	delay     time.Duration
	original  string
	excludeID string
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.Mutex
	name    string
	status  NameStatus
	seq     uint64
	timer   *time.Timer
	changed chan struct{}
}

// NewNameChecker builds a checker. On edit, original is the stored name and
// excludeID the ingredient id; keeping the original name counts as available.
func NewNameChecker(check NameCheckFunc, delay time.Duration, original, excludeID string) *NameChecker {
	ctx, cancel := context.WithCancel(context.Background())
	return &NameChecker{
		check:     check,
		delay:     delay,
		original:  strings.TrimSpace(original),
		excludeID: excludeID,
		ctx:       ctx,
		cancel:    cancel,
		changed:   make(chan struct{}),
	}
}

// Update records a new name and schedules a check after the debounce delay.
func (c *NameChecker) Update(name string) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if name == c.name && c.status != NameIdle && c.status != NameFailed {
		return
	}
	c.name = name
	c.seq++
	c.stopTimer()

	switch {
	case name == "":
		c.setStatus(NameIdle)
	case c.excludeID != "" && strings.EqualFold(name, c.original):
		c.setStatus(NameAvailable)
	default:
		c.setStatus(NamePending)
		seq := c.seq
		c.timer = time.AfterFunc(c.delay, func() { c.run(seq, name) })
	}
}

// Flush runs a pending check now instead of waiting for the debounce.
func (c *NameChecker) Flush() {
	c.mu.Lock()
	if c.status != NamePending || c.timer == nil || !c.timer.Stop() {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	seq, name := c.seq, c.name
	c.mu.Unlock()
	c.run(seq, name)
}

func (c *NameChecker) run(seq uint64, name string) {
	available, err := c.check(c.ctx, name, c.excludeID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.timer = nil
	switch {
	case err != nil:
		c.setStatus(NameFailed)
	case available:
		c.setStatus(NameAvailable)
	default:
		c.setStatus(NameTaken)
	}
}

// Wait blocks until the current check resolves or ctx ends.
func (c *NameChecker) Wait(ctx context.Context) (NameStatus, error) {
	for {
		c.mu.Lock()
		status, ch := c.status, c.changed
		c.mu.Unlock()
		if status != NamePending {
			return status, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return status, ctx.Err()
		}
	}
}

// Stop cancels the scheduled check and any in-flight one.
func (c *NameChecker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.stopTimer()
	c.cancel()
}

func (c *NameChecker) Status() NameStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *NameChecker) Field() string { return "name" }

func (c *NameChecker) Ready() bool { return c.Status() == NameAvailable }

func (c *NameChecker) Reason() string {
	switch c.Status() {
	case NamePending:
		return "Verificando disponibilidad del nombre"
	case NameTaken:
		return "Ya existe un ingrediente con este nombre"
	case NameFailed:
		return "No se pudo verificar el nombre, intente nuevamente"
	default:
		return "Ingrese un nombre"
	}
}

// must hold c.mu
func (c *NameChecker) setStatus(s NameStatus) {
	c.status = s
	close(c.changed)
	c.changed = make(chan struct{})
}

// must hold c.mu
func (c *NameChecker) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// IngredientForm keeps the name checker in step with the form values.
type IngredientForm struct {
	*Form[dto.IngredientRequest]
	Checker *NameChecker
}

func (f *IngredientForm) Open(initial *dto.IngredientRequest) {
	f.Form.Open(initial)
	if initial != nil {
		f.Checker.Update(initial.Name)
	}
}

func (f *IngredientForm) Set(values dto.IngredientRequest) map[string]string {
	f.Checker.Update(values.Name)
	return f.Form.Set(values)
}

// Close also stops the name checker.
func (f *IngredientForm) Close() {
	f.Checker.Stop()
	f.Form.Close()
}

// SubmitNow resolves a pending name check immediately, waits for it and
// submits. It is the path used by one-shot API requests.
func (f *IngredientForm) SubmitNow(ctx context.Context) error {
	f.Checker.Flush()
	if _, err := f.Checker.Wait(ctx); err != nil {
		return err
	}
	return f.Submit(ctx)
}
