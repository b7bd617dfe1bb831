package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/oradew/internal/logging"
)

// OutputChannelName is the name of the diagnostics channel.
const OutputChannelName = "Oradew Auto Detection"

// CatalogFunc enumerates the descriptors to offer.
type CatalogFunc func(ctx context.Context) ([]Descriptor, error)

// StaticCatalog returns Catalog.
func StaticCatalog(context.Context) ([]Descriptor, error) {
	return Catalog(), nil
}

// Provider answers the host's task requests for one workspace.
type Provider struct {
	inv     *Invocation
	catalog CatalogFunc
	logger  logging.Logger

	// sink receives diagnostics channel lines.
	sink io.Writer

	channelMu sync.Mutex
	channel   *OutputChannel
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCatalogFunc replaces the task enumeration.
func WithCatalogFunc(fn CatalogFunc) ProviderOption {
	return func(p *Provider) {
		p.catalog = fn
	}
}

// WithLogger sets the provider logger.
func WithLogger(l logging.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithDiagnosticsSink copies diagnostics channel lines to w.
func WithDiagnosticsSink(w io.Writer) ProviderOption {
	return func(p *Provider) {
		p.sink = w
	}
}

// NewProvider creates a provider over a resolved invocation.
func NewProvider(inv *Invocation, opts ...ProviderOption) *Provider {
	p := &Provider{
		inv:     inv,
		catalog: StaticCatalog,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Invocation returns the provider's invocation.
func (p *Provider) Invocation() *Invocation {
	return p.inv
}

// ProvideTasks returns runnable tasks for every catalog entry.
//
// Enumeration never fails: on error (or panic) the failure is written to
// the diagnostics channel, the channel is revealed, and an empty list is
// returned so the host's task list keeps working.
func (p *Provider) ProvideTasks(ctx context.Context) []*Task {
	tasks, err := p.enumerate(ctx)
	if err != nil {
		p.reportFailure(err)
		return []*Task{}
	}
	return tasks
}

func (p *Provider) enumerate(ctx context.Context) (tasks []*Task, err error) {
	defer func() {
		if r := recover(); r != nil {
			tasks, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	descriptors, err := p.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if verr := ValidateCatalog(descriptors); verr != nil {
		p.logger.Warn("task catalog has duplicate names", "error", verr)
	}

	tasks = make([]*Task, 0, len(descriptors))
	for _, d := range descriptors {
		tasks = append(tasks, p.inv.TaskFor(d))
	}
	p.logger.Debug("provided tasks", "count", len(tasks))
	return tasks, nil
}

func (p *Provider) reportFailure(err error) {
	channel := p.OutputChannel()

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Stderr != "" {
			channel.AppendLine(cmdErr.Stderr)
		}
		if cmdErr.Stdout != "" {
			channel.AppendLine(cmdErr.Stdout)
		}
	}
	channel.AppendLine("Auto detecting oradew tasks failed. " + err.Error())
	channel.Show(true)

	p.logger.Error("task enumeration failed", "error", err)
}

// ResolveTask rebuilds a task from a host stub. It returns nil when the
// stub has no name or no params. The returned task carries def itself.
func (p *Provider) ResolveTask(def *Definition) *Task {
	if def == nil || def.Name == "" || def.Params == nil {
		return nil
	}
	return p.inv.NewTask(def)
}

// CompileOnSaveTask returns the background compile task run after a save.
func (p *Provider) CompileOnSaveTask() *Task {
	return p.inv.TaskFor(CompileOnSave())
}

// OutputChannel returns the diagnostics channel, creating it on first use.
func (p *Provider) OutputChannel() *OutputChannel {
	p.channelMu.Lock()
	defer p.channelMu.Unlock()
	if p.channel == nil {
		p.channel = NewOutputChannel(OutputChannelName, p.sink)
	}
	return p.channel
}

// HasOutputChannel reports whether the diagnostics channel was created.
func (p *Provider) HasOutputChannel() bool {
	p.channelMu.Lock()
	defer p.channelMu.Unlock()
	return p.channel != nil
}
