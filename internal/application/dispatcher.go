package application

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/logging"
)

// HandlerFunc executes one tool invocation. The handler owns parameter
// validation and backend interaction; the dispatcher passes arguments
// through untouched.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error)

// ToolGroup bundles the tool definitions and handler bindings for one
// ClickUp resource type (tasks, lists, folders, ...). The registry consumes
// Tools in declaration order; the dispatcher flattens Bindings into a
// single lookup table.
type ToolGroup interface {
	// GroupName returns the identifier for this group, used in logs.
	GroupName() string

	// Tools returns the tool definitions in their fixed catalog order.
	Tools() []domain.ToolDefinition

	// Bindings returns the handler for each tool name in the group.
	Bindings() map[string]HandlerFunc
}

// Dispatcher routes tool invocations to their handler bindings.
// The name-to-handler table is built once at startup; per-invocation state
// is limited to the request itself. Every failure mode is normalized into
// a *domain.DispatchError.
type Dispatcher struct {
	filter   *ToolFilter
	handlers map[string]HandlerFunc
	log      *logrus.Entry
}

// NewDispatcher creates a Dispatcher over the given tool groups.
func NewDispatcher(filter *ToolFilter, groups ...ToolGroup) *Dispatcher {
	handlers := make(map[string]HandlerFunc)
	for _, group := range groups {
		for name, fn := range group.Bindings() {
			handlers[name] = fn
		}
	}

	return &Dispatcher{
		filter:   filter,
		handlers: handlers,
		log:      logging.Component("dispatcher"),
	}
}

// Dispatch executes a tool invocation: enablement check, handler lookup,
// invocation, and outcome normalization, in that order. The enablement
// check runs before any handler is touched. Each invocation is attempted
// exactly once; retry is a client concern.
func (d *Dispatcher) Dispatch(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	d.log.WithFields(logrus.Fields{
		"tool":      req.Name,
		"arguments": req.Arguments,
	}).Info("tool invocation received")

	if !d.filter.IsEnabled(req.Name) {
		err := &domain.DispatchError{
			Kind:   domain.DisabledTool,
			Tool:   req.Name,
			Detail: d.filter.RejectionReason(req.Name),
		}
		d.logFailure(req.Name, err)
		return nil, err
	}

	handler, exists := d.handlers[req.Name]
	if !exists {
		err := &domain.DispatchError{Kind: domain.UnknownTool, Tool: req.Name}
		d.logFailure(req.Name, err)
		return nil, err
	}

	resp, err := handler(ctx, req.Arguments)
	if err != nil {
		dispErr := d.normalize(req.Name, err)
		d.logFailure(req.Name, dispErr)
		return nil, dispErr
	}

	return resp, nil
}

// normalize classifies a handler failure into the closed dispatch error set.
func (d *Dispatcher) normalize(tool string, err error) *domain.DispatchError {
	var dispErr *domain.DispatchError
	if errors.As(err, &dispErr) {
		return dispErr
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return &domain.DispatchError{
			Kind:   domain.ValidationFailed,
			Tool:   tool,
			Detail: valErr.Detail,
			Cause:  err,
		}
	}

	return &domain.DispatchError{
		Kind:   domain.ExecutionFailed,
		Tool:   tool,
		Detail: err.Error(),
		Cause:  err,
	}
}

func (d *Dispatcher) logFailure(tool string, err *domain.DispatchError) {
	d.log.WithFields(logrus.Fields{
		"tool": tool,
		"kind": err.Kind.String(),
	}).WithError(err).Warn("tool invocation failed")
}

// HandlerNames returns the sorted names of all bound handlers.
// Used to cross-check the handler table against the registry.
func (d *Dispatcher) HandlerNames() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
