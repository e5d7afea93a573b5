package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/logging"
)

const (
	serverName      = "clickup-mcp-server"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Prewarmer warms a cache ahead of client traffic. Satisfied by
// *infrastructure.HierarchyCache.
type Prewarmer interface {
	Prewarm(ctx context.Context) error
}

// methodHandler processes one JSON-RPC method. It always produces a
// response; failures are encoded as error responses, never returned.
type methodHandler func(ctx context.Context, req *domain.Request) *domain.Response

// Server is the main MCP server implementation. It owns the transport
// loop and the JSON-RPC method table, and delegates tool discovery to the
// Registry and tool execution to the Dispatcher.
type Server struct {
	transport  domain.Transport
	registry   *Registry
	dispatcher *Dispatcher
	prewarmer  Prewarmer
	log        *logrus.Entry

	mu            sync.Mutex
	configured    bool
	methods       map[string]methodHandler
	registrations int
}

// NewServer creates a new MCP server instance. Configure must be called
// before Start.
func NewServer(transport domain.Transport, registry *Registry, dispatcher *Dispatcher, prewarmer Prewarmer) *Server {
	return &Server{
		transport:  transport,
		registry:   registry,
		dispatcher: dispatcher,
		prewarmer:  prewarmer,
		log:        logging.Component("server"),
	}
}

// Configure registers the JSON-RPC method handlers and kicks off the
// best-effort cache prewarm. It is idempotent: the first call does the
// registration, later calls log and return the server unchanged, so
// handlers are never registered twice in one process.
func (s *Server) Configure() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configured {
		s.log.Info("server already configured, skipping handler registration")
		return s
	}

	s.methods = make(map[string]methodHandler)
	s.register("initialize", s.handleInitialize)
	s.register("ping", s.handlePing)
	s.register("tools/list", s.handleToolsList)
	s.register("tools/call", s.handleToolsCall)
	s.register("resources/list", s.handleResourcesList)
	s.register("prompts/list", s.handlePromptsList)
	s.register("prompts/get", s.handlePromptsGet)
	s.configured = true

	s.log.WithField("methods", s.registrations).Info("server configured")

	// Fire-and-forget: a failed prewarm only costs the first hierarchy
	// lookup, it must never surface to a client or block configuration.
	if s.prewarmer != nil {
		go func() {
			if err := s.prewarmer.Prewarm(context.Background()); err != nil {
				s.log.WithError(err).Warn("hierarchy cache prewarm failed")
			}
		}()
	}

	return s
}

func (s *Server) register(method string, handler methodHandler) {
	s.methods[method] = handler
	s.registrations++
}

// Start begins the server operation: it starts the transport layer and
// the request processing loop. Configure must have been called first.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	configured := s.configured
	s.mu.Unlock()
	if !configured {
		return fmt.Errorf("server is not configured")
	}

	if err := s.transport.Start(ctx); err != nil {
		s.log.WithError(err).Error("failed to start transport")
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.log.Info("server started")
	go s.processRequests(ctx)

	return nil
}

// processRequests continuously processes incoming JSON-RPC requests.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("server shutting down")
			return
		case req, ok := <-reqChan:
			if !ok {
				// Channel closed, transport is shutting down
				return
			}
			s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	s.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"request_id": req.ID,
	}).Info("received request")

	if err := s.validateRequest(req); err != nil {
		s.send(errorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error()))
		return
	}

	s.mu.Lock()
	handler, exists := s.methods[req.Method]
	s.mu.Unlock()
	if !exists {
		s.send(errorResponse(req.ID, domain.MethodNotFound, "Method not found",
			fmt.Sprintf("unknown method: %s", req.Method)))
		return
	}

	s.send(handler(ctx, req))
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}
	if req.Method == "" {
		return fmt.Errorf("method is required")
	}
	return nil
}

// handleInitialize handles the MCP initialize handshake.
func (s *Server) handleInitialize(_ context.Context, req *domain.Request) *domain.Response {
	result := map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": serverVersion,
		},
	}

	return resultResponse(req.ID, result)
}

// handlePing handles the MCP ping method.
func (s *Server) handlePing(_ context.Context, req *domain.Request) *domain.Response {
	return resultResponse(req.ID, map[string]interface{}{})
}

// handleToolsList handles the MCP tools/list method. The catalog is
// rebuilt from the registry on every call; no backend calls happen here.
func (s *Server) handleToolsList(_ context.Context, req *domain.Request) *domain.Response {
	tools := s.registry.ListTools()
	return resultResponse(req.ID, map[string]interface{}{"tools": tools})
}

// handleToolsCall handles the MCP tools/call method by delegating to the
// dispatcher and mapping dispatch failures onto protocol error codes.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) *domain.Response {
	toolReq, err := parseToolRequest(req.Params)
	if err != nil {
		return errorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
	}

	toolResp, err := s.dispatcher.Dispatch(ctx, toolReq)
	if err != nil {
		if dispErr, ok := err.(*domain.DispatchError); ok {
			return &domain.Response{JSONRPC: "2.0", ID: req.ID, Error: dispErr.Protocol()}
		}
		return errorResponse(req.ID, domain.ToolExecutionError,
			fmt.Sprintf("Error executing tool %s", toolReq.Name), err.Error())
	}

	return resultResponse(req.ID, toolResp)
}

// handleResourcesList handles the MCP resources/list method.
// This server exposes no resources; the result is always empty.
func (s *Server) handleResourcesList(_ context.Context, req *domain.Request) *domain.Response {
	return resultResponse(req.ID, map[string]interface{}{
		"resources": []interface{}{},
	})
}

// handlePromptsList handles the MCP prompts/list method.
// This server exposes no prompts; the result is always empty.
func (s *Server) handlePromptsList(_ context.Context, req *domain.Request) *domain.Response {
	return resultResponse(req.ID, map[string]interface{}{
		"prompts": []interface{}{},
	})
}

// handlePromptsGet handles the MCP prompts/get method, which always
// fails because no prompts exist.
func (s *Server) handlePromptsGet(_ context.Context, req *domain.Request) *domain.Response {
	return errorResponse(req.ID, domain.MethodNotFound,
		"Prompt not found", "prompts are not supported by this server")
}

// parseToolRequest parses the params field into a ToolRequest.
// The round-trip through JSON handles both map[string]interface{} params
// and already-typed structs.
func parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

func (s *Server) send(response *domain.Response) {
	if err := s.transport.Send(response); err != nil {
		s.log.WithError(err).WithField("request_id", response.ID).Error("failed to send response")
	}
}

func resultResponse(id interface{}, result interface{}) *domain.Response {
	return &domain.Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id interface{}, code int, message string, data interface{}) *domain.Response {
	return &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &domain.Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.log.Info("closing server")
	return s.transport.Close()
}
