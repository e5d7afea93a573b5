package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clickup-mcp-server/internal/application"
	"clickup-mcp-server/internal/domain"
	"clickup-mcp-server/internal/infrastructure"
	"clickup-mcp-server/internal/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	config, err := domain.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(config.Log.Level, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	log := logging.Component("main")
	log.WithField("path", *configPath).Info("configuration loaded")

	client := infrastructure.NewClickUpClient(config.ClickUp.BaseURL, config.ClickUp.APIKey, config.ClickUp.TeamID, nil)
	hierarchyCache := infrastructure.NewHierarchyCache(client, config.Cache.TTL)

	server := buildServer(config, client, hierarchyCache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	log.WithField("transport", config.Transport.Type).Info("server running")

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
		cancel()
	case err := <-errChan:
		log.WithError(err).Error("server error")
		cancel()
		if err := server.Close(); err != nil {
			log.WithError(err).Error("error closing server")
		}
		os.Exit(1)
	}

	if err := server.Close(); err != nil {
		log.WithError(err).Error("error during server shutdown")
		os.Exit(1)
	}

	log.Info("server shutdown complete")
}

// buildServer wires the tool groups, registry, dispatcher, and transport
// into a configured server. The document group participates only when
// document support is enabled, so its tools are neither listed nor
// dispatchable otherwise.
func buildServer(config *domain.Config, client *infrastructure.ClickUpClient, hierarchyCache *infrastructure.HierarchyCache) *application.Server {
	groups := buildGroups(config, client, hierarchyCache)

	filter := application.NewToolFilter(config.Tools.Enabled, config.Tools.Disabled)
	registry := application.NewRegistry(filter, groups...)
	dispatcher := application.NewDispatcher(filter, groups...)

	var transport domain.Transport
	switch config.Transport.Type {
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	default:
		transport = domain.NewStdioTransport()
	}

	return application.NewServer(transport, registry, dispatcher, hierarchyCache).Configure()
}

func buildGroups(config *domain.Config, client *infrastructure.ClickUpClient, hierarchyCache *infrastructure.HierarchyCache) []application.ToolGroup {
	groups := []application.ToolGroup{
		application.NewWorkspaceHandler(hierarchyCache),
		application.NewTaskHandler(client),
		application.NewListHandler(client),
		application.NewFolderHandler(client),
		application.NewTagHandler(client),
		application.NewTimeHandler(client),
		application.NewMemberHandler(client),
		application.NewAPIHandler(client),
	}
	if config.Tools.DocumentSupport {
		groups = append(groups, application.NewDocumentHandler(client))
	}
	return groups
}
