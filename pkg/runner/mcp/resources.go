package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerPlanResource(srv, svc)
	registerDayTemplate(srv, svc)
}

func registerPlanResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"cram://plan",
		"Study Plan",
		mcp.WithResourceDescription("The working study plan with per-item status and totals."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		view, err := svc.WorkingPlan(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, view)
	})
}

func registerDayTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"cram://days/{day}",
		"Plan Day",
		mcp.WithTemplateDescription(`Items scheduled on one day, for example cram://days/18%20January.`),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		day := templateArg(request.Params.Arguments["day"])
		if day == "" {
			return nil, fmt.Errorf("day is required")
		}

		sum, err := svc.Day(ctx, day, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, sum)
	})
}

// templateArg reads a URI template variable, which the server may hand over
// as a string or a list of strings, still percent-encoded.
func templateArg(v any) string {
	var raw string
	switch t := v.(type) {
	case string:
		raw = t
	case []string:
		if len(t) > 0 {
			raw = t[0]
		}
	}
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
