package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetPlanTool(srv, svc)
	registerGetDayTool(srv, svc)
	registerSummaryTool(srv, svc)
	registerAddItemTool(srv, svc)
	registerRemoveItemTool(srv, svc)
	registerMoveItemTool(srv, svc)
	registerSetStatusTool(srv, svc)
	registerSetNotesTool(srv, svc)
	registerSetLinkTool(srv, svc)
	registerAddIntervalTool(srv, svc)
	registerParseOutlineTool(srv, svc)
}

func dayParam() mcp.ToolOption {
	return mcp.WithString("day",
		mcp.Required(),
		mcp.Description(`Day label such as "18 January".`),
	)
}

func labelParam() mcp.ToolOption {
	return mcp.WithString("label",
		mcp.Required(),
		mcp.Description("Item label exactly as listed on the day."),
	)
}

// itemRef reads the day and label arguments shared by item tools.
func itemRef(request mcp.CallToolRequest) (string, string, error) {
	day, err := request.RequireString("day")
	if err != nil {
		return "", "", err
	}
	label, err := request.RequireString("label")
	if err != nil {
		return "", "", err
	}
	return day, label, nil
}

func registerGetPlanTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_plan",
		mcp.WithDescription("Return the working study plan: every day with its items, status and time, plus totals."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := svc.WorkingPlan(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func registerGetDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_day",
		mcp.WithDescription("Return one day of the working plan."),
		dayParam(),
		mcp.WithString("filter",
			mcp.Description("Optional case-insensitive text the item label must contain."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, err := request.RequireString("day")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sum, err := svc.Day(ctx, day, request.GetString("filter", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sum)
	})
}

func registerSummaryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"summary",
		mcp.WithDescription("Return per-day and overall progress: completed items, time studied and percent."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sum, err := svc.Summary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sum)
	})
}

func registerAddItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_item",
		mcp.WithDescription("Schedule a new item on a day. Adding an item twice is a no-op."),
		dayParam(),
		labelParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, label, err := itemRef(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddItem(ctx, day, label)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRemoveItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"remove_item",
		mcp.WithDescription("Remove an item from a day and discard its progress."),
		dayParam(),
		labelParam(),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, label, err := itemRef(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RemoveItem(ctx, day, label)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveItemTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_item",
		mcp.WithDescription("Move an item to another day. Its progress moves with it."),
		labelParam(),
		mcp.WithString("target_day",
			mcp.Required(),
			mcp.Description(`Destination day label such as "20 January".`),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		label, err := request.RequireString("label")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target := strings.TrimSpace(request.GetString("target_day", ""))
		if target == "" {
			return mcp.NewToolResultError("target_day is required"), nil
		}
		dto, err := svc.MoveItem(ctx, label, target)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_status",
		mcp.WithDescription("Set the study and/or exam milestone of an item. An item with both is complete."),
		dayParam(),
		labelParam(),
		mcp.WithBoolean("study",
			mcp.Description("Whether the item has been studied."),
		),
		mcp.WithBoolean("exam",
			mcp.Description("Whether the item has been examined."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Day   string `json:"day"`
			Label string `json:"label"`
			Study *bool  `json:"study"`
			Exam  *bool  `json:"exam"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.SetStatus(ctx, args.Day, args.Label, StatusUpdate{Study: args.Study, Exam: args.Exam})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetNotesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_notes",
		mcp.WithDescription("Replace the notes of an item."),
		dayParam(),
		labelParam(),
		mcp.WithString("notes",
			mcp.Required(),
			mcp.Description("New notes text; empty clears them."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, label, err := itemRef(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetNotes(ctx, day, label, request.GetString("notes", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetLinkTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_link",
		mcp.WithDescription("Replace the resource link of an item."),
		dayParam(),
		labelParam(),
		mcp.WithString("link",
			mcp.Required(),
			mcp.Description("URL or path of the study resource; empty clears it."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, label, err := itemRef(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SetLink(ctx, day, label, request.GetString("link", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddIntervalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_interval",
		mcp.WithDescription("Record a study interval on an item. Give start and end, or only minutes for a slot after the last interval."),
		dayParam(),
		labelParam(),
		mcp.WithString("start",
			mcp.Description(`Start time, "21:30" or "9:30 PM".`),
		),
		mcp.WithString("end",
			mcp.Description("End time, same formats as start. An end before start wraps past midnight."),
		),
		mcp.WithNumber("minutes",
			mcp.Description("Slot length when start and end are omitted (default 30)."),
			mcp.Min(1),
			mcp.Max(720),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		day, label, err := itemRef(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddInterval(ctx, day, label, IntervalRequest{
			Start:   request.GetString("start", ""),
			End:     request.GetString("end", ""),
			Minutes: request.GetInt("minutes", 0),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerParseOutlineTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"parse_outline",
		mcp.WithDescription("Parse study plan outline text and report days whose header count disagrees with the listed items. Nothing is saved."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description(`Outline text with headers such as "18 January (2 lectures)" followed by one item per line.`),
		),
		mcp.WithString("title_prefix",
			mcp.Description(`Lines starting with this text are skipped (default "study plan").`),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err := svc.ParseOutline(ctx, text, request.GetString("title_prefix", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(view)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
