package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/blueprint/internal/templateservice"
	"github.com/starford/blueprint/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(templateservice.NewService(testutil.TestStore(t)))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct test dispatcher, so we call the handlers directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_template":
		result, err = srv.getTemplate(ctx, req)
	case "list_templates":
		result, err = srv.listTemplates(ctx, req)
	case "register_template":
		result, err = srv.registerTemplate(ctx, req)
	case "update_template":
		result, err = srv.updateTemplate(ctx, req)
	case "delete_template":
		result, err = srv.deleteTemplate(ctx, req)
	case "get_template_contract":
		result, err = srv.getTemplateContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestRegisterAndGetTemplate(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "register_template", map[string]interface{}{
		"title":   "Code Review",
		"content": "look at the diff",
	})
	if res.IsError {
		t.Fatalf("register failed: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, `"title": "Code Review"`) {
		t.Errorf("result missing title: %s", text)
	}
	// No owner supplied: the tool default applies.
	if !strings.Contains(text, `"owner": "ai_assistant"`) {
		t.Errorf("result missing default owner: %s", text)
	}

	res = callTool(t, srv, "get_template", map[string]interface{}{"title": "Code Review"})
	if res.IsError {
		t.Fatalf("get failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "look at the diff") {
		t.Errorf("get result missing content: %s", resultText(res))
	}
}

func TestRegisterDuplicate(t *testing.T) {
	srv := testServer(t)

	args := map[string]interface{}{"title": "Dup", "content": "x"}
	if res := callTool(t, srv, "register_template", args); res.IsError {
		t.Fatalf("first register failed: %s", resultText(res))
	}
	res := callTool(t, srv, "register_template", args)
	if !res.IsError {
		t.Fatal("duplicate register did not error")
	}
	if !strings.Contains(resultText(res), "already exists") {
		t.Errorf("error text = %s", resultText(res))
	}
}

func TestRegisterMissingRequired(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "register_template", map[string]interface{}{"content": "x"})
	if !res.IsError {
		t.Fatal("register without title did not error")
	}
	res = callTool(t, srv, "register_template", map[string]interface{}{"title": "T"})
	if !res.IsError {
		t.Fatal("register without content did not error")
	}
}

func TestGetTemplateNotFound(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "get_template", map[string]interface{}{"title": "Nothing"})
	if !res.IsError {
		t.Fatal("get of missing template did not error")
	}
	if !strings.Contains(resultText(res), "not found") {
		t.Errorf("error text = %s", resultText(res))
	}
}

func TestUpdateTemplate(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "register_template", map[string]interface{}{
		"title":       "Runbook",
		"content":     "old",
		"description": "keep",
	})

	res := callTool(t, srv, "update_template", map[string]interface{}{
		"title":   "Runbook",
		"content": "new",
	})
	if res.IsError {
		t.Fatalf("update failed: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, `"content": "new"`) {
		t.Errorf("content not updated: %s", text)
	}
	if !strings.Contains(text, `"description": "keep"`) {
		t.Errorf("absent field overwritten: %s", text)
	}
}

func TestUpdateTemplateNoFields(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "register_template", map[string]interface{}{"title": "T", "content": "x"})

	res := callTool(t, srv, "update_template", map[string]interface{}{"title": "T"})
	if !res.IsError {
		t.Fatal("update with no fields did not error")
	}
	if !strings.Contains(resultText(res), "no fields") {
		t.Errorf("error text = %s", resultText(res))
	}
}

func TestDeleteTemplate(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "register_template", map[string]interface{}{"title": "Gone", "content": "x"})

	res := callTool(t, srv, "delete_template", map[string]interface{}{"title": "Gone"})
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(res))
	}

	res = callTool(t, srv, "delete_template", map[string]interface{}{"title": "Gone"})
	if !res.IsError {
		t.Fatal("second delete did not error")
	}
}

func TestListTemplates(t *testing.T) {
	srv := testServer(t)

	callTool(t, srv, "register_template", map[string]interface{}{"title": "A", "content": "x", "owner": "alice"})
	callTool(t, srv, "register_template", map[string]interface{}{"title": "B", "content": "x", "owner": "bob"})

	res := callTool(t, srv, "list_templates", map[string]interface{}{})
	if res.IsError {
		t.Fatalf("list failed: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, `"total": 2`) {
		t.Errorf("list text = %s", text)
	}

	res = callTool(t, srv, "list_templates", map[string]interface{}{"owner": "alice"})
	text = resultText(res)
	if !strings.Contains(text, `"total": 1`) || strings.Contains(text, `"title": "B"`) {
		t.Errorf("owner filter text = %s", text)
	}
}

func TestGetTemplateContract(t *testing.T) {
	srv := testServer(t)

	res := callTool(t, srv, "get_template_contract", map[string]interface{}{})
	if res.IsError {
		t.Fatalf("contract tool failed: %s", resultText(res))
	}
	if !strings.Contains(resultText(res), "---") {
		t.Errorf("contract text missing frontmatter delimiter: %s", resultText(res))
	}
}

func TestTemplateFormatResource(t *testing.T) {
	srv := testServer(t)

	contents, err := srv.readTemplateFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T", contents[0])
	}
	if tc.URI != "blueprint://template-format" || tc.Text == "" {
		t.Errorf("resource = %+v", tc)
	}
}
