package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

func issueNode(id, title string) map[string]any {
	return map[string]any{
		"id":       id,
		"title":    title,
		"priority": 2,
		"state":    map[string]any{"id": "s1", "name": "Todo"},
		"team":     map[string]any{"id": "t1"},
		"project":  map[string]any{"id": "p1"},
		"creator":  map[string]any{"id": "u1"},
		"url":      "https://linear.app/issue/" + id,
	}
}

func TestIssues_List(t *testing.T) {
	server := httptest.NewServer(graphqlHandler(t, []gqlRoute{
		{"issues(filter:", map[string]any{
			"data": map[string]any{
				"issues": map[string]any{
					"nodes": []map[string]any{
						issueNode("i1", "Fix login"),
						issueNode("i2", "Update docs"),
					},
					"pageInfo": map[string]any{"hasNextPage": true, "endCursor": "cur-2"},
				},
			},
		}},
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	conn, err := client.Issues(context.Background(), IssueListOptions{})
	if err != nil {
		t.Fatalf("Issues failed: %v", err)
	}
	if len(conn.Nodes) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(conn.Nodes))
	}
	if conn.Nodes[0].Title != "Fix login" || conn.Nodes[0].State.Name != "Todo" {
		t.Errorf("unexpected first issue: %+v", conn.Nodes[0])
	}
	if !conn.PageInfo.HasNextPage || conn.PageInfo.EndCursor != "cur-2" {
		t.Errorf("unexpected page info: %+v", conn.PageInfo)
	}
}

func TestIssues_ProjectFilterResolved(t *testing.T) {
	var issuesVariables map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case strings.Contains(req.Query, "issues(filter:"):
			issuesVariables = req.Variables
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"issues": map[string]any{
						"nodes":    []map[string]any{},
						"pageInfo": map[string]any{"hasNextPage": false},
					},
				},
			})
		case strings.Contains(req.Query, "project(id:"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{"id": "p-resolved", "name": "Roadmap"},
				},
			})
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	if _, err := client.Issues(context.Background(), IssueListOptions{ProjectRef: "Roadmap"}); err != nil {
		t.Fatalf("Issues failed: %v", err)
	}

	filter, ok := issuesVariables["filter"].(map[string]any)
	if !ok {
		t.Fatalf("expected project filter, got %+v", issuesVariables)
	}
	project := filter["project"].(map[string]any)["id"].(map[string]any)
	if project["eq"] != "p-resolved" {
		t.Errorf("expected resolved project id in filter, got %+v", filter)
	}
}

func TestCreateIssue_InfersSingleTeam(t *testing.T) {
	var createInput map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case strings.Contains(req.Query, "issueCreate"):
			createInput = req.Variables["input"].(map[string]any)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"issueCreate": map[string]any{
						"success": true,
						"issue":   issueNode("i-new", createInput["title"].(string)),
					},
				},
			})
		case strings.Contains(req.Query, "teams {"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{
						"teams": map[string]any{
							"nodes": []map[string]any{{"id": "team-only", "name": "Core"}},
						},
					},
				},
			})
		case strings.Contains(req.Query, "project(id:"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{"id": "p1", "name": "Roadmap"},
				},
			})
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	issue, err := client.CreateIssue(context.Background(), IssueCreateInput{
		Title:       "Fix login",
		Description: "Session expires too early",
		ProjectRef:  "p1",
	})
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}
	if issue.ID != "i-new" {
		t.Errorf("unexpected issue: %+v", issue)
	}
	if createInput["teamId"] != "team-only" {
		t.Errorf("expected inferred team, got %+v", createInput)
	}
	if createInput["projectId"] != "p1" {
		t.Errorf("expected resolved project, got %+v", createInput)
	}
}

func TestCreateIssue_MultipleTeamsNeedsExplicitTeam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case strings.Contains(req.Query, "teams {"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{
						"teams": map[string]any{
							"nodes": []map[string]any{
								{"id": "t1", "name": "Core"},
								{"id": "t2", "name": "Web"},
							},
						},
					},
				},
			})
		case strings.Contains(req.Query, "project(id:"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{"id": "p1", "name": "Roadmap"},
				},
			})
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	_, err := client.CreateIssue(context.Background(), IssueCreateInput{
		Title:      "Fix login",
		ProjectRef: "p1",
	})
	if err == nil {
		t.Fatal("expected error for ambiguous team")
	}
	if !clierrors.IsUserError(err) {
		t.Errorf("expected UserError, got %v", err)
	}
}

func TestCreateIssue_ExplicitTeamSkipsLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case strings.Contains(req.Query, "issueCreate"):
			input := req.Variables["input"].(map[string]any)
			if input["teamId"] != "t-explicit" {
				t.Errorf("expected explicit team, got %+v", input)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"issueCreate": map[string]any{
						"success": true,
						"issue":   issueNode("i-new", "Fix login"),
					},
				},
			})
		case strings.Contains(req.Query, "teams {"):
			t.Error("team lookup should be skipped with explicit team")
		case strings.Contains(req.Query, "project(id:"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"project": map[string]any{"id": "p1", "name": "Roadmap"},
				},
			})
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	if _, err := client.CreateIssue(context.Background(), IssueCreateInput{
		Title:      "Fix login",
		ProjectRef: "p1",
		TeamID:     "t-explicit",
	}); err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}
}

func TestCreateIssue_Validation(t *testing.T) {
	client := NewClient("tok")

	_, err := client.CreateIssue(context.Background(), IssueCreateInput{ProjectRef: "p1"})
	if !clierrors.IsValidationError(err) {
		t.Errorf("expected validation error for empty title, got %v", err)
	}

	_, err = client.CreateIssue(context.Background(), IssueCreateInput{Title: "x"})
	if !clierrors.IsValidationError(err) {
		t.Errorf("expected validation error for empty project, got %v", err)
	}
}
