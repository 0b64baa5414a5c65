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

// gqlRoute matches a query by substring and replies with a fixed payload.
// Routes are checked in order; the first match wins.
type gqlRoute struct {
	needle  string
	payload any
}

func graphqlHandler(t *testing.T, routes []gqlRoute) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, route := range routes {
			if strings.Contains(req.Query, route.needle) {
				_ = json.NewEncoder(w).Encode(route.payload)
				return
			}
		}
		t.Errorf("no route for query: %s", req.Query)
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestProjects_List(t *testing.T) {
	server := httptest.NewServer(graphqlHandler(t, []gqlRoute{
		{"projects {", map[string]any{
			"data": map[string]any{
				"projects": map[string]any{
					"nodes": []map[string]any{
						{"id": "p1", "name": "Roadmap", "state": "started"},
						{"id": "p2", "name": "Backlog", "state": "planned"},
					},
				},
			},
		}},
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	projects, err := client.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "Roadmap" || projects[1].State != "planned" {
		t.Errorf("unexpected projects: %+v", projects)
	}
}

func TestResolveProject_DirectHit(t *testing.T) {
	server := httptest.NewServer(graphqlHandler(t, []gqlRoute{
		{"project(id:", map[string]any{
			"data": map[string]any{
				"project": map[string]any{"id": "p1", "name": "Roadmap"},
			},
		}},
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	project, err := client.ResolveProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ResolveProject failed: %v", err)
	}
	if project.ID != "p1" {
		t.Errorf("expected p1, got %+v", project)
	}
}

func TestResolveProject_FallsBackToNameMatch(t *testing.T) {
	server := httptest.NewServer(graphqlHandler(t, []gqlRoute{
		{"project(id:", map[string]any{
			"errors": []map[string]any{{"message": "Entity not found"}},
		}},
		{"projects {", map[string]any{
			"data": map[string]any{
				"projects": map[string]any{
					"nodes": []map[string]any{
						{"id": "p1", "name": "Roadmap"},
						{"id": "p2", "name": "Website Redesign"},
					},
				},
			},
		}},
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	project, err := client.ResolveProject(context.Background(), "website redesign")
	if err != nil {
		t.Fatalf("ResolveProject failed: %v", err)
	}
	if project.ID != "p2" {
		t.Errorf("expected name match to p2, got %+v", project)
	}
}

func TestResolveProject_NotFound(t *testing.T) {
	server := httptest.NewServer(graphqlHandler(t, []gqlRoute{
		{"project(id:", map[string]any{
			"errors": []map[string]any{{"message": "Entity not found"}},
		}},
		{"projects {", map[string]any{
			"data": map[string]any{
				"projects": map[string]any{"nodes": []map[string]any{}},
			},
		}},
	}))
	defer server.Close()

	client := NewClient("tok").WithAPIURL(server.URL)
	_, err := client.ResolveProject(context.Background(), "no-such-project")
	if err == nil {
		t.Fatal("expected error")
	}
	if !clierrors.IsUserError(err) {
		t.Errorf("expected UserError not-found, got %v", err)
	}
}
