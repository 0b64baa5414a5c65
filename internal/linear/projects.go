package linear

import (
	"context"
	"strings"
	"time"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

// Project represents a Linear project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Team is a Linear team a project belongs to.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const projectsQuery = `
query Projects {
    projects {
        nodes {
            id
            name
            description
            state
            createdAt
            updatedAt
        }
    }
}`

// Projects lists the projects visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var result struct {
		Projects struct {
			Nodes []Project `json:"nodes"`
		} `json:"projects"`
	}
	if err := c.execute(ctx, projectsQuery, nil, &result); err != nil {
		return nil, err
	}
	return result.Projects.Nodes, nil
}

const projectByIDQuery = `
query Project($id: String!) {
    project(id: $id) {
        id
        name
    }
}`

// ResolveProject resolves a project reference (ID, slug, or name) to a
// project. Direct lookup is tried first; on a miss the project list is
// scanned for a case-insensitive name match.
func (c *Client) ResolveProject(ctx context.Context, ref string) (*Project, error) {
	var result struct {
		Project *Project `json:"project"`
	}
	err := c.execute(ctx, projectByIDQuery, map[string]any{"id": ref}, &result)
	if err == nil && result.Project != nil {
		return result.Project, nil
	}
	if err != nil && IsUnauthorized(err) {
		return nil, err
	}

	projects, listErr := c.Projects(ctx)
	if listErr != nil {
		return nil, listErr
	}
	for i := range projects {
		if strings.EqualFold(projects[i].Name, ref) {
			return &projects[i], nil
		}
	}
	return nil, clierrors.NotFoundError("project", ref)
}

const projectTeamsQuery = `
query Project($id: String!) {
    project(id: $id) {
        teams {
            nodes {
                id
                name
            }
        }
    }
}`

// projectTeams returns the teams a project belongs to.
func (c *Client) projectTeams(ctx context.Context, projectID string) ([]Team, error) {
	var result struct {
		Project *struct {
			Teams struct {
				Nodes []Team `json:"nodes"`
			} `json:"teams"`
		} `json:"project"`
	}
	if err := c.execute(ctx, projectTeamsQuery, map[string]any{"id": projectID}, &result); err != nil {
		return nil, err
	}
	if result.Project == nil {
		return nil, clierrors.NotFoundError("project", projectID)
	}
	return result.Project.Teams.Nodes, nil
}
