package linear

import (
	"context"
	"fmt"
	"time"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

// Issue represents a Linear issue.
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    int       `json:"priority"`
	State       IssueRef  `json:"state"`
	Team        IssueRef  `json:"team"`
	Project     *IssueRef `json:"project,omitempty"`
	Assignee    *IssueRef `json:"assignee,omitempty"`
	Creator     IssueRef  `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	URL         string    `json:"url,omitempty"`
}

// IssueRef is a related entity referenced from an issue.
type IssueRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PageInfo carries cursor pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// IssueConnection is a page of issues.
type IssueConnection struct {
	Nodes    []Issue  `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// IssueListOptions filter an issue listing.
type IssueListOptions struct {
	// ProjectRef is an optional project ID, slug, or name.
	ProjectRef string
}

const issuesQuery = `
query Issues($filter: IssueFilter) {
    issues(filter: $filter) {
        nodes {
            id
            title
            description
            priority
            state {
                id
                name
            }
            team {
                id
            }
            project {
                id
            }
            assignee {
                id
            }
            creator {
                id
            }
            createdAt
            updatedAt
            url
        }
        pageInfo {
            hasNextPage
            endCursor
        }
    }
}`

// Issues lists issues, optionally filtered to a project.
func (c *Client) Issues(ctx context.Context, opts IssueListOptions) (*IssueConnection, error) {
	variables := map[string]any{}
	if opts.ProjectRef != "" {
		project, err := c.ResolveProject(ctx, opts.ProjectRef)
		if err != nil {
			return nil, err
		}
		variables["filter"] = map[string]any{
			"project": map[string]any{"id": map[string]any{"eq": project.ID}},
		}
	}

	var result struct {
		Issues IssueConnection `json:"issues"`
	}
	if err := c.execute(ctx, issuesQuery, variables, &result); err != nil {
		return nil, err
	}
	return &result.Issues, nil
}

// IssueCreateInput describes a new issue.
type IssueCreateInput struct {
	Title       string
	Description string
	// ProjectRef is the target project's ID, slug, or name.
	ProjectRef string
	// TeamID can be left empty when the project belongs to exactly one
	// team; it is then inferred.
	TeamID string
}

const issueCreateMutation = `
mutation CreateIssue($input: IssueCreateInput!) {
    issueCreate(input: $input) {
        success
        issue {
            id
            title
            description
            priority
            state {
                id
                name
            }
            team {
                id
            }
            project {
                id
            }
            assignee {
                id
            }
            creator {
                id
            }
            createdAt
            updatedAt
            url
        }
    }
}`

// CreateIssue creates an issue in a project. When no team is given the
// project's teams are looked up: exactly one team means it is used, more
// than one is an error asking the user to disambiguate.
func (c *Client) CreateIssue(ctx context.Context, input IssueCreateInput) (*Issue, error) {
	if input.Title == "" {
		return nil, &clierrors.ValidationError{Field: "title", Message: "must not be empty"}
	}
	if input.ProjectRef == "" {
		return nil, &clierrors.ValidationError{Field: "project", Message: "must not be empty"}
	}

	project, err := c.ResolveProject(ctx, input.ProjectRef)
	if err != nil {
		return nil, err
	}

	teamID := input.TeamID
	if teamID == "" {
		teams, err := c.projectTeams(ctx, project.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to determine team: %w", err)
		}
		switch len(teams) {
		case 0:
			return nil, clierrors.NewUserError(
				fmt.Sprintf("project %q has no teams", project.Name),
				"Pass --team with the team ID to create the issue under",
			)
		case 1:
			teamID = teams[0].ID
		default:
			return nil, clierrors.NewUserError(
				fmt.Sprintf("project %q belongs to multiple teams", project.Name),
				"Pass --team with the team ID to create the issue under",
			)
		}
	}

	createInput := map[string]any{
		"title":     input.Title,
		"teamId":    teamID,
		"projectId": project.ID,
	}
	if input.Description != "" {
		createInput["description"] = input.Description
	}

	var result struct {
		IssueCreate struct {
			Success bool   `json:"success"`
			Issue   *Issue `json:"issue"`
		} `json:"issueCreate"`
	}
	if err := c.execute(ctx, issueCreateMutation, map[string]any{"input": createInput}, &result); err != nil {
		return nil, err
	}
	if !result.IssueCreate.Success || result.IssueCreate.Issue == nil {
		return nil, &APIError{Message: "issue creation reported failure"}
	}
	return result.IssueCreate.Issue, nil
}
