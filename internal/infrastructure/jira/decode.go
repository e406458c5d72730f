package jira

import (
	"strings"

	"github.com/ntnxnam/ndb-weekly-status/internal/domain"
)

// Story points live in a deployment-specific custom field. Both known field
// ids are requested and the first populated one wins, in this order.
const storyPointFields = "customfield_10002,customfield_10004"

type searchResponse struct {
	Issues []issueEntry `json:"issues"`
}

type issueEntry struct {
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

type remoteLinkEntry struct {
	Relationship string `json:"relationship"`
	Object       struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"object"`
}

// decodeIssue flattens the tracker's nested field bag into a WorkItem.
// Precedence, per field:
//   - status: fields.status.name
//   - assignee: fields.assignee.displayName, then fields.assignee.name
//   - story points: the storyPointFields ids, first non-null number wins
func decodeIssue(issue issueEntry) domain.WorkItem {
	item := domain.WorkItem{
		Key:    issue.Key,
		Fields: issue.Fields,
	}

	item.Summary = stringField(issue.Fields, "summary")
	item.Status = nestedStringField(issue.Fields, "status", "name")
	item.IssueType = nestedStringField(issue.Fields, "issuetype", "name")

	item.Assignee = nestedStringField(issue.Fields, "assignee", "displayName")
	if item.Assignee == "" {
		item.Assignee = nestedStringField(issue.Fields, "assignee", "name")
	}

	for _, id := range strings.Split(storyPointFields, ",") {
		if points, ok := issue.Fields[id].(float64); ok {
			item.StoryPoints = points
			break
		}
	}

	return item
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func nestedStringField(fields map[string]any, key, sub string) string {
	nested, ok := fields[key].(map[string]any)
	if !ok {
		return ""
	}
	value, _ := nested[sub].(string)
	return value
}
