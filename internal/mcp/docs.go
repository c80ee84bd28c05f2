package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `wandernest plans family trips: Trips hold Activities and Budget Categories.

Core concepts:
- Trip: destination, inclusive date range (YYYY-MM-DD), total budget, categories, activities.
- Activity: a costed event with a category (food, adventure, culture, relax, transit).
- Budget Category: allocated amount plus a derived spent amount. Spent is recomputed from
  activities on every change; never try to set it directly.

Workflow:
1) Orient with list_trips or get_overview.
2) Add or edit activities with save_activity; remove with delete_activity.
3) Rebalance money with update_budget (the total becomes the sum of allocations).
4) Check spend with get_analytics.
5) sync_status tells you whether writes also go to a remote database.

Docs:
- wandernest://docs/budget (how spend is assigned to categories)
- wandernest://docs/sync (local-first storage and remote sync)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "wandernest://docs/budget",
		Name:        "docs_budget",
		Title:       "Budget allocation",
		Description: "How activity costs are charged to budget categories.",
		Content: `# Budget allocation

Every activity charges its full cost to exactly one budget category.

## Category to role

| Activity category | Budget role |
|---|---|
| food | food |
| transit | transportation |
| adventure, culture | activities |
| relax | accommodation |

A budget category's role is its explicit ` + "`role`" + ` field, or else inferred from its
name (case-insensitive): "food"; "transport"; "activit"; "accomm" or "hotel".

## Selection

1. The first category whose role matches wins.
2. No match: the first category (index 0) absorbs the cost.
3. No categories at all: the cost is not charged anywhere.

Spent amounts are recomputed from scratch, so repeating the computation never
changes the result.

## Defaults

A new trip without categories gets Accommodation 35%, Transportation 25%,
Food 20%, Activities 20% of the total budget.
`,
	},
	{
		URI:         "wandernest://docs/sync",
		Name:        "docs_sync",
		Title:       "Local-first sync",
		Description: "Local-only vs cloud-connected modes and what happens to writes.",
		Content: `# Local-first sync

Trips always live in the local cache. When a remote database is connected,
every write is also forwarded to it.

- Local-only: writes go to the local cache only.
- Cloud-connected: writes go to the local cache, then to the remote store.
  A failed remote write is logged and recorded as failed; the local change stays.
- The first remote snapshot replaces local trips, unless the remote is empty,
  in which case local trips are pushed to it.
- Conflicts are last-writer-wins.

Use ` + "`sync_to_cloud`" + ` to push every local trip again.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
