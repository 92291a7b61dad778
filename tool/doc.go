// Package tool holds the caller-owned side of tool calling.
//
// A provider.Client only ever sees tool descriptors. Running a tool the model
// selected is the caller's job, and Registry is where the caller keeps the
// executables:
//
//	type SearchArgs struct {
//	    Query string `json:"query" jsonschema:"description=What to look for"`
//	    Limit int    `json:"limit,omitempty"`
//	}
//
//	reg := tool.NewRegistry()
//	reg.Add(tool.New("search", "Search the docs", func(ctx context.Context, a SearchArgs) (string, error) {
//	    return search(ctx, a.Query, a.Limit)
//	}))
//
//	d, err := client.Complete(ctx, provider.NewRequest(history, reg.Tools()...))
//	if inv, ok := d.(provider.ToolInvocation); ok {
//	    history = append(history, reg.ExecuteAll(ctx, inv)...)
//	}
package tool
