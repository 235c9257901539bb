package projections

import (
	"context"

	sessionStore "matchhub/internal/adapters/storage/session"
	"matchhub/internal/application/listutil"
	"matchhub/internal/domain/session"
)

// History filter keys.
const (
	FilterUser   = "user"
	FilterModule = "module"
	FilterState  = "state"
)

// HistoryFilterKeys lists the query parameters of the history page.
var HistoryFilterKeys = []string{FilterUser, FilterModule, FilterState}

// GetHistoryQuery carries input for the history projection.
type GetHistoryQuery struct {
	Filters map[string]string // from listutil.ParseFilters
	Page    listutil.PageParams
}

// GetHistoryDeps holds dependencies for the history projection.
type GetHistoryDeps struct {
	Sessions   SessionLister
	Curriculum CurriculumSource
}

// HistoryOptions are the values offered by each filter, "alle" first.
type HistoryOptions struct {
	Users   []string `json:"users"`
	Modules []string `json:"modules"`
	States  []string `json:"states"`
}

// HistoryEntry is one session with its module title.
type HistoryEntry struct {
	session.Session
	ModuleTitle string `json:"module_title"`
}

// HistoryResult carries one page of sessions.
type HistoryResult struct {
	Filters  map[string]string `json:"filters"`
	Options  HistoryOptions    `json:"options"`
	Sessions []HistoryEntry    `json:"sessions"`
	Matched  int               `json:"matched"`
	Total    int               `json:"total"`
	PageInfo listutil.PageInfo `json:"page_info"`
}

// QueryGetHistory lists all sessions, newest first, narrowed by user,
// module and state. Filter options come from the unfiltered list.
// PRE: deps are valid and non-nil
// POST: Options always start with listutil.All
func QueryGetHistory(ctx context.Context, query GetHistoryQuery, deps GetHistoryDeps) (HistoryResult, error) {
	filters := query.Filters
	if filters == nil {
		filters = map[string]string{}
	}
	for _, k := range HistoryFilterKeys {
		if filters[k] == "" {
			filters[k] = listutil.All
		}
	}
	result := HistoryResult{Filters: filters}

	all, err := deps.Sessions.List(ctx, sessionStore.ListFilter{})
	if err != nil {
		return result, err
	}
	cur, err := deps.Curriculum.Curriculum(ctx)
	if err != nil {
		return result, err
	}

	users, modules, states := map[string]bool{}, map[string]bool{}, map[string]bool{}
	user := listutil.Active(filters[FilterUser])
	module := listutil.Active(filters[FilterModule])
	state := listutil.Active(filters[FilterState])

	var matched []HistoryEntry
	for _, s := range all {
		users[s.User] = true
		modules[s.ModuleID] = true
		states[s.State] = true
		if (user != "" && s.User != user) || (module != "" && s.ModuleID != module) || (state != "" && s.State != state) {
			continue
		}
		entry := HistoryEntry{Session: s}
		if m, ok := cur.Module(s.ModuleID); ok {
			entry.ModuleTitle = m.Title
		}
		matched = append(matched, entry)
	}

	result.Options = HistoryOptions{
		Users:   append([]string{listutil.All}, sortedKeys(users)...),
		Modules: append([]string{listutil.All}, sortedKeys(modules)...),
		States:  append([]string{listutil.All}, sortedKeys(states)...),
	}
	result.Total = len(all)
	result.Matched = len(matched)
	result.Sessions, result.PageInfo = listutil.Paginate(matched, query.Page)
	return result, nil
}
