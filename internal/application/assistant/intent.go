package assistant

import (
	"regexp"
	"strings"

	"darion/internal/domain/integration"
	"darion/internal/domain/sorter"
)

// Intent is what the user asked for
type Intent string

const (
	IntentSortFiles    Intent = "sort_files"
	IntentSyncOutlook  Intent = "sync_outlook"
	IntentSyncOneDrive Intent = "sync_onedrive"
	IntentSyncGmail    Intent = "sync_gmail"
	IntentSyncCalendar Intent = "sync_calendar"
	IntentSyncAll      Intent = "sync_all"
	IntentGeneral      Intent = "general_query"
)

// syncTargets maps sync intents to sync service targets
var syncTargets = map[Intent]string{
	IntentSyncOutlook:  integration.TargetOutlook,
	IntentSyncOneDrive: integration.TargetOneDrive,
	IntentSyncGmail:    integration.TargetGmail,
	IntentSyncCalendar: integration.TargetTimeTree,
	IntentSyncAll:      integration.TargetAll,
}

// Command is a parsed query
type Command struct {
	Intent Intent
	Sort   sorter.SortRequest
}

var (
	sortWords = []string{"sort", "organize", "arrange"}
	syncWords = []string{"sync", "synchronize"}

	criteriaPhrases = []struct {
		phrase    string
		criterion sorter.Criterion
	}{
		{"by type", sorter.CriterionType},
		{"by date", sorter.CriterionDate},
		{"by size", sorter.CriterionSize},
		{"by name", sorter.CriterionName},
	}

	// from <src> to|into <dst>, paths may be quoted
	dirsPattern = regexp.MustCompile(`(?i)\bfrom\s+("[^"]+"|'[^']+'|\S+)\s+(?:to|into)\s+("[^"]+"|'[^']+'|\S+)`)
)

// ParseIntent maps a free text query to a command with keyword rules.
// Sorting wins over syncing; the first matching sync keyword wins.
func ParseIntent(query string) Command {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, sortWords...):
		return Command{Intent: IntentSortFiles, Sort: parseSortRequest(query, q)}
	case strings.Contains(q, "outlook"):
		return Command{Intent: IntentSyncOutlook}
	case strings.Contains(q, "onedrive"):
		return Command{Intent: IntentSyncOneDrive}
	case strings.Contains(q, "gmail"):
		return Command{Intent: IntentSyncGmail}
	case containsAny(q, "calendar", "timetree"):
		return Command{Intent: IntentSyncCalendar}
	case containsAny(q, syncWords...):
		return Command{Intent: IntentSyncAll}
	}
	return Command{Intent: IntentGeneral}
}

func parseSortRequest(query, lower string) sorter.SortRequest {
	req := sorter.SortRequest{
		Criterion: sorter.CriterionType,
		Recursive: !containsAny(lower, "non-recursive", "non recursive", "top level", "top-level"),
	}
	for _, c := range criteriaPhrases {
		if strings.Contains(lower, c.phrase) {
			req.Criterion = c.criterion
			break
		}
	}
	if m := dirsPattern.FindStringSubmatch(query); m != nil {
		req.SourceDir = cleanPath(m[1])
		req.DestDir = cleanPath(m[2])
	}
	return req
}

func cleanPath(p string) string {
	if len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0] {
		return p[1 : len(p)-1]
	}
	if trimmed := strings.TrimRight(p, ".,;!?"); trimmed != "" {
		return trimmed
	}
	return p
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
