package utils

import (
	"slices"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/query"
)

const EventsCachePrefix = "events:"

// BuildEventsQueryCacheKey is stable under clause reordering so equivalent
// filters share one entry. extra carries view parameters such as the month.
func BuildEventsQueryCacheKey(view string, f query.Filter, extra ...string) string {
	themes := make([]string, 0, len(f.Themes))
	for _, t := range f.Themes {
		themes = append(themes, string(t))
	}
	audiences := make([]string, 0, len(f.Audiences))
	for _, a := range f.Audiences {
		audiences = append(audiences, string(a))
	}
	modalities := make([]string, 0, len(f.Modalities))
	for _, m := range f.Modalities {
		modalities = append(modalities, string(m))
	}
	campuses := make([]string, 0, len(f.Campuses))
	for _, c := range f.Campuses {
		campuses = append(campuses, strings.ToLower(strings.TrimSpace(c)))
	}

	from, to := "", ""
	if f.DateRange != nil {
		if f.DateRange.Start != nil {
			from = f.DateRange.Start.UTC().Format(time.RFC3339Nano)
		}
		if f.DateRange.End != nil {
			to = f.DateRange.End.UTC().Format(time.RFC3339Nano)
		}
	}

	return EventsCachePrefix + "query:v1:view=" + view +
		":theme=" + joinSorted(themes) +
		":audience=" + joinSorted(audiences) +
		":modality=" + joinSorted(modalities) +
		":campus=" + joinSorted(campuses) +
		":from=" + from +
		":to=" + to +
		":q=" + strings.ToLower(strings.TrimSpace(f.Search)) +
		":" + strings.Join(extra, ":")
}

func joinSorted(vals []string) string {
	slices.Sort(vals)
	return strings.Join(slices.Compact(vals), ",")
}
