// Package ranking builds and stores the "best known model per task" cache.
package ranking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"autodevstack/pkg/types"
)

// Criteria controls which Hub models are eligible.
type Criteria struct {
	MinLikes          int
	ExcludeNSFW       bool
	ExcludeDeprecated bool
	ExcludePrivate    bool
	ExcludeGated      bool
}

// DefaultCriteria excludes nsfw, deprecated, private and gated models and
// requires at least 100 likes.
func DefaultCriteria() Criteria {
	return Criteria{MinLikes: 100, ExcludeNSFW: true, ExcludeDeprecated: true, ExcludePrivate: true, ExcludeGated: true}
}

// IsAvailable reports whether m passes c.
func IsAvailable(m types.HubModel, c Criteria) bool {
	if c.ExcludeDeprecated && m.Deprecated {
		return false
	}
	if c.ExcludeNSFW && hasTag(m.SafeTags, "nsfw") {
		return false
	}
	if c.ExcludePrivate && m.Private {
		return false
	}
	if c.ExcludeGated && bool(m.Gated) {
		return false
	}
	if m.Likes < c.MinLikes {
		return false
	}
	return m.PipelineTag != ""
}

// Explain renders the human-readable provenance of a ranked model.
func Explain(m types.HubModel) string {
	vis := "public"
	if m.Private {
		vis = "private"
	}
	if m.Gated {
		vis += ", gated"
	}
	if m.Deprecated {
		vis += ", deprecated"
	}
	return fmt.Sprintf("Model: %s\nLikes: %d\nDownloads: %d\nPipeline: %s\nLast modified: %s\n%s",
		m.ID, m.Likes, m.Downloads, m.PipelineTag, m.LastModified.UTC().Format(time.RFC3339), vis)
}

// less orders by likes, then downloads, then most recent modification.
func less(a, b types.HubModel) bool {
	if a.Likes != b.Likes {
		return a.Likes > b.Likes
	}
	if a.Downloads != b.Downloads {
		return a.Downloads > b.Downloads
	}
	return a.LastModified.After(b.LastModified)
}

// SelectBest groups eligible models by pipeline tag and keeps the top one per task.
func SelectBest(models []types.HubModel, c Criteria, now time.Time) types.BestModels {
	byTask := make(map[string][]types.HubModel)
	for _, m := range models {
		if !IsAvailable(m, c) {
			continue
		}
		byTask[m.PipelineTag] = append(byTask[m.PipelineTag], m)
	}
	best := make(map[string]types.RankedModel, len(byTask))
	for task, ms := range byTask {
		sort.SliceStable(ms, func(i, j int) bool { return less(ms[i], ms[j]) })
		top := ms[0]
		best[task] = types.RankedModel{
			ID:      top.ID,
			Explain: Explain(top),
			Meta: types.ModelMeta{
				Likes:        top.Likes,
				Downloads:    top.Downloads,
				LastModified: top.LastModified,
				Private:      top.Private,
				Gated:        bool(top.Gated),
				Deprecated:   top.Deprecated,
			},
		}
	}
	return types.BestModels{LastUpdated: now.UTC(), Best: best}
}

// Tasks returns the task names of doc in sorted order.
func Tasks(doc types.BestModels) []string {
	out := make([]string, 0, len(doc.Best))
	for k := range doc.Best {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
