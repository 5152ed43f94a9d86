// File: internal/actionspace/llm.go
package actionspace

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/api/schemas"
	"github.com/pagelens/pagelens/internal/dom"
)

// TaggingConfig carries the tuning knobs of the incremental tagger. The
// numeric defaults were tuned empirically; deployments override them through
// configuration rather than code.
type TaggingConfig struct {
	// Coverage is the required ratio of covered interactive nodes, in (0, 1].
	Coverage float64
	// MinTrials is the floor of the retry budget.
	MinTrials int
	// NodesPerTrial grants one extra trial per this many interactive nodes.
	NodesPerTrial int
	// ExcludedRoles are removed from the tagging context before any pass.
	ExcludedRoles []string
	// ClassifyCategory enables the post-coverage page classifier call.
	ClassifyCategory bool
	// ListingTier and CategoryTier route the two call kinds to model tiers.
	ListingTier  schemas.ModelTier
	CategoryTier schemas.ModelTier
}

// DefaultTaggingConfig returns the tuned defaults: 95% coverage, at least
// three trials, one extra trial per 50 nodes, images excluded.
func DefaultTaggingConfig() TaggingConfig {
	return TaggingConfig{
		Coverage:         0.95,
		MinTrials:        3,
		NodesPerTrial:    50,
		ExcludedRoles:    dom.ImageRoleNames(),
		ClassifyCategory: true,
		ListingTier:      schemas.TierPowerful,
		CategoryTier:     schemas.TierFast,
	}
}

// LLMTagger is the incremental, budget-aware tagging strategy. Each build
// call runs the delta computation, description request, coverage check and
// retry loop; across calls the caller threads the previous action list back
// in to keep description cost proportional to page change.
type LLMTagger struct {
	client schemas.LLMClient
	cfg    TaggingConfig
	logger *zap.Logger
}

// NewLLMTagger creates the model-backed strategy.
func NewLLMTagger(client schemas.LLMClient, cfg TaggingConfig, logger *zap.Logger) *LLMTagger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Coverage <= 0 || cfg.Coverage > 1 {
		cfg.Coverage = DefaultTaggingConfig().Coverage
	}
	if cfg.MinTrials <= 0 {
		cfg.MinTrials = DefaultTaggingConfig().MinTrials
	}
	if cfg.NodesPerTrial <= 0 {
		cfg.NodesPerTrial = DefaultTaggingConfig().NodesPerTrial
	}
	return &LLMTagger{client: client, cfg: cfg, logger: logger.Named("llm_tagger")}
}

// Build implements Builder.
func (t *LLMTagger) Build(ctx context.Context, snap *dom.Snapshot, previous []PerceivedAction, page Pagination) (*ActionSpace, error) {
	root := snap.Root
	if len(t.cfg.ExcludedRoles) > 0 {
		filtered, err := root.SubtreeWithoutRoles(snap.Metadata.URL, t.cfg.ExcludedRoles...)
		if err != nil {
			return nil, err
		}
		root = filtered
	}

	nodes := root.InteractionNodes()
	presentIDs := make(map[string]struct{}, len(nodes))
	docOrder := make([]string, 0, len(nodes))
	for _, n := range nodes {
		presentIDs[n.ID] = struct{}{}
		docOrder = append(docOrder, n.ID)
	}

	trials := t.retryBudget(len(nodes), page.EffectiveMax())
	baseline := filterPresent(previous, presentIDs)
	description := ""

	for trial := 1; trial <= trials; trial++ {
		delta := root.SubtreeWithoutIDs(coveredSet(baseline))
		var merged []PerceivedAction
		if delta == nil {
			// Everything still present is already described. No call.
			merged = baseline
		} else {
			desc, tagged, err := t.requestListing(ctx, snap.Metadata.URL, root, delta, baseline)
			if err != nil {
				return nil, err
			}
			if desc != "" {
				description = desc
			}
			merged = mergeActions(baseline, tagged, presentIDs)
		}

		if t.coverageMet(merged, docOrder, page) {
			return t.finish(ctx, snap, root, description, merged)
		}
		t.logger.Info("coverage check failed, retrying",
			zap.String("url", snap.Metadata.URL),
			zap.Int("trial", trial),
			zap.Int("covered", len(merged)),
			zap.Int("total", len(nodes)))
		baseline = merged
	}

	return nil, &NotEnoughActionsListedError{
		Trials:     trials,
		TotalNodes: len(nodes),
		Threshold:  t.cfg.Coverage,
	}
}

// retryBudget scales with page size: one extra trial per NodesPerTrial
// interactive nodes, never below MinTrials, capped by the action limit.
func (t *LLMTagger) retryBudget(nbNodes, maxActions int) int {
	trials := nbNodes / t.cfg.NodesPerTrial
	if trials < t.cfg.MinTrials {
		trials = t.cfg.MinTrials
	}
	if limit := maxActions/t.cfg.NodesPerTrial + 1; trials > limit && limit >= t.cfg.MinTrials {
		trials = limit
	}
	return trials
}

// coverageMet applies either the first-k presence check or the ratio check.
func (t *LLMTagger) coverageMet(merged []PerceivedAction, docOrder []string, page Pagination) bool {
	covered := coveredSet(merged)
	if k := page.MinActions; k > 0 {
		if k > len(docOrder) {
			k = len(docOrder)
		}
		for _, id := range docOrder[:k] {
			if _, ok := covered[id]; !ok {
				return false
			}
		}
		return true
	}

	required := int(float64(len(docOrder)) * t.cfg.Coverage)
	if max := page.EffectiveMax(); required > max {
		required = max
	}
	return len(covered) >= required
}

func (t *LLMTagger) requestListing(ctx context.Context, url string, root, delta *dom.Node, baseline []PerceivedAction) (string, []PerceivedAction, error) {
	var userPrompt string
	if len(baseline) > 0 {
		known := make([]string, 0, len(baseline))
		for _, a := range baseline {
			known = append(known, fmt.Sprintf("* %s: %s", a.ID, a.Description))
		}
		userPrompt = fmt.Sprintf(incrementalListingPrompt, url, strings.Join(known, "\n"), RenderTree(delta))
	} else {
		userPrompt = fmt.Sprintf(fullListingPrompt, url, RenderTree(root))
	}

	resp, err := t.client.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: listingSystemPrompt,
		UserPrompt:   userPrompt,
		Tier:         t.cfg.ListingTier,
	})
	if err != nil {
		return "", nil, fmt.Errorf("requesting action listing: %w", err)
	}
	actions, err := ParseActionTable(resp)
	if err != nil {
		return "", nil, fmt.Errorf("parsing action listing: %w", err)
	}
	return ParseWebpageDescription(resp), actions, nil
}

// finish orders the merged list, optionally classifies the page and seals the
// space. The classifier only runs here, after coverage succeeded, so an
// incomplete space never costs a classification call. The description comes
// from the listing response; page metadata stands in when the response
// carried none (pure-baseline builds make no call at all).
func (t *LLMTagger) finish(ctx context.Context, snap *dom.Snapshot, root *dom.Node, description string, merged []PerceivedAction) (*ActionSpace, error) {
	byID := make(map[string]PerceivedAction, len(merged))
	for _, a := range merged {
		byID[a.ID] = a
	}
	ordered := make([]PerceivedAction, 0, len(merged))
	for _, n := range root.InteractionNodes() {
		if a, ok := byID[n.ID]; ok {
			ordered = append(ordered, a)
		}
	}

	if description == "" {
		description = fmt.Sprintf("%s (%s)", snap.Metadata.Title, snap.Metadata.URL)
	}
	space := &ActionSpace{
		Description: description,
		Actions:     ordered,
	}
	if err := space.Validate(); err != nil {
		return nil, fmt.Errorf("tagged action space is invalid: %w", err)
	}

	if t.cfg.ClassifyCategory {
		category, err := t.classify(ctx, root)
		if err != nil {
			// Classification is best effort; the space stands without it.
			t.logger.Warn("page classification failed", zap.Error(err))
		} else {
			space.Category = category
		}
	}
	return space, nil
}

func (t *LLMTagger) classify(ctx context.Context, root *dom.Node) (SpaceCategory, error) {
	resp, err := t.client.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: categorySystemPrompt,
		UserPrompt:   RenderTree(root),
		Tier:         t.cfg.CategoryTier,
	})
	if err != nil {
		return "", err
	}
	return ParseSpaceCategory(resp), nil
}

// -- Merge helpers --

func coveredSet(actions []PerceivedAction) map[string]struct{} {
	out := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		out[a.ID] = struct{}{}
	}
	return out
}

func filterPresent(actions []PerceivedAction, present map[string]struct{}) []PerceivedAction {
	out := make([]PerceivedAction, 0, len(actions))
	for _, a := range actions {
		if _, ok := present[a.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// mergeActions combines a baseline with a fresh tagging pass. Fresh actions
// win on conflict; baseline actions for nodes still present and not
// re-covered carry forward unchanged, preserving description continuity.
func mergeActions(baseline, fresh []PerceivedAction, present map[string]struct{}) []PerceivedAction {
	seen := make(map[string]struct{}, len(fresh))
	out := make([]PerceivedAction, 0, len(baseline)+len(fresh))
	for _, a := range fresh {
		if _, ok := present[a.ID]; !ok {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	for _, a := range baseline {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		if _, ok := present[a.ID]; !ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
