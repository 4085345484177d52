package onboarding

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/model"
)

// RunChecklistResearch runs the checklist customization phase: research
// the provider, ask the LLM which facts are missing or inapplicable,
// and apply the proposed modifications. The phase runs at most once per
// session; checklist_research_completed is monotonic and later phases
// never re-enter customization. Research and LLM failures degrade to an
// empty modification set rather than failing the session.
func (m *Manager) RunChecklistResearch(ctx context.Context, state *model.OnboardingState) model.WorkflowDecision {
	if state.ChecklistResearchCompleted {
		return model.DecisionProceedToAnswerResearch
	}

	log := zap.L().With(zap.String("session_id", state.SessionID))
	state.WorkflowStatus = model.WorkflowResearchingChecklist

	var findings []model.ResearchFinding
	queries, err := m.llm.GenerateSearchQueries(ctx,
		"identify which onboarding facts apply to this service provider",
		state.ResearchContent)
	if err != nil {
		log.Warn("onboarding: checklist research query generation failed", zap.Error(err))
	} else {
		findings = m.gatherFindings(ctx, queries.Queries)
	}

	mods := &model.ExtractChecklistModificationsResponse{}
	extracted, err := m.llm.ExtractChecklistModifications(ctx, state.Checklist, findings)
	if err != nil {
		// Degrade to an unmodified checklist; the initial generation
		// already produced a usable one.
		log.Warn("onboarding: checklist modification extraction failed", zap.Error(err))
	} else {
		mods = extracted
	}

	applyModifications(state, mods)

	now := m.now()
	state.ChecklistResearchResults = findings
	state.ChecklistResearchCompleted = true
	state.ChecklistResearchTimestamp = model.Timestamp(now)
	state.WorkflowStatus = model.WorkflowResearchingAnswers
	state.ResearchEvaluationDecision = model.DecisionProceedToAnswerResearch
	state.RecomputeMetrics()
	state.Touch(now)

	log.Info("onboarding: checklist customization complete",
		zap.Int("findings", len(findings)),
		zap.Int("modifications", len(state.ChecklistModifications)),
		zap.Int("checklist_items", len(state.Checklist)),
	)
	return model.DecisionProceedToAnswerResearch
}

// applyModifications applies a proposed modification set in fixed
// order: mandatory additions, recommended additions, removals.
// Additions dedup by key against the current checklist; removing an
// absent key is a no-op. Every proposal, applied or skipped, is
// recorded in checklist_modifications. Applying the same set twice
// yields the same checklist as applying it once.
func applyModifications(state *model.OnboardingState, mods *model.ExtractChecklistModificationsResponse) {
	addItems := func(proposals []model.ProposedModification, required bool, kind string) {
		for _, p := range proposals {
			key := model.Slugify(p.Key)
			record := model.ChecklistModification{Key: key, Type: kind, Reason: p.Reason}
			if model.FindItem(state.Checklist, key) != nil {
				record.Action = "skipped_duplicate"
				state.ChecklistModifications = append(state.ChecklistModifications, record)
				continue
			}
			item := model.RawChecklistItem{Key: key, Prompt: p.Question, Required: &required}.Normalize()
			state.Checklist = append(state.Checklist, item)
			record.Action = "added"
			state.ChecklistModifications = append(state.ChecklistModifications, record)
		}
	}

	addItems(mods.MandatoryAdditions, true, "mandatory")
	addItems(mods.RecommendedAdditions, false, "recommended")

	for _, p := range mods.ItemsToRemove {
		key := model.Slugify(p.Key)
		record := model.ChecklistModification{Key: key, Type: "removal", Reason: p.Reason}
		if model.FindItem(state.Checklist, key) == nil {
			record.Action = "skipped_absent"
			state.ChecklistModifications = append(state.ChecklistModifications, record)
			continue
		}
		kept := state.Checklist[:0]
		for _, item := range state.Checklist {
			if item.Key != key {
				kept = append(kept, item)
			}
		}
		state.Checklist = kept
		record.Action = "removed"
		state.ChecklistModifications = append(state.ChecklistModifications, record)
	}
}
