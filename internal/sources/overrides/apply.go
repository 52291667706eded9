package overrides

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/logging"
	"github.com/agentstation/modcatalog/pkg/reconcile"
)

const manual = catalogs.SourceManual

// Apply reports every override in f to the engine as the manual source and
// returns the number of entries applied. Malformed entries are logged and
// skipped.
func Apply(ctx context.Context, engine *reconcile.Engine, f *File) int {
	ctx = logging.WithOperation(ctx, "apply_overrides")
	logger := logging.FromContext(ctx)
	applied := 0

	if f.Catalog != nil {
		applyCatalog(engine, f.Catalog)
		applied++
	}

	for i := range f.Mods {
		if err := applyMod(engine, &f.Mods[i]); err != nil {
			logging.FromContext(logging.WithMod(ctx, f.Mods[i].ID)).Warn().Err(err).Msg("Skipping mod override")
			continue
		}
		applied++
	}

	for i := range f.Authors {
		o := &f.Authors[i]
		if err := applyAuthor(engine, o); err != nil {
			logger.Warn().Err(err).Uint64("author_id", o.ID).Str("author_url", o.URL).Msg("Skipping author override")
			continue
		}
		applied++
	}

	for i := range f.Groups {
		if err := applyGroup(engine, &f.Groups[i], logger); err != nil {
			logger.Warn().Err(err).Uint64("group_id", f.Groups[i].ID).Msg("Skipping group override")
			continue
		}
		applied++
	}

	for i := range f.Compatibilities {
		o := &f.Compatibilities[i]
		if err := applyCompatibility(engine, o); err != nil {
			logger.Warn().Err(err).
				Uint64("first_mod_id", o.FirstModID).
				Uint64("second_mod_id", o.SecondModID).
				Msg("Skipping compatibility override")
			continue
		}
		applied++
	}
	return applied
}

func applyCatalog(engine *reconcile.Engine, texts *CatalogTexts) {
	if texts.Note != nil {
		engine.SetCatalogNote(*texts.Note)
	}
	if texts.ReportHeader != nil {
		engine.SetReportHeader(*texts.ReportHeader)
	}
	if texts.ReportFooter != nil {
		engine.SetReportFooter(*texts.ReportFooter)
	}
}

func applyMod(engine *reconcile.Engine, o *ModOverride) error {
	if o.ID == 0 {
		return &errors.ValidationError{Field: "id", Message: "required"}
	}
	patch, err := o.patch()
	if err != nil {
		return err
	}
	addStatuses, err := parseStatuses(o.AddStatuses)
	if err != nil {
		return err
	}
	removeStatuses, err := parseStatuses(o.RemoveStatuses)
	if err != nil {
		return err
	}
	addDLC, err := parseDLCs(o.AddRequiredDLC)
	if err != nil {
		return err
	}
	removeDLC, err := parseDLCs(o.RemoveRequiredDLC)
	if err != nil {
		return err
	}

	id := catalogs.ID(o.ID)
	m, ok := engine.Catalog().Mod(id)
	if !ok {
		if o.Name == nil {
			return &errors.NotFoundError{Resource: "mod", ID: id.String()}
		}
		if m, err = engine.GetOrAddMod(id, *o.Name, reconcile.FlagUnlisted); err != nil {
			return err
		}
	}

	if _, err := engine.UpdateMod(m, patch, manual); err != nil {
		return err
	}

	for _, s := range removeStatuses {
		engine.RemoveStatus(m, s, manual)
	}
	for _, s := range addStatuses {
		engine.AddStatus(m, s, manual)
	}
	for _, dlc := range removeDLC {
		engine.RemoveRequiredDLC(m, dlc, manual)
	}
	for _, dlc := range addDLC {
		engine.AddRequiredDLC(m, dlc, manual)
	}
	for _, req := range o.RemoveRequiredMods {
		engine.RemoveRequiredMod(m, catalogs.ID(req), manual)
	}
	for _, req := range o.AddRequiredMods {
		engine.AddRequiredMod(m, catalogs.ID(req), manual)
	}

	relations := []struct {
		ids []uint64
		fn  func(*catalogs.Mod, catalogs.ID) bool
	}{
		{o.RemoveSuccessors, engine.RemoveSuccessor},
		{o.AddSuccessors, engine.AddSuccessor},
		{o.RemoveAlternatives, engine.RemoveAlternative},
		{o.AddAlternatives, engine.AddAlternative},
		{o.RemoveRecommendations, engine.RemoveRecommendation},
		{o.AddRecommendations, engine.AddRecommendation},
	}
	for _, r := range relations {
		for _, other := range r.ids {
			r.fn(m, catalogs.ID(other))
		}
	}
	return nil
}

func (o *ModOverride) patch() (reconcile.ModPatch, error) {
	patch := reconcile.ModPatch{
		Name:                  o.Name,
		AuthorID:              o.AuthorID,
		AuthorURL:             o.AuthorURL,
		SourceURL:             o.SourceURL,
		CompatibleGameVersion: o.GameVersion,
		StabilityNote:         o.StabilityNote,
		Note:                  o.Note,
		MarkReviewed:          o.Reviewed,
	}
	if o.Stability != nil {
		stability := catalogs.Stability(*o.Stability)
		if !stability.IsValid() {
			return patch, &errors.ValidationError{Field: "stability", Value: *o.Stability, Message: "unknown stability"}
		}
		patch.Stability = &stability
	}
	return patch, nil
}

func parseStatuses(names []string) ([]catalogs.Status, error) {
	statuses := make([]catalogs.Status, 0, len(names))
	for _, name := range names {
		s := catalogs.Status(name)
		if !s.IsValid() {
			return nil, &errors.ValidationError{Field: "status", Value: name, Message: "unknown status"}
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}

func parseDLCs(names []string) ([]catalogs.DLC, error) {
	dlcs := make([]catalogs.DLC, 0, len(names))
	for _, name := range names {
		dlc, ok := catalogs.ParseDLC(name)
		if !ok || dlc == 0 {
			return nil, &errors.ValidationError{Field: "dlc", Value: name, Message: "unknown DLC"}
		}
		dlcs = append(dlcs, dlc)
	}
	return dlcs, nil
}

func applyAuthor(engine *reconcile.Engine, o *AuthorOverride) error {
	name := ""
	if o.Name != nil {
		name = *o.Name
	}
	a, err := engine.GetOrAddAuthor(o.ID, o.URL, name)
	if err != nil {
		return err
	}
	_, err = engine.UpdateAuthor(a, reconcile.AuthorPatch{
		ProfileID: o.ProfileID,
		Retired:   o.Retired,
	}, manual)
	return err
}

func applyGroup(engine *reconcile.Engine, o *GroupOverride, logger *zerolog.Logger) error {
	members := make([]catalogs.ID, 0, len(o.AddMembers))
	for _, id := range o.AddMembers {
		members = append(members, catalogs.ID(id))
	}

	if o.ID == 0 {
		if o.Remove {
			return &errors.ValidationError{Field: "id", Message: "required to remove a group"}
		}
		_, err := engine.AddGroup(o.Name, members, manual)
		return err
	}

	g, ok := engine.Catalog().Group(catalogs.ID(o.ID))
	if !ok {
		return &errors.NotFoundError{Resource: "group", ID: catalogs.ID(o.ID).String()}
	}
	if o.Remove {
		engine.RemoveGroup(g)
		return nil
	}
	if o.Name != "" && o.Name != g.Name {
		logger.Warn().Uint64("group_id", o.ID).Str("name", o.Name).Msg("Group names are set at creation; ignoring new name")
	}
	for _, id := range o.RemoveMembers {
		engine.RemoveGroupMember(g, catalogs.ID(id), manual)
	}
	for _, id := range members {
		engine.AddGroupMember(g, id, manual)
	}
	return nil
}

func applyCompatibility(engine *reconcile.Engine, o *CompatibilityOverride) error {
	status := catalogs.CompatibilityStatus(o.Status)
	if !status.IsValid() {
		return &errors.ValidationError{Field: "status", Value: o.Status, Message: "unknown compatibility status"}
	}
	first, second := catalogs.ID(o.FirstModID), catalogs.ID(o.SecondModID)
	if o.Remove {
		if !engine.RemoveCompatibility(first, second, status) {
			return &errors.NotFoundError{Resource: "compatibility", ID: first.String() + "/" + second.String() + "/" + o.Status}
		}
		return nil
	}
	_, err := engine.AddCompatibility(first, second, status, o.Note)
	return err
}
