package chunk

import "github.com/phobologic/semchunk/internal/model"

// focusOrder fixes the emission order of focus tags so chunk output is
// deterministic.
var focusOrder = []model.ReviewFocus{
	model.FocusMaintainability,
	model.FocusArchitecture,
	model.FocusSecurity,
	model.FocusPerformance,
	model.FocusTypeSafety,
	model.FocusDocumentation,
	model.FocusErrorHandling,
}

// intentFocus is the base tag table per review intent.
var intentFocus = map[model.ReviewIntent][]model.ReviewFocus{
	model.IntentQuickFixes:   {model.FocusMaintainability, model.FocusPerformance},
	model.IntentArchitecture: {model.FocusArchitecture, model.FocusTypeSafety, model.FocusMaintainability},
	model.IntentSecurity:     {model.FocusSecurity, model.FocusErrorHandling},
	model.IntentPerformance:  {model.FocusPerformance, model.FocusMaintainability},
	model.IntentUnusedCode:   {model.FocusMaintainability},
}

func baseFocus(intent model.ReviewIntent) []model.ReviewFocus {
	if tags, ok := intentFocus[intent]; ok {
		return append([]model.ReviewFocus(nil), tags...)
	}
	return []model.ReviewFocus{model.FocusMaintainability}
}

// focus unions the intent's base tags with structural additions: classes
// add architecture and type safety, complexity over 10 adds
// maintainability, non-internal exports add documentation.
func (b *Builder) focus(decls []model.Declaration) []model.ReviewFocus {
	set := make(map[model.ReviewFocus]bool)
	for _, f := range baseFocus(b.intent) {
		set[f] = true
	}
	for i := range decls {
		d := &decls[i]
		if d.Kind == model.KindClass {
			set[model.FocusArchitecture] = true
			set[model.FocusTypeSafety] = true
		}
		if d.Complexity > 10 {
			set[model.FocusMaintainability] = true
		}
		if d.Export != model.ExportInternal {
			set[model.FocusDocumentation] = true
		}
	}

	var out []model.ReviewFocus
	for _, f := range focusOrder {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}
