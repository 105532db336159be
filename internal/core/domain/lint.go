package domain

import "fmt"

// LintWarning is a non-fatal finding about stage ordering.
type LintWarning struct {
	Stage   string
	Message string
}

func (w LintWarning) String() string {
	return w.Stage + ": " + w.Message
}

// LintOrdering reports stage orderings that defeat layer reuse. Frequently changing
// stages (copying the payload) should come after rarely changing ones (system packages,
// the identity and the dependency manifest).
func LintOrdering(stages []Stage) []LintWarning {
	var warnings []LintWarning

	firstCopy := ""
	for _, st := range stages {
		hasCopy := st.HasKind(ActionCopy)
		hasDeps := st.HasKind(ActionPackages) || st.HasKind(ActionManifest)

		if hasCopy && st.HasKind(ActionManifest) {
			warnings = append(warnings, LintWarning{
				Stage:   st.Name,
				Message: "copies files and installs the dependency manifest in one stage; payload changes will reinstall dependencies",
			})
		}
		if hasDeps && firstCopy != "" && firstCopy != st.Name {
			warnings = append(warnings, LintWarning{
				Stage:   st.Name,
				Message: fmt.Sprintf("installs dependencies after copy stage %q; payload changes will invalidate this layer", firstCopy),
			})
		}
		if st.HasKind(ActionPrune) && !hasDeps && !st.HasKind(ActionRun) {
			warnings = append(warnings, LintWarning{
				Stage:   st.Name,
				Message: "prunes paths in a stage that installs nothing; earlier layers keep their size",
			})
		}
		if hasCopy && firstCopy == "" {
			firstCopy = st.Name
		}
	}
	return warnings
}
