// Package derive computes the fields that depend on other extracted fields.
package derive

import (
	"fmt"

	"github.com/joseph-ayodele/inspection-extractor/constants"
	"github.com/joseph-ayodele/inspection-extractor/internal/entity"
)

// Regularization is SIM when both dates are known and the ART date is not
// earlier than the prior report date.
func Regularization(art, prior entity.Date) constants.Regularization {
	if art.IsZero() || prior.IsZero() {
		return constants.RegularizationNo
	}
	if art.Before(prior) {
		return constants.RegularizationNo
	}
	return constants.RegularizationYes
}

// Actions is the public "Ações" value: the activity-branch count of section 04.
// The citation count is tracked separately and never feeds this field.
func Actions(activityBranches int) int {
	if activityBranches < 0 {
		return 0
	}
	return activityBranches
}

// ProtocolPresent is 1 when a protocol number was extracted.
func ProtocolPresent(protocol string) int {
	if protocol == "" {
		return 0
	}
	return 1
}

// PhotoSummary renders the human-readable "Fotos" column.
func PhotoSummary(sectionFound bool, extracted int) string {
	switch {
	case extracted > 0 && sectionFound:
		return fmt.Sprintf("%d foto(s) extraída(s)", extracted)
	case extracted > 0:
		return fmt.Sprintf("%d foto(s) extraída(s) (sem seção explícita)", extracted)
	case sectionFound:
		return "Seção de fotos encontrada, mas nenhuma imagem extraída"
	default:
		return "Nenhuma seção de fotos encontrada e nenhuma imagem extraída"
	}
}
