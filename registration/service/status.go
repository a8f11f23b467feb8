// registration/service/status.go
package service

import "github.com/gripclub/registration-service/shared/models"

// MinPilots is the roster size at which a registration becomes reviewable.
const MinPilots = 4

// NextStatus is the automatic lifecycle rule applied after every pilot
// add or remove. It only ever moves a team between draft and pending:
// confirmed and cancelled are admin decisions and are never touched.
// The rule is idempotent, so re-running it after any roster mutation is safe.
func NextStatus(current models.RegistrationStatus, pilotCount int) models.RegistrationStatus {
	switch current {
	case models.StatusDraft:
		if pilotCount >= MinPilots {
			return models.StatusPending
		}
		return models.StatusDraft
	case models.StatusPending:
		if pilotCount < MinPilots {
			return models.StatusDraft
		}
		return models.StatusPending
	default:
		return current
	}
}
