package deal

import (
	"fmt"
	"slices"

	"git.appkode.ru/pub/go/failure"

	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
)

// transitions - разрешённые переходы статусов. posted -> posted нужен для
// принудительной повторной публикации.
var transitions = map[entity.DealStatus][]entity.DealStatus{ //nolint:gochecknoglobals
	entity.DealStatusNew: {
		entity.DealStatusScored,
		entity.DealStatusPendingApproval,
		entity.DealStatusApproved,
	},
	entity.DealStatusScored:          {entity.DealStatusApproved, entity.DealStatusRejected},
	entity.DealStatusPendingApproval: {entity.DealStatusApproved, entity.DealStatusRejected},
	entity.DealStatusRejected:        {entity.DealStatusApproved, entity.DealStatusRejected},
	entity.DealStatusApproved:        {entity.DealStatusPosted, entity.DealStatusRejected},
	entity.DealStatusPosted:          {entity.DealStatusPosted},
}

func CanTransition(from, to entity.DealStatus) bool {
	return slices.Contains(transitions[from], to)
}

// Transition проверяет переход и меняет статус сделки. В scored,
// pending_approval и approved нельзя попасть без результата скоринга.
func Transition(d *entity.Deal, to entity.DealStatus) error {
	if !CanTransition(d.Status, to) {
		return failure.NewConflictError(
			fmt.Sprintf("deal %d: transition %s -> %s is not allowed", d.ID, d.Status, to),
			failure.WithCode(errcodes.InvalidDealTransition),
		)
	}

	switch to {
	case entity.DealStatusScored, entity.DealStatusPendingApproval, entity.DealStatusApproved:
		if !d.IsScored() {
			return failure.NewConflictError(
				fmt.Sprintf("deal %d is not scored", d.ID),
				failure.WithCode(errcodes.DealNotScored),
			)
		}
	default:
	}

	d.Status = to

	return nil
}

// StatusAfterScoring - куда попадает сделка сразу после скоринга.
func StatusAfterScoring(s entity.Settings, score int) entity.DealStatus {
	if s.Mode != entity.ModeAuto {
		return entity.DealStatusPendingApproval
	}

	if score >= s.ApprovalThreshold {
		return entity.DealStatusApproved
	}

	return entity.DealStatusScored
}
