package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO.
// Вызывается автоматически оберткой handlers.WithPayload.
type Validator interface {
	Validate() error
}

const maxUnitsPerOrder = 64

func validateUnitIDs(ids []string) error {
	if len(ids) == 0 {
		return errors.New("unitIds is required")
	}
	if len(ids) > maxUnitsPerOrder {
		return errors.New("too many units in one order")
	}
	for _, id := range ids {
		if id == "" {
			return errors.New("empty unit id")
		}
	}
	return nil
}

func (p JoinPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Name) > 32 {
		return errors.New("name too long")
	}
	return nil
}

func (p MovePayload) Validate() error {
	return validateUnitIDs(p.UnitIDs)
}

func (p AttackPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return validateUnitIDs(p.UnitIDs)
}

func (p StopPayload) Validate() error {
	return validateUnitIDs(p.UnitIDs)
}

func (p FormationPayload) Validate() error {
	switch p.Layout {
	case "line", "wedge", "circle":
	default:
		return errors.New("unknown formation layout")
	}
	return validateUnitIDs(p.UnitIDs)
}

func (p AICommandPayload) Validate() error {
	if p.Text == "" {
		return errors.New("text is required")
	}
	if len(p.Text) > 500 {
		return errors.New("text too long")
	}
	return nil
}
