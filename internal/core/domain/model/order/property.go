package order

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrPropertyIsNotConstructed = errors.New("Property must be created via NewProperty constructor")

// Property is a name/value customization attached to a line item (gift message,
// delivery date and so on). Both parts may be empty; the platform does not require them.
type Property struct {
	id    int64
	name  string
	value string
	guard guard.ConstructorGuard
}

func NewProperty(name, value string) *Property {
	return &Property{name: name, value: value, guard: guard.NewConstructorGuard()}
}

func RestoreProperty(id int64, name, value string) *Property {
	return &Property{id: id, name: name, value: value, guard: guard.NewConstructorGuard()}
}

func (p *Property) Validate() error {
	if p == nil {
		return ErrPropertyIsNotConstructed
	}
	return p.guard.Validate(ErrPropertyIsNotConstructed)
}

func (p *Property) ID() int64 { return p.id }
func (p *Property) Name() string { return p.name }
func (p *Property) Value() string { return p.value }
func (p *Property) AssignID(id int64) { p.id = id }
