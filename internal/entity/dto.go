package entity

import "github.com/go-playground/validator/v10"

// AddressDTO is the mechanical-constraint shape used when accepting an
// address definition from a caller (criteria filter files, add_object
// payloads) before it is written into the tree. Kind-specific structural
// rules beyond these tags (e.g. "exactly one of four value forms") are
// checked by internal/validate, not here.
type AddressDTO struct {
	Name        string   `validate:"required,max=63"`
	AddrType    AddrType `validate:"required,oneof=ip-netmask ip-range fqdn ip-wildcard"`
	Value       string   `validate:"required"`
	Description string   `validate:"max=1023"`
	Tags        []string `validate:"dive,max=127"`
}

// ServiceDTO is the mechanical-constraint shape for a service definition.
type ServiceDTO struct {
	Name            string `validate:"required,max=63"`
	Protocol        string `validate:"required,oneof=tcp udp"`
	DestinationPort string `validate:"required"`
	SourcePort      string
	Description     string `validate:"max=1023"`
}

var dtoValidate = validator.New()

// ValidateDTO runs the struct-tag validation for any of this package's
// DTO types, returning the validator's field errors unwrapped as a
// plain error (the caller decides whether to surface individual field
// messages or fold them into a single ValidationFailed summary).
func ValidateDTO(dto any) error {
	return dtoValidate.Struct(dto)
}
