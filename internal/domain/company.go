package domain

// Company - компания-владелец продуктов.
type Company struct {
	ID     string
	Name   string
	Active bool
}

// CompanyDTO - представление компании на входе и выходе операций.
type CompanyDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ToDTO конвертирует компанию в DTO.
func (c Company) ToDTO() CompanyDTO {
	return CompanyDTO{ID: c.ID, Name: c.Name}
}

// IsActive реализует предикат активности.
func (c Company) IsActive() bool {
	return c.Active
}

// Validate проверяет формат входного DTO.
func (d CompanyDTO) Validate() []error {
	var errs []error
	if d.ID != "" && !LooksLikeID(d.ID) {
		errs = append(errs, InvalidArgument("id must be a uuid"))
	}
	errs = append(errs, validateName(d.Name)...)
	return errs
}
