package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NameMaxLength - ограничение длины имени компании и продукта.
const NameMaxLength = 45

// Product - продукт, принадлежащий компании.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Active    bool
	CompanyID string
}

// ProductDTO - представление продукта на входе и выходе операций.
type ProductDTO struct {
	ID        string  `json:"id,omitempty"`
	CompanyID string  `json:"companyId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// ToDTO конвертирует продукт в DTO.
func (p Product) ToDTO() ProductDTO {
	return ProductDTO{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Price:     p.Price,
	}
}

// Validate проверяет формат входного DTO и возвращает список замечаний.
func (d ProductDTO) Validate() []error {
	var errs []error

	if d.ID != "" && !LooksLikeID(d.ID) {
		errs = append(errs, InvalidArgument("id must be a uuid"))
	}
	if !LooksLikeID(d.CompanyID) {
		errs = append(errs, InvalidArgument("companyId must be a uuid"))
	}
	errs = append(errs, validateName(d.Name)...)
	if d.Price < 0 {
		errs = append(errs, InvalidArgument("price must be non-negative"))
	}

	return errs
}

// NormalizeName приводит имя к виду, в котором оно хранится.
func NormalizeName(name string) string {
	return strings.ToUpper(name)
}

// LooksLikeID проверяет, что строка является UUID.
func LooksLikeID(value string) bool {
	if value == "" {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}

// IsActive проверяет признак активности сущности.
func IsActive(entity interface{ IsActive() bool }) bool {
	return entity.IsActive()
}

// IsActive реализует предикат активности.
func (p Product) IsActive() bool {
	return p.Active
}

func validateName(name string) []error {
	var errs []error
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs = append(errs, InvalidArgument("name is required"))
	}
	if len([]rune(name)) > NameMaxLength {
		errs = append(errs, InvalidArgument("name must be at most %d characters", NameMaxLength))
	}
	return errs
}
