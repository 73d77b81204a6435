package domain

import "context"

// CompanyRepository описывает требования к хранилищу компаний.
type CompanyRepository interface {
	// Find возвращает компании, подходящие под фильтр, с учётом skip/take.
	Find(ctx context.Context, filter CompanyFilter) ([]Company, error)
	// Save создаёт компанию (если ID неизвестен) или перезаписывает существующую.
	// Новая запись активна; признак active существующей записи не меняется.
	Save(ctx context.Context, company Company) (Company, error)
	// Delete удаляет компанию; при наличии зависимых записей возвращает ErrForeignKeyViolation.
	Delete(ctx context.Context, id string) error
}

// ProductRepository описывает требования к хранилищу продуктов.
type ProductRepository interface {
	// Find возвращает продукты, подходящие под фильтр, с учётом skip/take.
	Find(ctx context.Context, filter ProductFilter) ([]Product, error)
	// Save создаёт продукт (если ID неизвестен) или перезаписывает существующий.
	// Новая запись активна; признак active существующей записи не меняется.
	// Пустой ID заменяется сгенерированным UUID.
	Save(ctx context.Context, product Product) (Product, error)
	// Delete удаляет продукт; при наличии зависимых записей возвращает ErrForeignKeyViolation.
	Delete(ctx context.Context, id string) error
}
