package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// Deleted - результат успешного удаления.
const Deleted = "deleted"

// ProductService реализует upsert, поиск и удаление продуктов.
type ProductService struct {
	products  domain.ProductRepository
	companies *CompanyLookup
	search    *ProductSearchEngine
	settings
}

// NewProductService создаёт сервис продуктов.
func NewProductService(products domain.ProductRepository, companies domain.CompanyRepository, opts ...Option) *ProductService {
	s := newSettings("product-service", opts)
	return &ProductService{
		products:  products,
		companies: NewCompanyLookup(companies),
		search:    NewProductSearchEngine(products, s.defaultLimit),
		settings:  s,
	}
}

// UpdateProduct обновляет продукт по id. Без id запрос обрабатывается как создание.
// Неизвестный id тоже приводит к созданию с тем же id: так повторно
// доставленные и пришедшие не по порядку реплики не порождают дублей.
func (s *ProductService) UpdateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	if dto.ID == "" {
		return s.CreateProduct(ctx, dto)
	}

	ctx, op := s.begin(ctx, "UpdateProduct",
		attribute.String("product.id", dto.ID),
		attribute.String("company.id", dto.CompanyID),
	)
	op.logger.WithField("dto", dto).Warn("starting process...")

	if err := validate(dto.Validate()); err != nil {
		return dto, op.finish(err)
	}

	company, err := s.companies.Resolve(ctx, dto.CompanyID)
	if err != nil {
		return dto, op.finish(err)
	}

	found, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(dto.ID), "")
	if err != nil {
		return dto, op.finish(fmt.Errorf("find product %s: %w", dto.ID, err))
	}

	if len(found) == 0 {
		op.logger.WithField("product_id", dto.ID).Warn("product not found, applying as create")
		s.metrics.RecordReplicationFallback(domain.AggregateProduct)
		result, err := s.CreateProduct(ctx, dto)
		return result, op.finish(err)
	}

	entity := found[0]
	entity.CompanyID = company.ID
	entity.Name = domain.NormalizeName(dto.Name)
	entity.Price = dto.Price

	saved, err := s.save(ctx, entity)
	if err != nil {
		return dto, op.finish(err)
	}
	s.publish(ctx, domain.AggregateProduct, saved.ID, domain.EventProductUpserted, saved.ToDTO())

	return dto, op.finish(nil)
}

// CreateProduct создаёт продукт, если в компании нет продукта с тем же именем.
func (s *ProductService) CreateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	ctx, op := s.begin(ctx, "CreateProduct", attribute.String("company.id", dto.CompanyID))
	op.logger.WithField("dto", dto).Warn("starting process...")

	if err := validate(dto.Validate()); err != nil {
		return dto, op.finish(err)
	}

	company, err := s.companies.Resolve(ctx, dto.CompanyID)
	if err != nil {
		return dto, op.finish(err)
	}

	found, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchListInput(dto.Name), company.ID)
	if err != nil {
		return dto, op.finish(fmt.Errorf("find product by name: %w", err))
	}
	if len(found) > 0 {
		return dto, op.finish(domain.AlreadyExists("product already exists, name=%s", dto.Name))
	}

	saved, err := s.save(ctx, domain.Product{
		ID:        dto.ID,
		CompanyID: company.ID,
		Name:      domain.NormalizeName(dto.Name),
		Price:     dto.Price,
	})
	if err != nil {
		return dto, op.finish(err)
	}
	s.publish(ctx, domain.AggregateProduct, saved.ID, domain.EventProductUpserted, saved.ToDTO())

	return dto, op.finish(nil)
}

// FindProducts возвращает страницу продуктов компании. Пустая выборка - NotFound.
func (s *ProductService) FindProducts(ctx context.Context, companyID string, pagination domain.Pagination, input domain.SearchInput) ([]domain.ProductDTO, error) {
	ctx, op := s.begin(ctx, "FindProducts", attribute.String("company.id", companyID))

	list, err := s.search.Find(ctx, pagination, input, companyID)
	if err != nil {
		return nil, op.finish(fmt.Errorf("find products: %w", err))
	}
	if len(list) == 0 {
		return nil, op.finish(domain.NotFound("products not found"))
	}

	return toProductDTOs(list), op.finish(nil)
}

// FindOneProductByValue ищет продукт по id или по части имени.
func (s *ProductService) FindOneProductByValue(ctx context.Context, companyID, value string) ([]domain.ProductDTO, error) {
	ctx, op := s.begin(ctx, "FindOneProductByValue", attribute.String("company.id", companyID))

	list, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(value), companyID)
	if err != nil {
		return nil, op.finish(fmt.Errorf("find product by value: %w", err))
	}
	if len(list) == 0 {
		return nil, op.finish(domain.NotFound("product not found, value=%s", value))
	}

	return toProductDTOs(list), op.finish(nil)
}

// RemoveProduct удаляет активный продукт. Если на продукт ссылаются строки
// заказов, возвращается IsBeingUsed.
func (s *ProductService) RemoveProduct(ctx context.Context, id string) (string, error) {
	ctx, op := s.begin(ctx, "RemoveProduct", attribute.String("product.id", id))
	op.logger.WithField("product_id", id).Warn("starting process...")

	found, err := s.findByID(ctx, id)
	if err != nil {
		return "", op.finish(err)
	}
	if len(found) == 0 {
		return "", op.finish(domain.NotFound("product not found, id=%s", id))
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrForeignKeyViolation) {
			return "", op.finish(&domain.Error{Kind: domain.KindIsBeingUsed, Message: "product is being used", Err: err})
		}
		return "", op.finish(fmt.Errorf("delete product %s: %w", id, err))
	}
	s.publish(ctx, domain.AggregateProduct, id, domain.EventProductDeleted, deletedPayload{ID: id})

	return Deleted, op.finish(nil)
}

// SaveProduct сохраняет продукт без проверок.
func (s *ProductService) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, op := s.begin(ctx, "SaveProduct")
	saved, err := s.save(ctx, product)
	if err != nil {
		return domain.Product{}, op.finish(err)
	}
	op.logger.WithField("entity", saved).Debug("saved")
	return saved, op.finish(nil)
}

func (s *ProductService) findByID(ctx context.Context, id string) ([]domain.Product, error) {
	// Не-UUID токен ушёл бы в поиск по имени, поэтому такой id сразу считается отсутствующим.
	if !domain.LooksLikeID(id) {
		return nil, nil
	}
	list, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(id), "")
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return list, nil
}

func (s *ProductService) save(ctx context.Context, product domain.Product) (domain.Product, error) {
	saved, err := s.products.Save(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.Product{}, &domain.Error{
				Kind:    domain.KindAlreadyExists,
				Message: "product already exists, name=" + product.Name,
				Err:     err,
			}
		}
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}
	return saved, nil
}

func toProductDTOs(list []domain.Product) []domain.ProductDTO {
	out := make([]domain.ProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, p.ToDTO())
	}
	return out
}

// validate сворачивает замечания валидации в одну ошибку InvalidArgument.
func validate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return domain.InvalidArgument("%s", strings.Join(msgs, "; "))
}
