package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// CompanyService реализует upsert, поиск и удаление компаний.
// Имена компаний уникальны глобально.
type CompanyService struct {
	companies domain.CompanyRepository
	search    *CompanySearchEngine
	settings
}

// NewCompanyService создаёт сервис компаний.
func NewCompanyService(companies domain.CompanyRepository, opts ...Option) *CompanyService {
	s := newSettings("company-service", opts)
	return &CompanyService{
		companies: companies,
		search:    NewCompanySearchEngine(companies, s.defaultLimit),
		settings:  s,
	}
}

// UpdateCompany обновляет компанию по id или создаёт её (в том числе для неизвестного id).
func (s *CompanyService) UpdateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error) {
	if dto.ID == "" {
		return s.CreateCompany(ctx, dto)
	}

	ctx, op := s.begin(ctx, "UpdateCompany", attribute.String("company.id", dto.ID))
	op.logger.WithField("dto", dto).Warn("starting process...")

	if err := validate(dto.Validate()); err != nil {
		return dto, op.finish(err)
	}

	found, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(dto.ID))
	if err != nil {
		return dto, op.finish(fmt.Errorf("find company %s: %w", dto.ID, err))
	}

	if len(found) == 0 {
		op.logger.WithField("company_id", dto.ID).Warn("company not found, applying as create")
		s.metrics.RecordReplicationFallback(domain.AggregateCompany)
		result, err := s.CreateCompany(ctx, dto)
		return result, op.finish(err)
	}

	entity := found[0]
	entity.Name = domain.NormalizeName(dto.Name)

	saved, err := s.save(ctx, entity)
	if err != nil {
		return dto, op.finish(err)
	}
	s.publish(ctx, domain.AggregateCompany, saved.ID, domain.EventCompanyUpserted, saved.ToDTO())

	return dto, op.finish(nil)
}

// CreateCompany создаёт компанию, если имя ещё не занято.
func (s *CompanyService) CreateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error) {
	ctx, op := s.begin(ctx, "CreateCompany")
	op.logger.WithField("dto", dto).Warn("starting process...")

	if err := validate(dto.Validate()); err != nil {
		return dto, op.finish(err)
	}

	found, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchListInput(dto.Name))
	if err != nil {
		return dto, op.finish(fmt.Errorf("find company by name: %w", err))
	}
	if len(found) > 0 {
		return dto, op.finish(domain.AlreadyExists("company already exists, name=%s", dto.Name))
	}

	saved, err := s.save(ctx, domain.Company{
		ID:   dto.ID,
		Name: domain.NormalizeName(dto.Name),
	})
	if err != nil {
		return dto, op.finish(err)
	}
	s.publish(ctx, domain.AggregateCompany, saved.ID, domain.EventCompanyUpserted, saved.ToDTO())

	return dto, op.finish(nil)
}

// FindCompanies возвращает страницу компаний. Пустая выборка - NotFound.
func (s *CompanyService) FindCompanies(ctx context.Context, pagination domain.Pagination, input domain.SearchInput) ([]domain.CompanyDTO, error) {
	ctx, op := s.begin(ctx, "FindCompanies")

	list, err := s.search.Find(ctx, pagination, input)
	if err != nil {
		return nil, op.finish(fmt.Errorf("find companies: %w", err))
	}
	if len(list) == 0 {
		return nil, op.finish(domain.NotFound("companies not found"))
	}

	return toCompanyDTOs(list), op.finish(nil)
}

// FindOneCompanyByValue ищет компанию по id или по части имени.
func (s *CompanyService) FindOneCompanyByValue(ctx context.Context, value string) ([]domain.CompanyDTO, error) {
	ctx, op := s.begin(ctx, "FindOneCompanyByValue")

	list, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(value))
	if err != nil {
		return nil, op.finish(fmt.Errorf("find company by value: %w", err))
	}
	if len(list) == 0 {
		return nil, op.finish(domain.NotFound("company not found, value=%s", value))
	}

	return toCompanyDTOs(list), op.finish(nil)
}

// RemoveCompany удаляет компанию. Компанию с продуктами удалить нельзя.
func (s *CompanyService) RemoveCompany(ctx context.Context, id string) (string, error) {
	ctx, op := s.begin(ctx, "RemoveCompany", attribute.String("company.id", id))
	op.logger.WithField("company_id", id).Warn("starting process...")

	if !domain.LooksLikeID(id) {
		return "", op.finish(domain.NotFound("company not found, id=%s", id))
	}
	found, err := s.search.Find(ctx, domain.Pagination{}, domain.NewSearchInput(id))
	if err != nil {
		return "", op.finish(fmt.Errorf("find company %s: %w", id, err))
	}
	if len(found) == 0 {
		return "", op.finish(domain.NotFound("company not found, id=%s", id))
	}

	if err := s.companies.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrForeignKeyViolation) {
			return "", op.finish(&domain.Error{Kind: domain.KindIsBeingUsed, Message: "company is being used", Err: err})
		}
		return "", op.finish(fmt.Errorf("delete company %s: %w", id, err))
	}
	s.publish(ctx, domain.AggregateCompany, id, domain.EventCompanyDeleted, deletedPayload{ID: id})

	return Deleted, op.finish(nil)
}

func (s *CompanyService) save(ctx context.Context, company domain.Company) (domain.Company, error) {
	saved, err := s.companies.Save(ctx, company)
	if err != nil {
		if errors.Is(err, domain.ErrUniqueViolation) {
			return domain.Company{}, &domain.Error{
				Kind:    domain.KindAlreadyExists,
				Message: "company already exists, name=" + company.Name,
				Err:     err,
			}
		}
		return domain.Company{}, fmt.Errorf("save company: %w", err)
	}
	return saved, nil
}

func toCompanyDTOs(list []domain.Company) []domain.CompanyDTO {
	out := make([]domain.CompanyDTO, 0, len(list))
	for _, c := range list {
		out = append(out, c.ToDTO())
	}
	return out
}
