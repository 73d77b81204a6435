package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
)

// ReplicationApplier применяет реплицированные записи каталога.
type ReplicationApplier interface {
	UpdateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error)
	UpdateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error)
}

// ReplicationHandler разбирает сообщения topic репликации и передаёт их
// в сервисы каталога.
type ReplicationHandler struct {
	applier ReplicationApplier
	metrics *metrics.CatalogMetrics
	logger  *log.Entry
}

// NewReplicationHandler создаёт обработчик репликации.
func NewReplicationHandler(applier ReplicationApplier, m *metrics.CatalogMetrics) *ReplicationHandler {
	return &ReplicationHandler{
		applier: applier,
		metrics: m,
		logger:  log.WithField("component", "replication"),
	}
}

// Handle реализует MessageHandler. Ошибка возвращается только для
// сбоев, которые имеет смысл повторить; битые сообщения и ожидаемые
// ошибки каталога считаются обработанными.
func (h *ReplicationHandler) Handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	msg, err := ParseReplicationMessage(message)
	if err != nil {
		h.logger.WithError(err).WithField("offset", message.Offset).Warn("skip malformed replication message")
		h.metrics.RecordReplicationMessage("unknown", metrics.ResultInvalid)
		return nil
	}

	err = h.apply(ctx, msg)
	switch {
	case err == nil:
		h.metrics.RecordReplicationMessage(msg.Entity, metrics.ResultOK)
		return nil
	case domain.IsExpected(err):
		h.logger.WithFields(log.Fields{
			"entity": msg.Entity,
			"reason": err.Error(),
		}).Warn("replication message rejected")
		h.metrics.RecordReplicationMessage(msg.Entity, domain.KindOf(err).String())
		return nil
	default:
		h.metrics.RecordReplicationMessage(msg.Entity, metrics.ResultError)
		return err
	}
}

func (h *ReplicationHandler) apply(ctx context.Context, msg ReplicationMessage) error {
	switch msg.Entity {
	case EntityProduct:
		var dto domain.ProductDTO
		if err := json.Unmarshal(msg.Payload, &dto); err != nil {
			return domain.InvalidArgument("invalid product payload: %v", err)
		}
		_, err := h.applier.UpdateProduct(ctx, dto)
		return err
	case EntityCompany:
		var dto domain.CompanyDTO
		if err := json.Unmarshal(msg.Payload, &dto); err != nil {
			return domain.InvalidArgument("invalid company payload: %v", err)
		}
		_, err := h.applier.UpdateCompany(ctx, dto)
		return err
	default:
		return domain.InvalidArgument("unknown entity %q", msg.Entity)
	}
}

// CatalogApplier объединяет сервисы продуктов и компаний в ReplicationApplier.
type CatalogApplier struct {
	Products interface {
		UpdateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error)
	}
	Companies interface {
		UpdateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error)
	}
}

// UpdateProduct делегирует сервису продуктов.
func (a CatalogApplier) UpdateProduct(ctx context.Context, dto domain.ProductDTO) (domain.ProductDTO, error) {
	if a.Products == nil {
		return domain.ProductDTO{}, fmt.Errorf("product service is not configured")
	}
	return a.Products.UpdateProduct(ctx, dto)
}

// UpdateCompany делегирует сервису компаний.
func (a CatalogApplier) UpdateCompany(ctx context.Context, dto domain.CompanyDTO) (domain.CompanyDTO, error) {
	if a.Companies == nil {
		return domain.CompanyDTO{}, fmt.Errorf("company service is not configured")
	}
	return a.Companies.UpdateCompany(ctx, dto)
}
