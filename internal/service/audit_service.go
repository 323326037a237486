package service

import (
	"context"
	"time"

	"physiocare/internal/domain/entity"
	"physiocare/internal/domain/repository"
	"physiocare/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"gorm.io/gorm"
)

const publishTimeout = 5 * time.Second

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error
	// Publish announces a committed change on the event stream. It never blocks the caller.
	Publish(actor *uuid.UUID, action string, entityName string, entityID string, payload interface{})
	// Wait blocks until every event handed to Publish has been delivered or has failed.
	Wait()
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
	publisher messaging.EventPublisher
	inflight  conc.WaitGroup
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository, publisher messaging.EventPublisher) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
		publisher: publisher,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, entity.JSON{
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, entity.JSON{
		"old_value": oldValue,
		"new_value": nil,
	})
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor *uuid.UUID, action, entityName, entityID string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:     actor,
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		Metadata:   metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func (s *auditService) Publish(actor *uuid.UUID, action string, entityName string, entityID string, payload interface{}) {
	event := messaging.Event{
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		event.ActorID = actor.String()
	}

	s.inflight.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warnf("Failed to publish %s event: %+v", action, err)
		}
	})
}

func (s *auditService) Wait() {
	s.inflight.Wait()
}
