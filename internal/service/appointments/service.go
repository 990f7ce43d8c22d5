package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	petShopRepo     PetShopRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeNow         func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	petShopRepo PetShopRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		petShopRepo:     petShopRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeNow:         time.Now,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видят клиент и владелец магазина
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, userID)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает записи клиента, опционально по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%s, status=%v", req.ClientID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: %v", err)
			return nil, err
		}
		status = &st
	}

	list, err := s.appointmentRepo.ListByClient(ctx, req.ClientID, status)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: fetched %d appointments for client=%s", len(list), req.ClientID)
	return models.FromDomainAppointmentList(list), nil
}

// GetAgenda получает записи магазина за календарный день в его часовом поясе.
// Доступно только владельцу магазина
func (s *Service) GetAgenda(ctx context.Context, req *models.GetAgendaRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetAgenda: petShop=%s, date=%s, user=%s, includeCancelled=%t",
		req.PetShopID, req.Date.Format(domain.DateFormat), req.UserID, req.IncludeCancelled)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	shop, err := s.checkOwnerAccess(ctx, req.PetShopID, req.UserID)
	if err != nil {
		return nil, err
	}

	y, m, d := req.Date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, shop.Location())

	list, err := s.appointmentRepo.ListByPetShop(ctx, domain.AgendaFilter{
		PetShopID:        shop.ID,
		From:             from,
		To:               from.AddDate(0, 0, 1),
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetAgenda: repository error for petShop=%s: %v", shop.ID, err)
		return nil, fmt.Errorf("%w: GetAgenda - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAgenda: fetched %d appointments for petShop=%s", len(list), shop.ID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись.
// Отменить может клиент или владелец магазина. Строка записи блокируется до конца транзакции,
// поэтому параллельные отмена и завершение не перезапишут друг друга
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%s", id, req.UserID)

	var cancelled *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if err := s.checkUserAccess(txCtx, appt, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%s to appointment id=%s", req.UserID, id)
			return err
		}

		if err := appt.TransitionTo(domain.StatusCancelled, s.timeNow()); err != nil {
			s.logger.Warn("Cancel: appointment id=%s: %v", id, err)
			return err
		}

		saved, err := s.appointmentRepo.Save(txCtx, appt)
		if err != nil {
			s.logger.Error("Cancel: repository error for appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled = saved
		return nil
	})
	if err != nil {
		if domain.IsBusinessError(err) || errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - transaction failed: %w", ErrInternal, err)
	}

	if err := s.publisher.AppointmentCancelled(ctx, cancelled); err != nil {
		s.logger.Warn("Cancel: failed to publish cancellation for id=%s: %v", id, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", id)
	return models.FromDomainAppointment(cancelled), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, &domain.NotFoundError{Resource: "appointment", ID: id.String()}
		}
		s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkUserAccess пропускает клиента записи и владельца магазина
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID uuid.UUID) error {
	if appt.HasParticipant(userID) {
		return nil
	}

	if _, err := s.checkOwnerAccess(ctx, appt.PetShopID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь владеет магазином
func (s *Service) checkOwnerAccess(ctx context.Context, petShopID uuid.UUID, userID uuid.UUID) (*domain.PetShop, error) {
	shop, err := s.petShopRepo.GetByID(ctx, petShopID)
	if err != nil {
		if errors.Is(err, petshopRepo.ErrPetShopNotFound) {
			s.logger.Warn("checkOwnerAccess: pet shop id=%s not found", petShopID)
			return nil, &domain.NotFoundError{Resource: "pet shop", ID: petShopID.String()}
		}
		s.logger.Error("checkOwnerAccess: failed to get pet shop id=%s: %v", petShopID, err)
		return nil, fmt.Errorf("%w: checkOwnerAccess - failed to get pet shop: %v", ErrInternal, err)
	}

	if !shop.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of petShop=%s", userID, petShopID)
		return nil, ErrAccessDenied
	}

	return shop, nil
}
