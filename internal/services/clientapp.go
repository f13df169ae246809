package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/flagbridge-backend/internal/apierr"
	"github.com/yungbote/flagbridge-backend/internal/events"
	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/repos"
	"github.com/yungbote/flagbridge-backend/internal/types"
)

// ClientRegistration is the payload SDKs send on startup.
type ClientRegistration struct {
	AppName    string    `json:"appName"`
	InstanceID string    `json:"instanceId"`
	SDKVersion string    `json:"sdkVersion,omitempty"`
	Strategies []string  `json:"strategies"`
	Started    time.Time `json:"started"`
	Interval   int       `json:"interval"`
}

// ApplicationView is an application with its known instances, for the
// admin applications API.
type ApplicationView struct {
	types.ClientApplication
	Instances []*types.ClientInstance `json:"instances"`
}

type ClientAppService interface {
	RegisterClient(ctx context.Context, registration ClientRegistration, clientIP string) error
	GetApplications(ctx context.Context) ([]*types.ClientApplication, error)
	GetApplication(ctx context.Context, appName string) (*ApplicationView, error)
	DeleteApplication(ctx context.Context, appName, createdBy string) error
}

type clientAppService struct {
	log          *logger.Logger
	appRepo      repos.ClientAppRepo
	instanceRepo repos.ClientInstanceRepo
	eventLog     EventLogService
}

func NewClientAppService(
	baseLog *logger.Logger,
	appRepo repos.ClientAppRepo,
	instanceRepo repos.ClientInstanceRepo,
	eventLog EventLogService,
) ClientAppService {
	return &clientAppService{
		log:          baseLog.With("service", "ClientAppService"),
		appRepo:      appRepo,
		instanceRepo: instanceRepo,
		eventLog:     eventLog,
	}
}

func (s *clientAppService) RegisterClient(ctx context.Context, registration ClientRegistration, clientIP string) error {
	if registration.AppName == "" {
		return apierr.Validation(errors.New("appName is required"))
	}
	if registration.InstanceID == "" {
		return apierr.Validation(errors.New("instanceId is required"))
	}

	known, err := s.appRepo.Exists(ctx, nil, registration.AppName)
	if err != nil {
		return err
	}

	strategies, err := json.Marshal(registration.Strategies)
	if err != nil {
		return fmt.Errorf("marshal client strategies: %w", err)
	}
	if err := s.appRepo.Upsert(ctx, nil, &types.ClientApplication{
		AppName:    registration.AppName,
		Strategies: strategies,
		Announced:  true,
	}); err != nil {
		return fmt.Errorf("upsert client application: %w", err)
	}

	if err := s.instanceRepo.Upsert(ctx, nil, &types.ClientInstance{
		AppName:    registration.AppName,
		InstanceID: registration.InstanceID,
		ClientIP:   clientIP,
		LastSeen:   time.Now(),
	}); err != nil {
		return fmt.Errorf("upsert client instance: %w", err)
	}

	// First sighting of an application is worth an audit entry.
	if !known {
		event, err := newEvent(events.ApplicationCreated, registration.AppName, struct {
			AppName    string `json:"appName"`
			SDKVersion string `json:"sdkVersion,omitempty"`
		}{AppName: registration.AppName, SDKVersion: registration.SDKVersion})
		if err != nil {
			return err
		}
		if err := s.eventLog.Store(ctx, event); err != nil {
			s.log.Warn("Failed to record application-created event", "appName", registration.AppName, "error", err)
		}
	}
	return nil
}

func (s *clientAppService) GetApplications(ctx context.Context) ([]*types.ClientApplication, error) {
	return s.appRepo.GetAll(ctx, nil)
}

func (s *clientAppService) GetApplication(ctx context.Context, appName string) (*ApplicationView, error) {
	app, err := s.appRepo.Get(ctx, nil, appName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.NotFound("application", appName)
	}
	if err != nil {
		return nil, err
	}
	instances, err := s.instanceRepo.GetByAppName(ctx, nil, appName)
	if err != nil {
		return nil, err
	}
	return &ApplicationView{ClientApplication: *app, Instances: instances}, nil
}

func (s *clientAppService) DeleteApplication(ctx context.Context, appName, createdBy string) error {
	exists, err := s.appRepo.Exists(ctx, nil, appName)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("application", appName)
	}
	if err := s.instanceRepo.DeleteForApp(ctx, nil, appName); err != nil {
		return err
	}
	return s.appRepo.Delete(ctx, nil, appName)
}
