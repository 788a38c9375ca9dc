package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/entity"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/pkg/serverutils"
	"morning-pulse-be/internal/repository/specification"
	"morning-pulse-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type IEditorService interface {
	Login(ctx context.Context, req *dto.EditorLoginRequest) (*dto.EditorLoginResponse, error)
	// EnsureEditor creates the editor account if the email is not taken yet.
	EnsureEditor(ctx context.Context, email, fullName, password string) (*entity.Editor, error)
}

type editorService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
	logger     logger.ILogger
	now        func() time.Time
}

func NewEditorService(uowFactory unitofwork.RepositoryFactory, jwtSecret string, logger logger.ILogger) IEditorService {
	return &editorService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *editorService) Login(ctx context.Context, req *dto.EditorLoginRequest) (*dto.EditorLoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	editor, err := uow.EditorRepository().FindOne(ctx,
		specification.ByEmail{Email: strings.ToLower(strings.TrimSpace(req.Email))},
		specification.ActiveEditors{},
	)
	if err != nil {
		return nil, err
	}
	if editor == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(editor.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn(constant.ModuleEditor, "Failed login attempt", map[string]interface{}{"email": editor.Email})
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := serverutils.IssueToken(s.jwtSecret, editor.Id.String(), serverutils.RoleEditor, constant.EditorTokenTTL)
	if err != nil {
		return nil, err
	}

	editor.LastLoginAt = &now
	if err := uow.EditorRepository().Update(ctx, editor); err != nil {
		s.logger.Warn(constant.ModuleEditor, "Failed to record last login", map[string]interface{}{
			"editor_id": editor.Id.String(),
			"error":     err.Error(),
		})
	}

	return &dto.EditorLoginResponse{
		AccessToken: token,
		ExpiresAt:   now.Add(constant.EditorTokenTTL),
		Editor: dto.EditorDTO{
			Id:       editor.Id.String(),
			Email:    editor.Email,
			FullName: editor.FullName,
		},
	}, nil
}

func (s *editorService) EnsureEditor(ctx context.Context, email, fullName, password string) (*entity.Editor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.EditorRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	editor := &entity.Editor{
		Id:           uuid.New(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := uow.EditorRepository().Create(ctx, editor); err != nil {
		return nil, err
	}
	return editor, nil
}
