package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/backoffice-api/internal/dto"
	"github.com/campushq/backoffice-api/internal/models"
	appErrors "github.com/campushq/backoffice-api/pkg/errors"
)

type newsRepository interface {
	Create(ctx context.Context, news *models.News) error
	FindByID(ctx context.Context, id string) (*models.News, error)
	List(ctx context.Context, limit int) ([]models.News, error)
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id string) error
}

// NewsService manages news posts. Posts are visible to every role; authors
// edit their own posts and admins edit any.
type NewsService struct {
	news      newsRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNewsService constructs a NewsService.
func NewNewsService(news newsRepository, validate *validator.Validate, logger *zap.Logger) *NewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &NewsService{news: news, validator: validate, logger: logger}
}

// List returns news posts, newest first. A non-positive limit returns all.
func (s *NewsService) List(ctx context.Context, limit int) ([]models.News, error) {
	posts, err := s.news.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news")
	}
	if posts == nil {
		posts = []models.News{}
	}
	return posts, nil
}

// Get returns a single news post.
func (s *NewsService) Get(ctx context.Context, id string) (*models.News, error) {
	post, err := s.news.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load news post")
	}
	return post, nil
}

// Create publishes a news post authored by the calling user.
func (s *NewsService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateNewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	post := &models.News{
		Title:   req.Title,
		Content: req.Content,
		Author:  claims.Username,
	}
	if err := s.news.Create(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news post")
	}
	return post, nil
}

// Update edits a news post. Only the author or an admin may edit.
func (s *NewsService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateNewsRequest) (*models.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news payload")
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && post.Author != claims.Username {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author or an admin may edit this post")
	}

	post.Title = req.Title
	post.Content = req.Content
	post.UpdatedAt = time.Now().UTC()
	if err := s.news.Update(ctx, post); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news post")
	}
	return post, nil
}

// Delete removes a news post. Only the author or an admin may delete.
func (s *NewsService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if claims.Role != models.RoleAdmin && post.Author != claims.Username {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author or an admin may delete this post")
	}
	if err := s.news.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "news post not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news post")
	}
	return nil
}
