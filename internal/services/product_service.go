package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Sitara-Husain/ECommerce/internal/dtos"
	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/repositories"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

// ProductService holds the catalog rules: case-insensitive title
// uniqueness (scoped to other products on update) and soft deletion.
type ProductService interface {
	Create(ctx context.Context, req dtos.ProductRequest) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req dtos.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) Create(ctx context.Context, req dtos.ProductRequest) (*models.Product, error) {
	taken, err := s.productRepo.TitleExists(ctx, req.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrTitleExists
	}

	p := &models.Product{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		IsActive:    true,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (s *productService) List(ctx context.Context) ([]*models.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dtos.ProductRequest) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}

	// The uniqueness check excludes the product itself, so renaming a
	// product to its own title succeeds.
	taken, err := s.productRepo.TitleExists(ctx, req.Title, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrTitleExists
	}

	p.Title = req.Title
	p.Description = req.Description
	p.Price = *req.Price
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return utils.ErrNotFound
	}
	return nil
}
