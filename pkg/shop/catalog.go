package shop

import (
	"context"

	"github.com/example/storefront/pkg/models"
	"go.uber.org/zap"
)

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.Products(ctx)
}

func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	return s.store.ProductByID(ctx, id)
}

// ProductInput carries admin-submitted product fields. Image is a URL; the
// shop does not store files.
type ProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int
	Image       string
}

func (in *ProductInput) validate() error {
	if in.Name == "" {
		return errValidation("product name is required")
	}
	if in.Price <= 0 {
		return errValidation("product price must be positive")
	}
	if in.Stock < 0 {
		return errValidation("product stock cannot be negative")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.auditAsync("product_create", product.ID, map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
		"stock": product.Stock,
	})
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	if in.Image != "" {
		product.Image = in.Image
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.auditAsync("product_update", product.ID, map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
		"stock": product.Stock,
	})
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.store.ProductByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.auditAsync("product_delete", id, nil)
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}
