package service

import (
	"context"
	"errors"
	"fmt"

	"ims/internal/dto"
	"ims/internal/model"
	"ims/internal/repository"

	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
}

type supplierService struct{ repo repository.SupplierRepository }

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{Name: req.Name, Contact: req.Contact}
	if err := s.repo.Create(ctx, sup); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSupplier
		}
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &dto.SupplierResponse{ID: sup.SupplierID, Name: sup.Name, Contact: sup.Contact}, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		resp[i] = dto.SupplierResponse{ID: sup.SupplierID, Name: sup.Name, Contact: sup.Contact}
	}
	return resp, nil
}
