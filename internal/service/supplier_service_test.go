package service_test

import (
	"context"
	"testing"

	"ims/internal/dto"
	"ims/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierService(t *testing.T) {
	svc := service.NewSupplierService(newStubSupplierRepo())
	contact := "orders@acme.test"

	s, err := svc.Create(context.Background(), dto.SupplierRequest{Name: "Acme", Contact: &contact})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)

	_, err = svc.Create(context.Background(), dto.SupplierRequest{Name: "Acme"})
	assert.ErrorIs(t, err, service.ErrDuplicateSupplier)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, contact, *list[0].Contact)
}
