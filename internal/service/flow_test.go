package service_test

import (
	"context"
	"testing"

	"buyonline/internal/dto"
	"buyonline/internal/model"
	"buyonline/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A listing from creation through deletion, as seller, admin and customer
// see it.
func TestCatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	products := f.productService()
	variations := f.variationService()
	catalog := f.catalogService()

	created, err := products.Create(ctx, f.seller, createReq("X1", "Acme", f.laptops.ID))
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	// Drafts accept no variations and stay hidden.
	_, err = variations.Create(ctx, f.seller, id, variationReq(laptopAttrs("16GB", "512GB"), 3, "999"))
	assert.True(t, service.IsBadRequest(err))
	_, err = catalog.CustomerProduct(ctx, id)
	assert.True(t, service.IsBadRequest(err))

	out, err := products.Activate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)

	v, err := variations.Create(ctx, f.seller, id, variationReq(laptopAttrs("16GB", "512GB"), 3, "999"))
	require.NoError(t, err)
	_, err = variations.Create(ctx, f.seller, id, variationReq(laptopAttrs("16GB", "512GB"), 1, "1"))
	assert.True(t, service.IsBadRequest(err))

	view, err := catalog.CustomerProduct(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Variations, 1)
	assert.Equal(t, v.ID, view.Variations[0].ID)

	_, err = products.Update(ctx, f.seller, id, dto.UpdateProductRequest{Returnable: boolPtr(true)})
	require.NoError(t, err)

	out, err = products.Delete(ctx, f.seller, id)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeSuccess, out.Kind)

	out, err = products.Activate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ReasonDeleted, out.Reason)

	_, err = catalog.CustomerProduct(ctx, id)
	assert.True(t, service.IsBadRequest(err))
	vid := uuid.MustParse(v.ID)
	assert.Equal(t, model.StateInactive, f.store.variations[vid].State)

	// Operator on create, seller on activation.
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, "ops@example.com", f.notifier.sent[0].To)
	assert.Equal(t, "seller@example.com", f.notifier.sent[1].To)
}
