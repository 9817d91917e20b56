package dto

import "buyonline/internal/model"

func VariationFromModel(v model.ProductVariation) VariationResponse {
	attrs := v.Attributes
	if attrs == nil {
		attrs = model.Attributes{}
	}
	return VariationResponse{
		ID:                v.ID.String(),
		ProductID:         v.ProductID.String(),
		VariantName:       v.VariantName,
		Attributes:        attrs,
		QuantityAvailable: v.QuantityAvailable,
		Price:             v.Price,
		State:             string(v.State),
	}
}

// ProductFromModel maps p and the given variations; pass p.Variations for the
// full set or a filtered slice for customer views.
func ProductFromModel(p model.Product, variations []model.ProductVariation) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Slug:        p.Slug,
		Brand:       p.Brand,
		Description: p.Description,
		CategoryID:  p.CategoryID.String(),
		SellerID:    p.SellerID.String(),
		State:       string(p.State),
		Cancellable: p.Cancellable,
		Returnable:  p.Returnable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Variations:  make([]VariationResponse, 0, len(variations)),
	}
	if p.Seller != nil {
		resp.SellerEmail = p.Seller.Email
	}
	for _, v := range variations {
		resp.Variations = append(resp.Variations, VariationFromModel(v))
	}
	return resp
}

func ProductListFromModels(products []model.Product) ProductListResponse {
	out := ProductListResponse{Data: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Data = append(out.Data, ProductFromModel(p, p.Variations))
	}
	out.Total = len(out.Data)
	return out
}
