// Package cart 服务端购物车镜像；下单时以请求体中的快照为准，镜像仅供跨设备恢复
package cart

import (
	"context"
	"errors"

	"storefront/domain/cart"
	"storefront/domain/identity"
)

type AddItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type Response struct {
	Items     []cart.Item `json:"items"`
	Total     int64       `json:"total"`
	ItemCount int         `json:"itemCount"`
}

type Service struct {
	store cart.Store
}

func NewService(store cart.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, caller identity.Identity) (*Response, error) {
	c, err := s.load(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *Service) AddItem(ctx context.Context, caller identity.Identity, req AddItemRequest) (*Response, error) {
	return s.update(ctx, caller.SubjectID, func(c *cart.Cart) {
		c.AddItem(cart.Item{
			ProductID: req.ID,
			Name:      req.Name,
			Price:     req.Price,
			Quantity:  req.Quantity,
			Image:     req.Image,
			Color:     req.Color,
			Size:      req.Size,
		})
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, caller identity.Identity, productID string, quantity int) (*Response, error) {
	return s.update(ctx, caller.SubjectID, func(c *cart.Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, caller identity.Identity, productID string) (*Response, error) {
	return s.update(ctx, caller.SubjectID, func(c *cart.Cart) {
		c.RemoveItem(productID)
	})
}

func (s *Service) Clear(ctx context.Context, caller identity.Identity) error {
	return s.store.Delete(ctx, caller.SubjectID)
}

func (s *Service) update(ctx context.Context, ownerID string, change func(*cart.Cart)) (*Response, error) {
	c, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	change(c)
	if c.IsEmpty() {
		if err := s.store.Delete(ctx, ownerID); err != nil {
			return nil, err
		}
	} else if err := s.store.Set(ctx, ownerID, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *Service) load(ctx context.Context, ownerID string) (*cart.Cart, error) {
	c, err := s.store.Get(ctx, ownerID)
	if errors.Is(err, cart.ErrCacheMiss) {
		return cart.New(), nil
	}
	return c, err
}

func toResponse(c *cart.Cart) *Response {
	items := c.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return &Response{Items: items, Total: c.Total(), ItemCount: c.ItemCount()}
}
