package server

import (
	"net/http"

	"github.com/example/storefront/pkg/shop"
	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	Address string `json:"address" binding:"required"`
	Payment string `json:"payment" binding:"required"`
	Total   int64  `json:"total"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.shop.Checkout(c.Request.Context(), currentSession(c).UserID, shop.CheckoutRequest{
		Address: req.Address,
		Payment: req.Payment,
		Total:   req.Total,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.shop.OrdersForUser(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.shop.OrderForUser(c.Request.Context(), currentSession(c).UserID, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
