package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	salesvc "github.com/PrincessAkira/RestockIQ/internal/service/sale"
)

func processSaleHandler(svc SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Cart     []salesvc.ItemInput `json:"cart"`
			Currency string              `json:"currency"`
			Method   string              `json:"method"`
			Cashier  string              `json:"cashier"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cashier := body.Cashier
		if cashier == "" {
			cashier = actorName(c)
		}
		group, replayed, err := svc.Process(c.Request.Context(), salesvc.ProcessInput{
			Cart:           body.Cart,
			Currency:       body.Currency,
			Method:         body.Method,
			Cashier:        cashier,
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		status := http.StatusCreated
		if replayed {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"message": "Sale recorded", "saleId": group.ID})
	}
}

func listSalesHandler(svc SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		groups, err := svc.Recent(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		out := make([]saleResponse, 0, len(groups))
		for _, g := range groups {
			out = append(out, toSaleResponse(g))
		}
		c.JSON(http.StatusOK, out)
	}
}

func getSaleHandler(svc SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSaleResponse(*group))
	}
}

func reverseSaleHandler(svc SaleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := svc.Reverse(c.Request.Context(), c.Param("id"), actorName(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sale reversed", "saleId": group.ID})
	}
}
