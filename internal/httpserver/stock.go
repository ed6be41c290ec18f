package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "github.com/PrincessAkira/RestockIQ/internal/service/product"
)

func updateStockHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in productsvc.StockInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if in.Stock == nil && in.Threshold == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}
		product, err := svc.UpdateStock(c.Request.Context(), id, in, actorName(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProductResponse(*product))
	}
}

func batchStockHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []productsvc.BatchStockItem
		if err := c.ShouldBindJSON(&items); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		updated, err := svc.BatchUpdateStock(c.Request.Context(), items, actorName(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": updated})
	}
}
