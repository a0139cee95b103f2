package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pantrypal/shopping"
)

type bulkRequest struct {
	Items        []shopping.ItemInput `json:"items"`
	RecipeSource string               `json:"recipeSource"`
}

func (h *Handler) ListShopping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.shopping.Items()})
}

func (h *Handler) AddShoppingItem(c *gin.Context) {
	var in shopping.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}
	c.JSON(http.StatusCreated, h.shopping.AddItem(c.Request.Context(), in))
}

func (h *Handler) AddShoppingItems(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	for i, in := range req.Items {
		if strings.TrimSpace(in.Name) == "" {
			writeError(c, http.StatusBadRequest, fmt.Sprintf("items[%d]: name is required", i))
			return
		}
	}
	added := h.shopping.AddItems(c.Request.Context(), req.Items, req.RecipeSource)
	c.JSON(http.StatusCreated, gin.H{"items": added})
}

func (h *Handler) UpdateShoppingItem(c *gin.Context) {
	var patch shopping.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeError(c, http.StatusBadRequest, "name cannot be empty")
		return
	}
	item, ok := h.shopping.UpdateItem(c.Request.Context(), c.Param("id"), patch)
	if !ok {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) ToggleShoppingItem(c *gin.Context) {
	item, ok := h.shopping.ToggleItemCompleted(c.Request.Context(), c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) RemoveShoppingItem(c *gin.Context) {
	if !h.shopping.RemoveItem(c.Request.Context(), c.Param("id")) {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearCompletedShopping(c *gin.Context) {
	removed := h.shopping.ClearCompletedItems(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handler) ClearShopping(c *gin.Context) {
	h.shopping.ClearAllItems(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handler) ShoppingByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": h.shopping.GetItemsByCategory()})
}

func (h *Handler) ShoppingByStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.shopping.GetItemsByCompletionStatus())
}
