package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pantrypal"
	"pantrypal/pantry"
)

func (h *Handler) ListPantry(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.pantry.Items()})
}

// AddPantryItem adds or merges an item. With ?estimate_price=true a missing price is filled
// from the price heuristic.
func (h *Handler) AddPantryItem(c *gin.Context) {
	var in pantry.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}
	if !in.Price.Valid && c.Query("estimate_price") == "true" {
		est := h.prices.Estimate(in.Name, pantrypal.ParseCategory(in.Category))
		in.Price = pantry.NumberOf(est.Price)
	}

	item := h.pantry.AddItem(c.Request.Context(), in)
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdatePantryItem(c *gin.Context) {
	id := c.Param("id")
	var patch pantry.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeError(c, http.StatusBadRequest, "name cannot be empty")
		return
	}

	if _, ok := h.pantry.Get(id); !ok {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	item, ok := h.pantry.UpdateItem(c.Request.Context(), id, patch)
	if !ok {
		writeError(c, http.StatusConflict, "another item already has that name")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) RemovePantryItem(c *gin.Context) {
	if !h.pantry.RemoveItem(c.Request.Context(), c.Param("id")) {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkPantryItemUsedUp(c *gin.Context) {
	if !h.pantry.MarkUsedUp(c.Request.Context(), c.Param("id")) {
		writeError(c, http.StatusNotFound, "item not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ExpiringPantryItems(c *gin.Context) {
	days := pantry.DefaultExpiringDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	today := h.pantry.Today()
	type expiring struct {
		pantry.Item
		DaysLeft int                     `json:"daysLeft"`
		Status   pantry.ExpirationStatus `json:"status"`
		Label    string                  `json:"label"`
	}
	out := make([]expiring, 0)
	for _, it := range h.pantry.GetExpiringItems(days) {
		d, _ := pantry.DaysUntilExpiration(it, today)
		out = append(out, expiring{
			Item:     it,
			DaysLeft: d,
			Status:   pantry.StatusOf(it, today),
			Label:    pantry.ExpirationText(it, today),
		})
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "items": out})
}

func (h *Handler) PantryByCategory(c *gin.Context) {
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		c.JSON(http.StatusOK, gin.H{"groups": h.pantry.Search(q)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.pantry.GetItemsByCategory()})
}

func (h *Handler) PantrySummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.pantry.Summary())
}
