package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pantrypal/barcode"
	"pantrypal/recipes"
	"pantrypal/shopping"
)

type scoredResult struct {
	recipes.MatchResult
	MatchPercentage float64 `json:"matchPercentage"`
}

// SearchRecipes searches by ?ingredients=a,b or, without it, by everything in the pantry.
// Service failures still answer 200 with an empty list and the session's error message.
func (h *Handler) SearchRecipes(c *gin.Context) {
	var ingredients []string
	for _, s := range strings.Split(c.Query("ingredients"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			ingredients = append(ingredients, s)
		}
	}
	if len(ingredients) == 0 {
		ingredients = h.pantryNames()
	}

	p := recipes.DefaultFindParams(ingredients...)
	if n, err := strconv.Atoi(c.Query("number")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(c.Query("ranking")); err == nil && (n == 1 || n == 2) {
		p.Ranking = n
	}
	if b, err := strconv.ParseBool(c.Query("ignorePantry")); err == nil {
		p.IgnorePantry = b
	}

	results := h.recipes.FindRecipesByIngredients(c.Request.Context(), p)
	out := make([]scoredResult, 0, len(results))
	for _, r := range results {
		out = append(out, scoredResult{MatchResult: r, MatchPercentage: recipes.MatchPercentage(r)})
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "error": h.recipes.Error()})
}

func (h *Handler) RecipeDetails(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	d := h.recipes.GetRecipeDetails(c.Request.Context(), id)
	if d == nil {
		c.JSON(http.StatusOK, gin.H{"recipe": nil, "error": h.recipes.Error()})
		return
	}

	names := h.pantryNames()
	c.JSON(http.StatusOK, gin.H{
		"recipe":             d,
		"matchPercentage":    recipes.CalculateRecipeMatch(*d, names),
		"missingIngredients": recipes.MissingIngredients(*d, names),
	})
}

func (h *Handler) RecentRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": h.recipes.RecentRecipes()})
}

func (h *Handler) ClearRecentRecipes(c *gin.Context) {
	h.recipes.ClearRecentRecipes(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetAPIKey(c *gin.Context) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.recipes.SetAPIKey(c.Request.Context(), req.APIKey)
	c.Status(http.StatusNoContent)
}

// AddRecipeToShopping puts every ingredient of the recipe that the pantry lacks on the
// shopping list, tagged with the recipe title.
func (h *Handler) AddRecipeToShopping(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	d := h.recipes.GetRecipeDetails(c.Request.Context(), id)
	if d == nil {
		c.JSON(http.StatusOK, gin.H{"items": []shopping.Item{}, "error": h.recipes.Error()})
		return
	}

	missing := recipes.MissingIngredients(*d, h.pantryNames())
	ins := make([]shopping.ItemInput, 0, len(missing))
	for _, ing := range missing {
		ins = append(ins, shopping.ItemInput{
			Name:     ing.Name,
			Quantity: ingredientQuantity(ing),
			Category: string(barcode.CategoryFromTags([]string{ing.Aisle})),
		})
	}
	added := h.shopping.AddItems(c.Request.Context(), ins, d.Title)
	c.JSON(http.StatusCreated, gin.H{"items": added})
}

func (h *Handler) pantryNames() []string {
	items := h.pantry.Items()
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func recipeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "recipe id must be a positive integer")
		return 0, false
	}
	return id, true
}

func ingredientQuantity(ing recipes.Ingredient) string {
	if ing.Amount <= 0 {
		return strings.TrimSpace(ing.Unit)
	}
	return strings.TrimSpace(strconv.FormatFloat(ing.Amount, 'f', -1, 64) + " " + ing.Unit)
}
