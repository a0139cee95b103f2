package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"pantrypal"
	"pantrypal/barcode"
)

// LookupBarcode answers 200 with a prefill whenever the code is usable, including when the
// product is unknown or the product database is unreachable.
func (h *Handler) LookupBarcode(c *gin.Context) {
	p, err := h.products.Lookup(c.Request.Context(), c.Param("code"))
	if errors.Is(err, barcode.ErrBlankBarcode) {
		writeError(c, http.StatusBadRequest, barcode.MsgBlankBarcode)
		return
	}
	resp := gin.H{"product": p}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) EstimatePrice(c *gin.Context) {
	est := h.prices.Estimate(c.Query("name"), pantrypal.ParseCategory(c.Query("category")))
	c.JSON(http.StatusOK, est)
}

type toolInfo struct {
	Name         string             `json:"name"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	InputSchema  *jsonschema.Schema `json:"inputSchema"`
	OutputSchema *jsonschema.Schema `json:"outputSchema"`
}

func (h *Handler) ListTools(c *gin.Context) {
	all := h.tools.GetTools()
	out := make([]toolInfo, 0, len(all))
	for _, t := range all {
		out = append(out, toolInfo{
			Name:         t.Name(),
			Title:        t.Title(),
			Description:  t.Description(),
			InputSchema:  t.InputSchema(),
			OutputSchema: t.OutputSchema(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tools": out})
}

// RunTool runs a tool with the request body as input. An empty body means no input.
func (h *Handler) RunTool(c *gin.Context) {
	tool, err := h.tools.GetTool(c.Param("name"))
	if err != nil {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}

	input := map[string]any{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			writeError(c, http.StatusBadRequest, "invalid tool input: "+err.Error())
			return
		}
	}

	out, err := tool.Run(c.Request.Context(), input)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}
