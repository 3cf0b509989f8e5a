package api

import (
	"net/http"

	"caterer/internal/agents"
	"caterer/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type regenerateSectionRequest struct {
	Section           string          `json:"section" binding:"required"`
	MenuID            uint            `json:"menu_id"`
	EventType         string          `json:"event_type"`
	Cuisine           string          `json:"cuisine"`
	BudgetPerPlate    decimal.Decimal `json:"budget_per_plate"`
	DietaryPreference string          `json:"dietary_preference"`
	CurrentItems      []string        `json:"current_items"`
}

type saveMenuRequest struct {
	EventType           string          `json:"event_type"`
	Cuisine             string          `json:"cuisine"`
	GuestCount          int             `json:"guest_count"`
	BudgetPerPlate      decimal.Decimal `json:"budget_per_plate"`
	DietaryPreference   string          `json:"dietary_preference"`
	SpecialRequirements string          `json:"special_requirements"`
	Starters            []string        `json:"starters"`
	MainCourse          []string        `json:"main_course"`
	Breads              []string        `json:"breads"`
	Rice                []string        `json:"rice"`
	Desserts            []string        `json:"desserts"`
	Beverages           []string        `json:"beverages"`
}

// GenerateMenu drafts a menu. A reply that could not be read as a menu is
// returned as menu_data for manual correction.
func (a *CateringAPI) GenerateMenu(c *gin.Context) {
	var req models.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondBindError(c, err)
		return
	}

	draft, err := a.Planner.GenerateMenu(c.Request.Context(), req)
	if err != nil {
		a.respondError(c, err)
		return
	}

	if !draft.Parsed {
		c.JSON(http.StatusOK, gin.H{"menu_data": draft.Raw})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": draft.Courses})
}

// RegenerateSection replaces one category with five new items. With a
// menu_id the event context and shown items default to the stored menu and
// the new items are saved to it.
func (a *CateringAPI) RegenerateSection(c *gin.Context) {
	var body regenerateSectionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		a.respondBindError(c, err)
		return
	}
	category, err := models.ParseMenuCategory(body.Section)
	if err != nil {
		a.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	owner := OwnerID(c)
	req := agents.RegenerateRequest{
		Category:          category,
		EventType:         body.EventType,
		Cuisine:           body.Cuisine,
		BudgetPerPlate:    body.BudgetPerPlate,
		DietaryPreference: body.DietaryPreference,
		CurrentItems:      body.CurrentItems,
	}

	if body.MenuID != 0 {
		menu, err := a.Menus.Get(ctx, owner, body.MenuID)
		if err != nil {
			a.respondError(c, err)
			return
		}
		if req.EventType == "" {
			req.EventType = menu.EventType
		}
		if req.Cuisine == "" {
			req.Cuisine = menu.Cuisine
		}
		if req.BudgetPerPlate.IsZero() {
			req.BudgetPerPlate = menu.BudgetPerPlate
		}
		if req.DietaryPreference == "" {
			req.DietaryPreference = menu.DietaryPreference
		}
		if req.CurrentItems == nil {
			req.CurrentItems = menu.Courses()[category]
		}
	}

	items, err := a.Planner.RegenerateSection(ctx, req)
	if err != nil {
		a.respondError(c, err)
		return
	}

	saved := false
	if body.MenuID != 0 && !agents.IsPlaceholder(category, items) {
		if err := a.Menus.ReplaceCategory(ctx, owner, body.MenuID, category, items); err != nil {
			a.respondError(c, err)
			return
		}
		saved = true
	}

	c.JSON(http.StatusOK, gin.H{"section": category, "items": items, "saved": saved})
}

func (a *CateringAPI) SaveMenu(c *gin.Context) {
	var req saveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondBindError(c, err)
		return
	}
	if req.GuestCount < 0 || req.BudgetPerPlate.IsNegative() {
		a.respondError(c, models.NewDomainError(models.ErrInvalidInput.Code, "guest_count and budget_per_plate must not be negative"))
		return
	}

	menu := models.Menu{
		EventType:           req.EventType,
		Cuisine:             req.Cuisine,
		GuestCount:          req.GuestCount,
		BudgetPerPlate:      req.BudgetPerPlate,
		DietaryPreference:   req.DietaryPreference,
		SpecialRequirements: req.SpecialRequirements,
	}
	menu.SetCourses(models.Courses{
		models.CategoryStarters:   req.Starters,
		models.CategoryMainCourse: req.MainCourse,
		models.CategoryBreads:     req.Breads,
		models.CategoryRice:       req.Rice,
		models.CategoryDesserts:   req.Desserts,
		models.CategoryBeverages:  req.Beverages,
	})

	saved, err := a.Menus.Save(c.Request.Context(), OwnerID(c), &menu)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (a *CateringAPI) GetMenu(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	menu, err := a.Menus.Get(c.Request.Context(), OwnerID(c), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (a *CateringAPI) ListMenus(c *gin.Context) {
	list, err := a.Menus.List(c.Request.Context(), OwnerID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": list})
}

// DeleteMenu removes the menu. Its invoice, if any, is kept.
func (a *CateringAPI) DeleteMenu(c *gin.Context) {
	id, ok := a.paramID(c, "id")
	if !ok {
		return
	}
	if err := a.Menus.Delete(c.Request.Context(), OwnerID(c), id); err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (a *CateringAPI) Dashboard(c *gin.Context) {
	stats, err := a.Reports.DashboardStats(c.Request.Context(), OwnerID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
