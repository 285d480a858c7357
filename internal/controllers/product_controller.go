package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Sitara-Husain/ECommerce/internal/constants"
	"github.com/Sitara-Husain/ECommerce/internal/dtos"
	"github.com/Sitara-Husain/ECommerce/internal/models"
	"github.com/Sitara-Husain/ECommerce/internal/services"
	"github.com/Sitara-Husain/ECommerce/internal/utils"
)

type ProductController struct {
	productService services.ProductService
}

func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

func productIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

func toProductResponse(p *models.Product) dtos.ProductResponse {
	return dtos.ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return
	}

	product, err := c.productService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("productID", product.ID).Info("product created")
	utils.RespondWithJSON(w, http.StatusCreated, toProductResponse(product))
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productIDFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid product ID", nil, err)
		return
	}

	product, err := c.productService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.productService.List(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	resp := dtos.ProductListResponse{Products: make([]dtos.ProductResponse, 0, len(products))}
	for _, p := range products {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productIDFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid product ID", nil, err)
		return
	}

	var req dtos.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err)
		return
	}

	product, err := c.productService.Update(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("productID", product.ID).Info("product updated")
	utils.RespondWithJSON(w, http.StatusOK, toProductResponse(product))
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productIDFromRequest(r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid product ID", nil, err)
		return
	}

	if err := c.productService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.Logger.WithField("productID", id).Info("product deleted")
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: constants.MsgProductDeleted})
}
