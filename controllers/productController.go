package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/metrics"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
)

const (
	msgProductNotFound      = "Product not found"
	msgProductNameTaken     = "Product with this name already exists"
	msgNegativePrice        = "price must not be negative"
	msgPageDoesNotExist     = "This page does not exist"
	msgImageRequired        = "image file is required"
	msgUploadImageFailed    = "Upload image failed"
	msgUploadImageSuccess   = "Upload image success"
	msgCreateProductSuccess = "Create product success"
	msgGetAllProducts       = "Get all products"
	msgGetProduct           = "Get detail product"
	msgUpdateProductSuccess = "Product updated successfully"
	msgDeleteProductSuccess = "Delete product success"
)

func findProduct(tx *gorm.DB, id uint) (models.Product, error) {
	var product models.Product
	err := tx.First(&product, id).Error
	return product, err
}

func productDBError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ConflictError(msgProductNameTaken)
	}
	return utils.FromDBError(err, msgProductNotFound)
}

// uploadImage validates an image file and streams it to the configured store.
func uploadImage(ctx *gin.Context, file *multipart.FileHeader, folder string) (string, error) {
	input, err := utils.PrepareImage(file, folder)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(folder, "rejected").Inc()
		return "", utils.UploadError(msgUploadImageFailed, err)
	}
	if initializers.Uploader == nil {
		return "", utils.UploadError(msgUploadImageFailed, errors.New("no image uploader configured"))
	}

	url, err := initializers.Uploader.Upload(ctx.Request.Context(), input)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(folder, "failed").Inc()
		log.Error().Err(err).Str("folder", folder).Msg("image upload failed")
		return "", utils.UploadError(msgUploadImageFailed, err)
	}
	metrics.ImageUploads.WithLabelValues(folder, "ok").Inc()
	return url, nil
}

func CreateProduct(ctx *gin.Context) {
	var data models.CreateProductData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}
	if data.Price.IsNegative() {
		respondWithError(ctx, utils.ValidationError(msgNegativePrice))
		return
	}

	product := models.Product{
		Name:        data.Name,
		Price:       *data.Price,
		Description: data.Description,
		Images:      data.Images,
		Category:    data.Category,
		Colors:      data.Colors,
	}
	if data.Stock != nil {
		product.Stock = *data.Stock
	}

	if err := db(ctx).Create(&product).Error; err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgCreateProductSuccess, "data": product})
}

// GetProducts lists products with equality filters, a name substring match,
// multi-field sort and offset pagination.
func GetProducts(ctx *gin.Context) {
	query, err := parseProductListQuery(ctx.Request.URL.Query())
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var count int64
	if err := query.apply(db(ctx).Model(&models.Product{})).Count(&count).Error; err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}
	if query.pastEnd(count) {
		respondWithError(ctx, utils.NotFoundError(msgPageDoesNotExist))
		return
	}

	tx := query.apply(db(ctx))
	for _, term := range query.Order {
		tx = tx.Order(term)
	}

	products := []models.Product{}
	if err := tx.Offset(query.Offset()).Limit(query.Limit).Find(&products).Error; err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": msgGetAllProducts,
		"data":    products,
		"pagination": gin.H{
			"totalPage":    totalPages(count, query.Limit),
			"page":         query.Page,
			"limit":        query.Limit,
			"totalProduct": count,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	product, err := findProduct(db(ctx), id)
	if err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetProduct, "data": product})
}

func UpdateProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	product, err := findProduct(db(ctx), id)
	if err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	var data models.UpdateProductData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	updates := map[string]any{}
	if data.Name != nil {
		updates["name"] = *data.Name
	}
	if data.Price != nil {
		if data.Price.IsNegative() {
			respondWithError(ctx, utils.ValidationError(msgNegativePrice))
			return
		}
		updates["price"] = *data.Price
	}
	if data.Description != nil {
		updates["description"] = *data.Description
	}
	if data.Images != nil {
		updates["images"] = *data.Images
	}
	if data.Category != nil {
		updates["category"] = *data.Category
	}
	if data.Stock != nil {
		updates["stock"] = *data.Stock
	}
	if data.Colors != nil {
		updates["colors"] = data.Colors
	}

	if len(updates) > 0 {
		if err := db(ctx).Model(&product).Updates(updates).Error; err != nil {
			respondWithError(ctx, productDBError(err))
			return
		}
	}

	product, err = findProduct(db(ctx), id)
	if err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpdateProductSuccess, "data": product})
}

// DeleteProduct removes the product and its lines from every cart. Orders
// keep their snapshots.
func DeleteProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleteProductSuccess})
}

// UploadProductImage stores a single "image" form file and returns its URL.
func UploadProductImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, utils.ValidationError(msgImageRequired))
		return
	}

	url, err := uploadImage(ctx, file, utils.FolderProducts)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUploadImageSuccess, "url": url})
}
