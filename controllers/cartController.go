package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
)

const (
	msgCartNotFound      = "Cart not found"
	msgItemNotInCart     = "Product not found in cart"
	msgCartItemNotFound  = "Cart item not found"
	msgProductIDRequired = "productId is required"
	msgCartItemForbidden = "Not authorized to access this cart item"
	msgAddToCartSuccess  = "Product added or updated in cart"
	msgGetCart           = "Retrieved user cart"
	msgGetCartItem       = "Retrieved cart item"
	msgUpdateCartSuccess = "Cart item updated successfully"
	msgRemoveFromCart    = "Product removed from cart"
	msgClearCartSuccess  = "Cart cleared successfully"
	msgDeleteCartItem    = "Cart item deleted successfully"
)

var msgQuantityTooLarge = fmt.Sprintf("quantity must be at most %d", models.MaxLineQuantity)

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// loadCart returns the user's cart with items in insertion order and their
// products populated with name, price and images only.
func loadCart(tx *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Items.Product", productSummary).
		First(&cart).Error
	if err != nil {
		return cart, err
	}
	cart.ComputeTotal()
	return cart, nil
}

func findCartByUser(tx *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	return cart, err
}

func findCartLine(tx *gorm.DB, cartID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	return item, err
}

// setLineQuantity overwrites the quantity and recomputes the line total from
// the product's current price.
func setLineQuantity(tx *gorm.DB, item *models.CartItem, quantity int) error {
	product, err := findProduct(tx, item.ProductID)
	if err != nil {
		return utils.FromDBError(err, msgProductNotFound)
	}
	item.Quantity = quantity
	item.TotalPrice = lineTotal(product.Price, quantity)
	return tx.Omit("Product").Save(item).Error
}

// AddToCart creates the cart on first use, increments an existing line for
// the same product or appends a new one. The read and write are not atomic;
// concurrent adds for one user are last-write-wins.
func AddToCart(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.AddCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	product, err := findProduct(db(ctx), data.ProductID)
	if err != nil {
		respondWithError(ctx, productDBError(err))
		return
	}

	cart, err := findCartByUser(db(ctx), userID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cart = models.Cart{
			UserID: userID,
			Items: []models.CartItem{{
				ProductID:  product.ID,
				Quantity:   data.Quantity,
				TotalPrice: lineTotal(product.Price, data.Quantity),
			}},
		}
		if err := db(ctx).Create(&cart).Error; err != nil {
			respondWithError(ctx, utils.FromDBError(err, msgCartNotFound))
			return
		}
	case err != nil:
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	default:
		item, err := findCartLine(db(ctx), cart.ID, product.ID)
		switch {
		case err == nil:
			if item.Quantity > models.MaxLineQuantity-data.Quantity {
				respondWithError(ctx, utils.ValidationError(msgQuantityTooLarge))
				return
			}
			item.Quantity += data.Quantity
			item.TotalPrice = lineTotal(product.Price, item.Quantity)
			err = db(ctx).Omit("Product").Save(&item).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				Quantity:   data.Quantity,
				TotalPrice: lineTotal(product.Price, data.Quantity),
			}
			err = db(ctx).Omit("Product").Create(&item).Error
		}
		if err != nil {
			respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
			return
		}
	}

	cart, err = loadCart(db(ctx), userID)
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgCartNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgAddToCartSuccess, "data": cart})
}

func GetCart(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	cart, err := loadCart(db(ctx), userID)
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgCartNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetCart, "data": cart})
}

// productIDFromRequest prefers the :productId path segment and falls back to
// the body field.
func productIDFromRequest(ctx *gin.Context, bodyID uint) (uint, error) {
	if raw := ctx.Param("productId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return 0, utils.ValidationError(msgInvalidID)
		}
		return uint(id), nil
	}
	if bodyID == 0 {
		return 0, utils.ValidationError(msgProductIDRequired)
	}
	return bodyID, nil
}

// findUserCartLine resolves the caller's cart and the line for productID.
func findUserCartLine(ctx *gin.Context, userID, productID uint) (models.CartItem, error) {
	cart, err := findCartByUser(db(ctx), userID)
	if err != nil {
		return models.CartItem{}, utils.FromDBError(err, msgCartNotFound)
	}
	item, err := findCartLine(db(ctx), cart.ID, productID)
	if err != nil {
		return models.CartItem{}, utils.FromDBError(err, msgItemNotInCart)
	}
	return item, nil
}

func GetCartItem(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	productID, err := productIDFromRequest(ctx, 0)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	item, err := findUserCartLine(ctx, userID, productID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := db(ctx).Preload("Product", productSummary).First(&item, item.ID).Error; err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgItemNotInCart))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetCartItem, "data": item})
}

// UpdateCartItem serves PUT /cart (productId in body) and PUT /cart/:productId.
func UpdateCartItem(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.UpdateCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}
	productID, err := productIDFromRequest(ctx, data.ProductID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	item, err := findUserCartLine(ctx, userID, productID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := setLineQuantity(db(ctx), &item, data.Quantity); err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgCartItemNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpdateCartSuccess, "data": item})
}

func RemoveFromCart(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	productID, err := productIDFromRequest(ctx, 0)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	item, err := findUserCartLine(ctx, userID, productID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if err := db(ctx).Delete(&item).Error; err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgRemoveFromCart})
}

// ClearCart deletes the whole cart. Succeeds when there is no cart.
func ClearCart(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findCartByUser(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgClearCartSuccess})
}

// findScopedCartItem loads a line by its own id. The line's cart must belong
// to the caller unless the caller is the owner.
func findScopedCartItem(ctx *gin.Context) (models.CartItem, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return models.CartItem{}, err
	}
	itemID, err := parseIDParam(ctx, "itemId")
	if err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	if err := db(ctx).Preload("Product", productSummary).First(&item, itemID).Error; err != nil {
		return item, utils.FromDBError(err, msgCartItemNotFound)
	}

	var cart models.Cart
	if err := db(ctx).First(&cart, item.CartID).Error; err != nil {
		return item, utils.FromDBError(err, msgCartItemNotFound)
	}
	if cart.UserID != userID && !callerIsOwner(ctx) {
		return item, utils.AuthError(msgCartItemForbidden)
	}
	return item, nil
}

func GetCartItemByID(ctx *gin.Context) {
	item, err := findScopedCartItem(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetCartItem, "data": item})
}

func UpdateCartItemByID(ctx *gin.Context) {
	item, err := findScopedCartItem(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.UpdateCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}
	if err := setLineQuantity(db(ctx), &item, data.Quantity); err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgCartItemNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpdateCartSuccess, "data": item})
}

func DeleteCartItemByID(ctx *gin.Context) {
	item, err := findScopedCartItem(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if err := db(ctx).Delete(&models.CartItem{}, item.ID).Error; err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleteCartItem})
}
