package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/metrics"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
)

const (
	msgCartItemEmpty         = "Cart item is empty"
	msgOrderNotFound         = "Order not found"
	msgOrderForbidden        = "Not authorized to access this order"
	msgCreateOrderSuccess    = "Order created successfully"
	msgGetAllOrders          = "Get all orders"
	msgGetOrder              = "Get order"
	msgGetUserOrders         = "Get current user orders"
	msgUpdateOrderSuccess    = "Order updated successfully"
	msgDeleteOrderSuccess    = "Order deleted successfully"
	msgUndeliveredOrders     = "Get undelivered order count"
	orderConfirmationSubject = "Your order has been received"
)

// loadOrders preloads order lines with a product summary for display.
func loadOrders(tx *gorm.DB) *gorm.DB {
	return tx.Preload("OrderItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("OrderItems.Product", productSummary)
}

func findOrder(tx *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	err := loadOrders(tx).First(&order, id).Error
	return order, err
}

// findScopedOrder loads the :id order. Only its owner or the store owner may
// see it.
func findScopedOrder(ctx *gin.Context) (models.Order, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return models.Order{}, err
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return models.Order{}, err
	}

	order, err := findOrder(db(ctx), id)
	if err != nil {
		return order, utils.FromDBError(err, msgOrderNotFound)
	}
	if order.UserID != userID && !callerIsOwner(ctx) {
		return order, utils.AuthError(msgOrderForbidden)
	}
	return order, nil
}

// buildOrderItems snapshots name and price of every line from the current
// product rows and returns the aggregate total.
func buildOrderItems(tx *gorm.DB, lines []models.OrderLineData) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, err := findProduct(tx, line.Product)
		if err != nil {
			return nil, total, productDBError(err)
		}
		amount := lineTotal(product.Price, line.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Total:     amount,
		})
		total = total.Add(amount)
	}
	return items, total, nil
}

// CreateOrder places an order from the submitted lines. The persisted cart is
// neither read nor cleared.
func CreateOrder(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.CreateOrderData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}
	if len(data.CartItem) == 0 {
		respondWithError(ctx, utils.ValidationError(msgCartItemEmpty))
		return
	}

	var order models.Order
	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		items, total, err := buildOrderItems(tx, data.CartItem)
		if err != nil {
			return err
		}
		order = models.Order{
			OrderItems:    items,
			Total:         total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusUnpaid,
			UserID:        userID,
			FirstName:     data.FirstName,
			LastName:      data.LastName,
			Phone:         data.Phone,
			Email:         data.Email,
			Address:       data.Address,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgProductNotFound))
		return
	}

	metrics.OrdersCreated.Inc()
	if cfg := initializers.Config.Mail(); cfg.Enabled() {
		go sendOrderConfirmation(cfg, order)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": msgCreateOrderSuccess,
		"data":    order,
		"total":   order.Total,
	})
}

func sendOrderConfirmation(cfg utils.MailConfig, order models.Order) {
	data := utils.OrderEmailData{
		Name:    order.FirstName,
		Message: fmt.Sprintf("We have received your order #%d and will let you know once it ships.", order.ID),
		Total:   order.Total.StringFixed(2),
		Address: order.Address,
	}
	for _, item := range order.OrderItems {
		data.Items = append(data.Items, utils.OrderEmailItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Total:    item.Total.StringFixed(2),
		})
	}

	body, err := utils.RenderOrderConfirmation(data)
	if err != nil {
		log.Error().Err(err).Uint("orderId", order.ID).Msg("render order confirmation")
		return
	}
	if err := utils.SendEmail(cfg, order.Email, orderConfirmationSubject, body); err != nil {
		log.Error().Err(err).Uint("orderId", order.ID).Msg("send order confirmation")
		return
	}
	log.Info().Uint("orderId", order.ID).Msg("order confirmation sent")
}

func GetAllOrders(ctx *gin.Context) {
	orders := []models.Order{}
	if err := loadOrders(db(ctx)).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetAllOrders, "data": orders})
}

func GetOrderByID(ctx *gin.Context) {
	order, err := findScopedOrder(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetOrder, "data": order})
}

func GetCurrentUserOrders(ctx *gin.Context) {
	userID, err := requireUserID(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	orders := []models.Order{}
	err = loadOrders(db(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgGetUserOrders, "data": orders})
}

// UpdateOrder applies a partial update. Any status may follow any other.
func UpdateOrder(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.UpdateOrderData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, utils.BindingError(err))
		return
	}

	order, err := findOrder(db(ctx), id)
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgOrderNotFound))
		return
	}

	updates := map[string]any{}
	if data.Status != nil {
		updates["status"] = *data.Status
	}
	if data.PaymentStatus != nil {
		updates["payment_status"] = *data.PaymentStatus
	}
	if data.FirstName != nil {
		updates["first_name"] = *data.FirstName
	}
	if data.LastName != nil {
		updates["last_name"] = *data.LastName
	}
	if data.Phone != nil {
		updates["phone"] = *data.Phone
	}
	if data.Email != nil {
		updates["email"] = *data.Email
	}
	if data.Address != nil {
		updates["address"] = *data.Address
	}

	if len(updates) > 0 {
		if err := db(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
			return
		}
	}

	order, err = findOrder(db(ctx), id)
	if err != nil {
		respondWithError(ctx, utils.FromDBError(err, msgOrderNotFound))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUpdateOrderSuccess, "data": order})
}

func DeleteOrder(ctx *gin.Context) {
	order, err := findScopedOrder(ctx)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	err = db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, order.ID).Error
	})
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgDeleteOrderSuccess, "data": order})
}

// GetUndeliveredOrders counts orders that still need fulfilment.
func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64
	err := db(ctx).Model(&models.Order{}).
		Where("status NOT IN ?", []string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Count(&count).Error
	if err != nil {
		respondWithError(ctx, utils.InternalError(msgInternalServerError, err))
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": msgUndeliveredOrders,
		"data":    gin.H{"undeliveredOrderCount": count},
	})
}
